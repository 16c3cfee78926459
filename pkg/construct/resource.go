package construct

import (
	"github.com/pkg/errors"
)

type (
	// Resource is one declared infrastructure object in the graph. It is
	// mutable while the caller assembles the tree and must not be modified
	// once handed to the emitter.
	Resource struct {
		handle     Handle
		Symbol     string
		TypeID     string
		APIVersion string

		parent    Handle
		scope     Handle
		dependsOn []Handle
		fields    []Field
		outputs   []Output
	}

	// Output is one named value the resource publishes for re-export.
	Output struct {
		Name string
		Expr Expression
	}
)

func (r *Resource) Handle() Handle {
	return r.handle
}

// SetParent records exclusive ownership by another node. Ownership and scope
// placement are mutually exclusive.
func (r *Resource) SetParent(h Handle) error {
	if r.scope != InvalidHandle {
		return errors.Errorf("resource %s: cannot set parent, scope is already set", r.Symbol)
	}
	r.parent = h
	return nil
}

// SetScope places the node inside another node's boundary without ownership.
func (r *Resource) SetScope(h Handle) error {
	if r.parent != InvalidHandle {
		return errors.Errorf("resource %s: cannot set scope, parent is already set", r.Symbol)
	}
	r.scope = h
	return nil
}

func (r *Resource) Parent() (Handle, bool) {
	return r.parent, r.parent != InvalidHandle
}

func (r *Resource) Scope() (Handle, bool) {
	return r.scope, r.scope != InvalidHandle
}

// AddDependency declares that h must be emitted before this node is used,
// independent of ownership. Duplicates are ignored; order is preserved.
func (r *Resource) AddDependency(h Handle) {
	for _, existing := range r.dependsOn {
		if existing == h {
			return
		}
	}
	r.dependsOn = append(r.dependsOn, h)
}

func (r *Resource) Dependencies() []Handle {
	return r.dependsOn
}

// SetField sets the value rendered under name. The first SetField for a name
// establishes its position; re-setting replaces the value in place so field
// order stays the declaration order.
func (r *Resource) SetField(name string, v Value) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

func (r *Resource) Field(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Fields returns the field table in declaration order. Callers must not
// mutate the returned slice.
func (r *Resource) Fields() []Field {
	return r.fields
}

// AddOutput publishes a named output. Output names must be unique per node;
// callers namespace child outputs by convention (kind prefix + suffix).
func (r *Resource) AddOutput(name string, e Expression) error {
	for _, o := range r.outputs {
		if o.Name == name {
			return errors.Errorf("resource %s: output %q is already declared", r.Symbol, name)
		}
	}
	r.outputs = append(r.outputs, Output{Name: name, Expr: e})
	return nil
}

func (r *Resource) Outputs() []Output {
	return r.outputs
}
