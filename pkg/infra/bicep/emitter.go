package bicep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/pkg/errors"
)

// tagsFieldName is the reserved property that participates in ambient tag
// inheritance: an empty tags mapping renders as a reference to the ambient
// tags variable, a populated one as a union with it.
const tagsFieldName = "tags"

const indentUnit = "  "

// Emitter renders resource nodes into Bicep resource blocks.
type Emitter struct {
	arena *construct.Arena
	ctx   *construct.RenderContext
}

func NewEmitter(arena *construct.Arena, ctx *construct.RenderContext) *Emitter {
	return &Emitter{arena: arena, ctx: ctx}
}

// Emit writes the block for h followed by every node it transitively owns,
// and returns the node's outputs merged with all of its children's outputs,
// in first-seen order.
func (e *Emitter) Emit(w io.Writer, h construct.Handle) ([]construct.Output, error) {
	buf := new(bytes.Buffer)
	outputs, err := e.emitResource(buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (e *Emitter) emitResource(buf *bytes.Buffer, h construct.Handle) ([]construct.Output, error) {
	r := e.arena.Resource(h)
	if r == nil {
		return nil, errors.Errorf("cannot emit handle %d: not part of this arena", h)
	}

	fmt.Fprintf(buf, "resource %s '%s@%s' = {\n", r.Symbol, r.TypeID, r.APIVersion)
	if parent, ok := r.Parent(); ok {
		symbol, err := e.arena.Symbol(parent)
		if err != nil {
			return nil, errors.Wrapf(err, "resource %s: parent", r.Symbol)
		}
		fmt.Fprintf(buf, "%sparent: %s\n", indentUnit, symbol)
	} else if scope, ok := r.Scope(); ok {
		symbol, err := e.arena.Symbol(scope)
		if err != nil {
			return nil, errors.Wrapf(err, "resource %s: scope", r.Symbol)
		}
		fmt.Fprintf(buf, "%sscope: %s\n", indentUnit, symbol)
	}

	for _, f := range r.Fields() {
		if isSentinel(f.Value) {
			continue
		}
		if f.Name == tagsFieldName && f.Value.Kind == construct.KindMap {
			if err := e.emitTags(buf, f.Value); err != nil {
				return nil, errors.Wrapf(err, "resource %s: field %s", r.Symbol, f.Name)
			}
			continue
		}
		if isEmptyContainer(f.Value) {
			continue
		}
		fmt.Fprintf(buf, "%s%s: ", indentUnit, f.Name)
		if err := e.writeValue(buf, f.Value, 1); err != nil {
			return nil, errors.Wrapf(err, "resource %s: field %s", r.Symbol, f.Name)
		}
		buf.WriteByte('\n')
	}

	if deps := r.Dependencies(); len(deps) > 0 {
		fmt.Fprintf(buf, "%sdependsOn: [\n", indentUnit)
		for _, dep := range deps {
			symbol, err := e.arena.Symbol(dep)
			if err != nil {
				return nil, errors.Wrapf(err, "resource %s: dependsOn", r.Symbol)
			}
			fmt.Fprintf(buf, "%s%s\n", strings.Repeat(indentUnit, 2), symbol)
		}
		fmt.Fprintf(buf, "%s]\n", indentUnit)
	}
	buf.WriteString("}\n")

	outputs := append([]construct.Output{}, r.Outputs()...)
	seen := make(map[string]struct{}, len(outputs))
	for _, o := range outputs {
		seen[o.Name] = struct{}{}
	}
	for _, child := range e.arena.Children(h) {
		buf.WriteByte('\n')
		childOutputs, err := e.emitResource(buf, child)
		if err != nil {
			return nil, err
		}
		for _, o := range childOutputs {
			if _, dup := seen[o.Name]; dup {
				return nil, errors.Errorf(
					"resource %s: output %q aggregated from %s collides with an existing output",
					r.Symbol, o.Name, e.arena.Resource(child).Symbol)
			}
			seen[o.Name] = struct{}{}
			outputs = append(outputs, o)
		}
	}
	return outputs, nil
}

// emitTags writes the tags property. Empty tags inherit the ambient tags
// variable verbatim; non-empty tags are unioned with it so the ambient tags
// always apply.
func (e *Emitter) emitTags(buf *bytes.Buffer, v construct.Value) error {
	if len(v.Pairs) == 0 {
		fmt.Fprintf(buf, "%s%s: %s\n", indentUnit, tagsFieldName, e.ctx.TagsVar)
		return nil
	}
	fmt.Fprintf(buf, "%s%s: union(%s, ", indentUnit, tagsFieldName, e.ctx.TagsVar)
	if err := e.writeValue(buf, v, 1); err != nil {
		return err
	}
	buf.WriteString(")\n")
	return nil
}

func (e *Emitter) writeValue(buf *bytes.Buffer, v construct.Value, indent int) error {
	switch v.Kind {
	case construct.KindScalar:
		text, err := encodeScalar(v.Scalar)
		if err != nil {
			return err
		}
		buf.WriteString(text)
		return nil

	case construct.KindExpr:
		text, err := v.Expr.Resolve(e.ctx)
		if err != nil {
			return err
		}
		buf.WriteString(text)
		return nil

	case construct.KindRef:
		symbol, err := e.arena.Symbol(v.Ref)
		if err != nil {
			return err
		}
		buf.WriteString(symbol + ".id")
		return nil

	case construct.KindObject:
		if len(v.Fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for _, f := range v.Fields {
			if isSentinel(f.Value) || isEmptyContainer(f.Value) {
				continue
			}
			fmt.Fprintf(buf, "%s%s: ", strings.Repeat(indentUnit, indent+1), f.Name)
			if err := e.writeValue(buf, f.Value, indent+1); err != nil {
				return errors.Wrapf(err, "field %s", f.Name)
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(indentUnit, indent) + "}")
		return nil

	case construct.KindMap:
		if len(v.Pairs) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for _, p := range v.Pairs {
			fmt.Fprintf(buf, "%s%s: ", strings.Repeat(indentUnit, indent+1), mapKey(p.Key))
			if err := e.writeValue(buf, p.Value, indent+1); err != nil {
				return errors.Wrapf(err, "key %s", p.Key)
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(indentUnit, indent) + "}")
		return nil

	case construct.KindList:
		if len(v.Items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range v.Items {
			buf.WriteString(strings.Repeat(indentUnit, indent+1))
			if err := e.writeValue(buf, item, indent+1); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(indentUnit, indent) + "]")
		return nil

	case construct.KindUnset, construct.KindNeverRender:
		return errors.New("internal: sentinel value must be skipped by the field walker")

	default:
		return errors.Errorf("unknown value kind %d", v.Kind)
	}
}

func isSentinel(v construct.Value) bool {
	return v.Kind == construct.KindUnset || v.Kind == construct.KindNeverRender
}

// isEmptyContainer reports whether a field holds an empty mapping or sequence,
// which are omitted entirely rather than rendered as {} or [].
func isEmptyContainer(v construct.Value) bool {
	switch v.Kind {
	case construct.KindMap:
		return len(v.Pairs) == 0
	case construct.KindList:
		return len(v.Items) == 0
	}
	return false
}

// encodeScalar JSON-encodes a literal and rewrites double quotes to the
// single-quote convention of the target grammar.
func encodeScalar(v any) (string, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "cannot encode scalar value")
	}
	return strings.ReplaceAll(string(encoded), `"`, `'`), nil
}
