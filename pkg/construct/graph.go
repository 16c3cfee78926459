package construct

import (
	"github.com/dominikbraun/graph"
	"github.com/fabrikplatform/fabrik/pkg/multierr"
	"github.com/pkg/errors"
)

// ValidateGraph checks the assembled tree before emission: every edge
// (ownership, scope placement, explicit dependency) must reference a node
// the arena owns, and the combined edge set must be acyclic.
func ValidateGraph(a *Arena, g *Group) error {
	dg := graph.New(func(h Handle) Handle { return h }, graph.Directed(), graph.PreventCycles())

	for i := 0; i < a.Len(); i++ {
		if err := dg.AddVertex(Handle(i)); err != nil {
			return err
		}
	}

	errs := multierr.Error{}
	for _, member := range g.Members() {
		if a.Resource(member) == nil {
			errs.Append(errors.Errorf("group %s references handle %d outside the arena", g.Name, member))
		}
	}
	for i := 0; i < a.Len(); i++ {
		h := Handle(i)
		r := a.Resource(h)
		if parent, ok := r.Parent(); ok {
			errs.Append(addDependencyEdge(a, dg, h, parent, "parent"))
		}
		if scope, ok := r.Scope(); ok {
			errs.Append(addDependencyEdge(a, dg, h, scope, "scope"))
		}
		for _, dep := range r.Dependencies() {
			errs.Append(addDependencyEdge(a, dg, h, dep, "dependency"))
		}
	}
	return errs.ErrOrNil()
}

func addDependencyEdge(a *Arena, dg graph.Graph[Handle, Handle], from Handle, to Handle, kind string) error {
	r := a.Resource(from)
	if a.Resource(to) == nil {
		return errors.Errorf("resource %s: %s references handle %d outside the arena", r.Symbol, kind, to)
	}
	err := dg.AddEdge(from, to)
	switch {
	case errors.Is(err, graph.ErrEdgeAlreadyExists):
		return nil
	case errors.Is(err, graph.ErrEdgeCreatesCycle):
		return errors.Errorf("resource %s: %s edge to %s creates a cycle", r.Symbol, kind, a.nodes[to].Symbol)
	}
	return err
}
