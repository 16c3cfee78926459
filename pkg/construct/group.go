package construct

// Group is the root ownership node of a generation pass: the deployment
// boundary every top-level resource is placed into. It is the only node with
// neither parent nor scope, and keeps its members in insertion order so
// repeated generations of the same graph emit identically ordered text.
type Group struct {
	Name    string
	members []Handle
}

func NewGroup(name string) *Group {
	return &Group{Name: name}
}

func (g *Group) Add(h Handle) {
	g.members = append(g.members, h)
}

func (g *Group) Members() []Handle {
	return g.members
}
