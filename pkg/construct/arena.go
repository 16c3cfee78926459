package construct

import (
	"math/rand"
	"strings"
	"time"

	"github.com/fabrikplatform/fabrik/pkg/sanitization"
	"github.com/pkg/errors"
)

// Handle is an index into an [Arena]. All edges between resources (parent,
// scope, dependsOn, expression references) are handles rather than pointers,
// so the arena owns every node and the graph cannot form dangling references.
type Handle int

const InvalidHandle Handle = -1

const (
	symbolSuffixLen = 5
	symbolAlphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Arena owns the resource nodes of one generation run and hands out
// process-unique symbols for them.
type Arena struct {
	nodes   []*Resource
	symbols map[string]struct{}
	rng     *rand.Rand
}

func NewArena() *Arena {
	return &Arena{
		symbols: make(map[string]struct{}),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewResource allocates a node for one declared infrastructure object.
// kind is only used to derive a readable symbol prefix; typeID and apiVersion
// identify the resource type in the target grammar and are immutable.
func (a *Arena) NewResource(kind string, typeID string, apiVersion string) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, &Resource{
		handle:     h,
		Symbol:     a.newSymbol(kind),
		TypeID:     typeID,
		APIVersion: apiVersion,
		parent:     InvalidHandle,
		scope:      InvalidHandle,
	})
	return h
}

// Resource returns the node for h, or nil if h was not allocated by this arena.
func (a *Arena) Resource(h Handle) *Resource {
	if h < 0 || int(h) >= len(a.nodes) {
		return nil
	}
	return a.nodes[h]
}

// Symbol resolves a handle to its template-local symbol.
func (a *Arena) Symbol(h Handle) (string, error) {
	r := a.Resource(h)
	if r == nil {
		return "", errors.Errorf("handle %d does not belong to this arena", h)
	}
	return r.Symbol, nil
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

// Children returns the handles of every node whose parent is h, in the order
// the nodes were allocated. Emission order for owned children follows this.
func (a *Arena) Children(h Handle) []Handle {
	var children []Handle
	for _, r := range a.nodes {
		if r.parent == h {
			children = append(children, r.handle)
		}
	}
	return children
}

// newSymbol generates a fresh `<prefix>_<5 alnum chars>` identifier. Symbols
// only cross-reference nodes within one generated template; they carry no
// deployment meaning and differ between runs.
func (a *Arena) newSymbol(kind string) string {
	prefix := sanitization.SymbolPrefixSanitizer.Apply(kind)
	if prefix == "" {
		prefix = "res"
	}
	for {
		sb := strings.Builder{}
		sb.WriteString(prefix)
		sb.WriteRune('_')
		for i := 0; i < symbolSuffixLen; i++ {
			sb.WriteByte(symbolAlphabet[a.rng.Intn(len(symbolAlphabet))])
		}
		symbol := sb.String()
		if _, taken := a.symbols[symbol]; !taken {
			a.symbols[symbol] = struct{}{}
			return symbol
		}
	}
}
