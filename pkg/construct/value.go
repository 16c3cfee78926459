package construct

type ValueKind int

const (
	// KindUnset marks a field that was declared but never given a value; the
	// emitter omits it.
	KindUnset ValueKind = iota
	// KindNeverRender marks a field that must not be serialized even when a
	// concrete value exists (write-only or client-side-only attributes).
	KindNeverRender
	KindScalar
	KindExpr
	KindRef
	KindObject
	KindMap
	KindList
)

type (
	// Value is the tagged variant for everything that can appear on the right
	// side of a rendered property. Exactly one payload is meaningful for a
	// given Kind.
	Value struct {
		Kind   ValueKind
		Scalar any
		Expr   Expression
		Ref    Handle
		Fields []Field
		Pairs  []Pair
		Items  []Value
	}

	// Field is one (renderedName, value) entry of a resource or composite.
	Field struct {
		Name  string
		Value Value
	}

	// Pair is one entry of an ordered mapping value.
	Pair struct {
		Key   string
		Value Value
	}
)

func Unset() Value {
	return Value{Kind: KindUnset}
}

func NeverRender() Value {
	return Value{Kind: KindNeverRender}
}

func ScalarValue(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

func ExprValue(e Expression) Value {
	return Value{Kind: KindExpr, Expr: e}
}

// RefValue renders as the id of the referenced node.
func RefValue(h Handle) Value {
	return Value{Kind: KindRef, Ref: h}
}

func ObjectValue(fields ...Field) Value {
	return Value{Kind: KindObject, Fields: fields}
}

func MapValue(pairs ...Pair) Value {
	return Value{Kind: KindMap, Pairs: pairs}
}

func ListValue(items ...Value) Value {
	return Value{Kind: KindList, Items: items}
}
