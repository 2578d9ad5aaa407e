package irtype

// Named is a type with a user-given name wrapping an underlying type, used
// so two structurally-identical struct types can still be distinct types
// (nominal typing) when the module gives them separate declarations.
type Named struct {
	typ
	name       string
	underlying Type
}

func NewNamed(name string, underlying Type) *Named {
	return &Named{name: name, underlying: underlying}
}

func (n *Named) Name() string { return n.name }

func (n *Named) SetUnderlying(underlying Type) { n.underlying = underlying }

func (n *Named) Underlying() Type { return n.underlying }

func (n *Named) String() string {
	if n.name != "" {
		return n.name
	}
	return "unnamed"
}
