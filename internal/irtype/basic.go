package irtype

// BasicKind identifies a scalar type.
type BasicKind int

const (
	Invalid BasicKind = iota

	Bool
	Int
	Float
	String

	// Void has no storage and is used only as a function result or
	// instruction value-type placeholder.
	Void
)

// Basic is a scalar type: bool, int, float, string, or void.
type Basic struct {
	typ
	kind BasicKind
	name string
}

func (b *Basic) Kind() BasicKind { return b.kind }
func (b *Basic) Name() string    { return b.name }
func (b *Basic) Underlying() Type { return b }
func (b *Basic) String() string   { return b.name }

// Typ holds the predeclared basic types, indexed by BasicKind.
// Typ[Invalid] is nil.
var Typ = []*Basic{
	Invalid: nil,
	Bool:    {kind: Bool, name: "bool"},
	Int:     {kind: Int, name: "int"},
	Float:   {kind: Float, name: "float"},
	String:  {kind: String, name: "string"},
	Void:    {kind: Void, name: "void"},
}
