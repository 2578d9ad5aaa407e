package irtype

import (
	"fmt"
	"strings"
)

// Array is a fixed-length array type [N]Elem.
type Array struct {
	typ
	len  int64
	elem Type
}

func NewArray(len int64, elem Type) *Array { return &Array{len: len, elem: elem} }

func (a *Array) Len() int64       { return a.len }
func (a *Array) Elem() Type       { return a.elem }
func (a *Array) Underlying() Type { return a }
func (a *Array) String() string   { return fmt.Sprintf("[%d]%s", a.len, a.elem) }

// Field is one member of a Struct.
type Field struct {
	name string
	typ  Type
}

func NewField(name string, typ Type) *Field { return &Field{name: name, typ: typ} }
func (f *Field) Name() string               { return f.name }
func (f *Field) Type() Type                 { return f.typ }

// Struct is a struct type with a fixed, ordered set of fields. Layout
// (size/align/offsets) is computed lazily by Sizes.ComputeLayout and cached
// here so repeated Sizeof calls are cheap.
type Struct struct {
	typ
	fields  []*Field
	size    int64
	align   int64
	offsets []int64
}

func NewStruct(fields []*Field) *Struct { return &Struct{fields: fields} }

func (s *Struct) NumFields() int      { return len(s.fields) }
func (s *Struct) Field(i int) *Field  { return s.fields[i] }
func (s *Struct) Fields() []*Field    { return s.fields }
func (s *Struct) Size() int64        { return s.size }
func (s *Struct) Align() int64       { return s.align }
func (s *Struct) Offset(i int) int64 { return s.offsets[i] }
func (s *Struct) LayoutDone() bool   { return s.offsets != nil }

func (s *Struct) SetLayout(size, align int64, offsets []int64) {
	s.size, s.align, s.offsets = size, align, offsets
}

func (s *Struct) Underlying() Type { return s }

func (s *Struct) String() string {
	var buf strings.Builder
	buf.WriteString("{")
	for i, f := range s.fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(f.name)
		buf.WriteString(" ")
		buf.WriteString(f.typ.String())
	}
	buf.WriteString("}")
	return buf.String()
}

// Pointer is a raw, untraced pointer type *T.
type Pointer struct {
	typ
	base Type
}

func NewPointer(base Type) *Pointer { return &Pointer{base: base} }
func (p *Pointer) Elem() Type       { return p.base }
func (p *Pointer) Underlying() Type { return p }
func (p *Pointer) String() string   { return "*" + p.base.String() }

// Vector is a fixed-width SIMD-shaped aggregate, distinct from Array in
// that the IR treats it as a single value-type rather than an addressable
// sequence (spec.md's value-type classification lists vector alongside
// array/struct).
type Vector struct {
	typ
	lanes int64
	elem  Type
}

func NewVector(lanes int64, elem Type) *Vector { return &Vector{lanes: lanes, elem: elem} }
func (v *Vector) Lanes() int64                 { return v.lanes }
func (v *Vector) Elem() Type                   { return v.elem }
func (v *Vector) Underlying() Type             { return v }
func (v *Vector) String() string               { return fmt.Sprintf("<%d x %s>", v.lanes, v.elem) }

// Func is a function type: an ordered parameter list and an optional
// result type (nil result means void).
type Func struct {
	typ
	params []Type
	result Type
}

func NewFunc(params []Type, result Type) *Func { return &Func{params: params, result: result} }

func (f *Func) Params() []Type  { return f.params }
func (f *Func) NumParams() int  { return len(f.params) }
func (f *Func) Param(i int) Type { return f.params[i] }
func (f *Func) Result() Type    { return f.result }
func (f *Func) Underlying() Type { return f }

func (f *Func) String() string {
	var buf strings.Builder
	buf.WriteString("func(")
	for i, p := range f.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.String())
	}
	buf.WriteString(")")
	if f.result != nil {
		buf.WriteString(" ")
		buf.WriteString(f.result.String())
	}
	return buf.String()
}
