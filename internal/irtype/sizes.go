package irtype

import "github.com/kestrel-ir/kestrel/internal/rtabi"

// Sizes provides size and alignment calculations for types, consulting
// rtabi for scalar widths so the layout stays consistent with whatever
// ABI the embedding toolchain targets.
type Sizes struct{}

// DefaultSizes is the Sizes implementation used when the caller has no
// target-specific override.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of T in bytes.
func (s *Sizes) Sizeof(T Type) int64 {
	switch t := T.Underlying().(type) {
	case *Basic:
		return s.basicSize(t.kind)
	case *Array:
		return t.len * s.Sizeof(t.elem)
	case *Vector:
		return t.lanes * s.Sizeof(t.elem)
	case *Struct:
		s.ComputeLayout(t)
		return t.size
	case *Pointer:
		return rtabi.SizePtr
	case *Func:
		return rtabi.SizePtr
	case *Named:
		return s.Sizeof(t.underlying)
	}
	return 0
}

// Alignof returns the alignment of T in bytes.
func (s *Sizes) Alignof(T Type) int64 {
	switch t := T.Underlying().(type) {
	case *Basic:
		return s.basicAlign(t.kind)
	case *Array:
		if t.len == 0 {
			return 1
		}
		return s.Alignof(t.elem)
	case *Vector:
		return s.Alignof(t.elem)
	case *Struct:
		s.ComputeLayout(t)
		return t.align
	case *Pointer:
		return rtabi.AlignPtr
	case *Func:
		return rtabi.AlignPtr
	case *Named:
		return s.Alignof(t.underlying)
	}
	return 1
}

// Offsetof returns the byte offset of field i within struct type T.
func (s *Sizes) Offsetof(T *Struct, i int) int64 {
	s.ComputeLayout(T)
	return T.Offset(i)
}

// ComputeLayout fills in a struct's size, alignment, and field offsets.
// Idempotent: safe to call on an already-laid-out struct.
func (s *Sizes) ComputeLayout(st *Struct) {
	if st.LayoutDone() {
		return
	}

	var offset int64
	var maxAlign int64 = 1
	offsets := make([]int64, len(st.fields))

	for i, f := range st.fields {
		fieldSize := s.Sizeof(f.typ)
		fieldAlign := s.Alignof(f.typ)

		offset = alignUp(offset, fieldAlign)
		offsets[i] = offset
		offset += fieldSize

		if fieldAlign > maxAlign {
			maxAlign = fieldAlign
		}
	}

	size := alignUp(offset, maxAlign)
	st.SetLayout(size, maxAlign, offsets)
}

func (s *Sizes) basicSize(kind BasicKind) int64 {
	switch kind {
	case Bool:
		return rtabi.SizeBool
	case Int:
		return rtabi.SizeInt
	case Float:
		return rtabi.SizeFloat
	case String:
		return rtabi.SizeString
	default:
		return 0
	}
}

func (s *Sizes) basicAlign(kind BasicKind) int64 {
	switch kind {
	case Bool:
		return rtabi.AlignBool
	case Int:
		return rtabi.AlignInt
	case Float:
		return rtabi.AlignFloat
	case String:
		return rtabi.AlignString
	default:
		return 1
	}
}

func alignUp(x, a int64) int64 {
	return (x + a - 1) &^ (a - 1)
}
