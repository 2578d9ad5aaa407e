// Package rtabi defines the scalar size and alignment constants the type
// context uses to lay out values. It is the one piece of "what does this
// type cost in memory" knowledge that lives outside the type system itself,
// the same separation teacher's runtime ABI package drew between type shape
// and type layout.
package rtabi

// Scalar sizes in bytes.
const (
	SizeInt    = 8  // int64
	SizeFloat  = 8  // float64
	SizeBool   = 1  // stored as a single byte
	SizePtr    = 8  // pointer-width entity reference
	SizeString = 16 // { ptr, len }
)

// Scalar alignments in bytes.
const (
	AlignInt    = 8
	AlignFloat  = 8
	AlignBool   = 1
	AlignPtr    = 8
	AlignString = 8
)
