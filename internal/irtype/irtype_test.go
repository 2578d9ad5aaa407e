package irtype

import "testing"

func TestSizesStructLayout(t *testing.T) {
	st := NewStruct([]*Field{
		NewField("flag", Typ[Bool]),
		NewField("count", Typ[Int]),
		NewField("rate", Typ[Float]),
	})

	sizes := DefaultSizes
	if got, want := sizes.Sizeof(st), int64(24); got != want {
		t.Fatalf("Sizeof(st) = %d, want %d", got, want)
	}
	if got, want := sizes.Offsetof(st, 1), int64(8); got != want {
		t.Fatalf("Offsetof(count) = %d, want %d", got, want)
	}
}

func TestIdenticalNamedTypesAreNominal(t *testing.T) {
	a := NewNamed("Point", Typ[Int])
	b := NewNamed("Point", Typ[Int])
	if Identical(a, b) {
		t.Fatalf("two distinct Named declarations with the same name+underlying must not be identical")
	}
	if !Identical(a, a) {
		t.Fatalf("a type must be identical to itself")
	}
}

func TestContextInterning(t *testing.T) {
	ctx := NewContext(nil)
	p1 := ctx.InternPointer(Typ[Int])
	p2 := ctx.InternPointer(Typ[Int])
	if p1 != p2 {
		t.Fatalf("InternPointer did not return the canonical pointer type")
	}
	if Classify(p1) != KindPointer {
		t.Fatalf("Classify(pointer) = %v, want KindPointer", Classify(p1))
	}
}

func TestContextFieldLookup(t *testing.T) {
	ctx := NewContext(nil)
	st := NewStruct([]*Field{NewField("x", Typ[Int]), NewField("y", Typ[Int])})
	idx, typ, ok := ctx.Field(st, "y")
	if !ok || idx != 1 || typ != Typ[Int] {
		t.Fatalf("Field(y) = (%d, %v, %v), want (1, int, true)", idx, typ, ok)
	}
	if _, _, ok := ctx.Field(st, "z"); ok {
		t.Fatalf("Field(z) should not be found")
	}
}
