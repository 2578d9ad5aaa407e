package irtype

// Identical reports whether x and y are the same type. Named types are
// identical only if they are the same declaration; everything else is
// compared structurally.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return identical(x, y)
}

func identical(x, y Type) bool {
	xn, xNamed := x.(*Named)
	yn, yNamed := y.(*Named)
	if xNamed && yNamed {
		return xn == yn
	}
	if xNamed != yNamed {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		y, ok := y.(*Basic)
		return ok && x.kind == y.kind
	case *Array:
		y, ok := y.(*Array)
		return ok && x.len == y.len && Identical(x.elem, y.elem)
	case *Vector:
		y, ok := y.(*Vector)
		return ok && x.lanes == y.lanes && Identical(x.elem, y.elem)
	case *Struct:
		y, ok := y.(*Struct)
		return ok && identicalStructs(x, y)
	case *Pointer:
		y, ok := y.(*Pointer)
		return ok && Identical(x.base, y.base)
	case *Func:
		y, ok := y.(*Func)
		return ok && identicalFuncs(x, y)
	}
	return false
}

func identicalStructs(x, y *Struct) bool {
	if len(x.fields) != len(y.fields) {
		return false
	}
	for i := range x.fields {
		if x.fields[i].name != y.fields[i].name || !Identical(x.fields[i].typ, y.fields[i].typ) {
			return false
		}
	}
	return true
}

func identicalFuncs(x, y *Func) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i], y.params[i]) {
			return false
		}
	}
	if (x.result == nil) != (y.result == nil) {
		return false
	}
	if x.result != nil && !Identical(x.result, y.result) {
		return false
	}
	return true
}

// IsVoid reports whether T is the predeclared void type (directly, not via
// a Named wrapper — a function never legitimately returns a named alias of
// void in this type system).
func IsVoid(T Type) bool {
	b, ok := T.(*Basic)
	return ok && b.kind == Void
}
