package node

// Tolerance bundles the float/double comparison tolerances used by
// [IsDeepEqual] and the v3 optimizer's structural-equality pass. The
// zero Tolerance is not usable directly; use [DefaultTolerance].
type Tolerance struct {
	F32 float64
	F64 float64
}

// DefaultTolerance returns the default comparison tolerances: 0.001
// for both f32 and f64.
func DefaultTolerance() Tolerance {
	return Tolerance{F32: 0.001, F64: 0.001}
}

// IsDeepEqual reports whether a and b are structurally equal: same
// name, value (within tol), and recursively equal ordered children
// and attributes. nil is only equal to nil.
func IsDeepEqual(a, b *Node, tol Tolerance) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.name != b.name {
		return false
	}
	if !a.value.Equal(b.value, tol.F32, tol.F64) {
		return false
	}
	if len(a.attrs) != len(b.attrs) {
		return false
	}
	for i := range a.attrs {
		if !attributesEqual(a.attrs[i], b.attrs[i], tol) {
			return false
		}
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !IsDeepEqual(a.children[i], b.children[i], tol) {
			return false
		}
	}
	return true
}

func attributesEqual(a, b *Attribute, tol Tolerance) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.name == b.name && a.value.Equal(b.value, tol.F32, tol.F64)
}
