package value

import (
	"bytes"
	"math"
	"slices"
)

// Equal reports deep equality. Map key order is not significant, NaN equals
// NaN and timestamps compare by instant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull, KindServerTimestamp:
		return true
	case KindDouble:
		x, _ := a.AsDouble()
		y, _ := b.AsDouble()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case KindBytes:
		x, _ := a.AsBytes()
		y, _ := b.AsBytes()
		return bytes.Equal(x, y)
	case KindTimestamp:
		x, _ := a.AsTimestamp()
		y, _ := b.AsTimestamp()
		return x.Equal(y)
	case KindVector:
		x, _ := a.AsVector()
		y, _ := b.AsVector()
		return slices.Equal(x, y)
	case KindArray:
		x, _ := a.AsArray()
		y, _ := b.AsArray()
		return slices.EqualFunc(x, y, Equal)
	case KindMap:
		x, _ := a.AsMap()
		y, _ := b.AsMap()
		if x.Len() != y.Len() {
			return false
		}
		for k, xv := range x.All() {
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return a.v == b.v
	}
}
