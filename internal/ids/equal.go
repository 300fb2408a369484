package ids

import "github.com/roach88/idsgo/internal/tensor"

// Equal reports whether a and b hold the same non-empty content. Empty
// nodes compare equal regardless of their representation.
func Equal(a, b Node) bool {
	if a.Meta().Path != b.Meta().Path {
		return false
	}
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}
	switch x := a.(type) {
	case *Structure:
		y, ok := b.(*Structure)
		if !ok || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	case *StructArray:
		y, ok := b.(*StructArray)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	case *Leaf:
		y, ok := b.(*Leaf)
		return ok && tensor.Equal(x.value, y.value)
	}
	return false
}
