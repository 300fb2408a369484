package ids

import "slices"

// WalkFunc is called by WalkNonEmpty with the AoS index of n.
type WalkFunc func(aos []int, n Node) error

// WalkNonEmpty visits every non-empty node below s in pre-order: leaves,
// structures and arrays of structures. Array elements are not visited
// themselves; their children are, with the element position appended to
// the AoS index. The aos slice is owned by fn.
func WalkNonEmpty(s *Structure, fn WalkFunc) error {
	return walkNonEmpty(s, AoSIndex(s), fn)
}

func walkNonEmpty(s *Structure, aos []int, fn WalkFunc) error {
	for _, child := range s.children {
		if child.IsEmpty() {
			continue
		}
		if err := fn(slices.Clone(aos), child); err != nil {
			return err
		}
		switch c := child.(type) {
		case *StructArray:
			for i, elem := range c.elems {
				if err := walkNonEmpty(elem, append(slices.Clone(aos), i), fn); err != nil {
					return err
				}
			}
		case *Structure:
			if err := walkNonEmpty(c, aos, fn); err != nil {
				return err
			}
		case *Leaf:
		}
	}
	return nil
}
