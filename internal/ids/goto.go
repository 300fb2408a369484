package ids

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/idsgo/internal/metadata"
)

// GotoErrorKind classifies navigation failures.
type GotoErrorKind int

const (
	// GotoNotFound means a path part names no child, or indexes a node that
	// is not an array of structures.
	GotoNotFound GotoErrorKind = iota
	// GotoUnbound means a dummy index has no binding: the starting node is
	// not inside the array of structures the index refers to.
	GotoUnbound
	// GotoOutOfRange means a literal index exceeds the array length.
	GotoOutOfRange
)

func (k GotoErrorKind) String() string {
	switch k {
	case GotoUnbound:
		return "unbound index"
	case GotoOutOfRange:
		return "index out of range"
	}
	return "not found"
}

// GotoError is returned by Goto.
type GotoError struct {
	Path    string
	Part    string
	Kind    GotoErrorKind
	Message string
}

func (e *GotoError) Error() string {
	return fmt.Sprintf("path %q at %q: %s: %s", e.Path, e.Part, e.Kind, e.Message)
}

// IsGotoError reports whether err is a *GotoError of the given kind.
func IsGotoError(err error, kind GotoErrorKind) bool {
	var ge *GotoError
	return errors.As(err, &ge) && ge.Kind == kind
}

// Goto resolves p starting from the node from.
//
// Absolute paths start at the document root. Relative paths start at the
// structure enclosing from, and each leading ".." climbs one structure.
// Dummy indices bind to from's own position in the named array of
// structures.
func Goto(p metadata.Path, from Node) (Node, error) {
	var cur Node
	if p.IsRelative() {
		cur = enclosingStructure(from)
		for i := 0; i < p.Up() && cur != nil; i++ {
			cur = enclosingStructure(cur)
		}
		if cur == nil {
			return nil, &GotoError{Path: p.String(), Part: "..", Kind: GotoNotFound, Message: "climbs above the document root"}
		}
	} else {
		cur = rootOf(from)
	}

	parts := p.Parts()
	for i, part := range parts {
		s, ok := cur.(*Structure)
		if !ok {
			return nil, &GotoError{Path: p.String(), Part: part.String(), Kind: GotoNotFound,
				Message: fmt.Sprintf("%s is not a structure", cur.Meta().DisplayPath())}
		}
		child, ok := s.Child(part.Name)
		if !ok {
			return nil, &GotoError{Path: p.String(), Part: part.String(), Kind: GotoNotFound,
				Message: fmt.Sprintf("%s has no child %q", s.Meta().DisplayPath(), part.Name)}
		}

		aos, isAoS := child.(*StructArray)
		if !isAoS {
			if part.Kind != metadata.IndexNone {
				return nil, &GotoError{Path: p.String(), Part: part.String(), Kind: GotoNotFound,
					Message: fmt.Sprintf("%s is not an array of structures", child.Meta().Path)}
			}
			cur = child
			continue
		}

		last := i == len(parts)-1
		switch part.Kind {
		case metadata.IndexNone:
			if !last {
				return nil, &GotoError{Path: p.String(), Part: part.String(), Kind: GotoNotFound,
					Message: fmt.Sprintf("missing index for %s", aos.Meta().Path)}
			}
			cur = aos
		case metadata.IndexLiteral:
			if part.Index >= aos.Len() {
				return nil, &GotoError{Path: p.String(), Part: part.String(), Kind: GotoOutOfRange,
					Message: fmt.Sprintf("%s has %d elements", aos.Meta().Path, aos.Len())}
			}
			cur = aos.At(part.Index)
		case metadata.IndexDummy:
			idx, ok := boundIndex(from, aos)
			if !ok {
				return nil, &GotoError{Path: p.String(), Part: part.String(), Kind: GotoUnbound,
					Message: fmt.Sprintf("%s is not inside %s", displayPath(from), aos.Meta().Path)}
			}
			cur = aos.At(idx)
		}
	}
	return cur, nil
}

// enclosingStructure returns the nearest structure above n, skipping the
// array of structures an element belongs to.
func enclosingStructure(n Node) Node {
	p := n.Parent()
	if _, ok := p.(*StructArray); ok {
		p = p.Parent()
	}
	return p
}

func rootOf(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// boundIndex returns from's position in aos, if from lies inside it.
func boundIndex(from Node, aos *StructArray) (int, bool) {
	for n := from; n != nil; n = n.Parent() {
		if s, ok := n.(*Structure); ok && s.index >= 0 && s.parent == Node(aos) {
			return s.index, true
		}
	}
	return 0, false
}

// AoSIndex returns the positions of n's enclosing array elements,
// outermost first. An array element itself contributes its own position.
func AoSIndex(n Node) []int {
	var idx []int
	for ; n != nil; n = n.Parent() {
		if s, ok := n.(*Structure); ok && s.index >= 0 {
			idx = append(idx, s.index)
		}
	}
	slices.Reverse(idx)
	return idx
}

// displayPath renders n's path with 0-based element positions, e.g.
// "profiles_1d[1]/ion[0]/density".
func displayPath(n Node) string {
	var parts []string
	for ; n != nil && n.Parent() != nil; n = n.Parent() {
		switch x := n.(type) {
		case *Structure:
			if x.index >= 0 {
				parts = append(parts, fmt.Sprintf("%s[%d]", x.meta.Name, x.index))
				n = x.parent // skip the array itself
				continue
			}
			parts = append(parts, x.meta.Name)
		default:
			parts = append(parts, n.Meta().Name)
		}
	}
	if len(parts) == 0 && n != nil {
		return n.Meta().Name
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// DisplayPath renders n's location for messages, with 0-based element
// positions: "profiles_1d[1]/ion[0]/density".
func DisplayPath(n Node) string { return displayPath(n) }
