package compiler

import (
	"fmt"
	"path"
	"strings"

	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedType = "E100" // unsupported value for validation

	// Tree errors (E101-E109)
	ErrMissingTimeMode = "E101" // ids_properties/homogeneous_time missing or not INT_0D
	ErrMissingTimeBase = "E102" // dynamic IDS without a root time quantity

	// Coordinate errors (E110-E119)
	ErrCoordinateNotFound    = "E110" // reference names no node
	ErrCoordinateNotQuantity = "E111" // reference names a structure or 0-D leaf
	ErrDummyIndexOutside     = "E112" // dummy index on an AoS that is not an ancestor
	ErrSameAsInvalid         = "E113" // same_as target missing or too few dimensions
	ErrAlternativeInvalid    = "E114" // alternative_coordinate1 target missing or not 1-D
)

// ValidationError represents a data dictionary consistency error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks compiled metadata for consistency.
// Returns all errors found (does not fail-fast).
// Supports Dictionary and Tree types.
func Validate(v any) []ValidationError {
	switch v := v.(type) {
	case *metadata.Dictionary:
		var errs []ValidationError
		for _, name := range v.Names() {
			tree, err := v.IDS(name)
			if err != nil {
				continue
			}
			errs = append(errs, validateTree(tree)...)
		}
		return errs
	case *metadata.Tree:
		return validateTree(v)
	default:
		return []ValidationError{{
			Field:   "",
			Message: fmt.Sprintf("unsupported type for validation: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

func validateTree(tree *metadata.Tree) []ValidationError {
	var errs []ValidationError
	field := func(n *metadata.Node, kind string, dim int) string {
		return fmt.Sprintf("%s/%s.%s[%d]", tree.Name(), n.Path, kind, dim)
	}

	// E101: every IDS carries its time mode
	if n, ok := tree.Lookup(ir.TimeModePath); !ok || n.Type != ir.Integer || n.NDim != 0 {
		errs = append(errs, ValidationError{
			Field:   tree.Name() + "/" + ir.TimeModePath,
			Message: "IDS must declare ids_properties/homogeneous_time as INT_0D",
			Code:    ErrMissingTimeMode,
		})
	}

	// E102: dynamic IDSs need a time base
	if tree.Root().Lifecycle == ir.LifecycleDynamic {
		if n, ok := tree.Lookup(ir.TimePath); !ok || n.Type != ir.Float || n.NDim != 1 {
			errs = append(errs, ValidationError{
				Field:   tree.Name() + "/" + ir.TimePath,
				Message: "dynamic IDS must declare time as FLT_1D",
				Code:    ErrMissingTimeBase,
			})
		}
	}

	_ = tree.Walk(func(n *metadata.Node) error {
		for dim, coord := range n.Coordinates {
			for _, ref := range coord.References {
				if msg, code := checkReference(tree, n, ref); msg != "" {
					errs = append(errs, ValidationError{
						Field:   field(n, "coordinates", dim),
						Message: fmt.Sprintf("coordinate %s: %s", ref, msg),
						Code:    code,
					})
				}
			}
		}

		// E113: same_as targets must have the dimension being compared
		for dim, coord := range n.CoordinatesSameAs {
			if coord == nil || len(coord.References) == 0 {
				continue
			}
			ref := coord.References[0]
			target, ok := lookup(tree, n, ref)
			switch {
			case !ok:
				errs = append(errs, ValidationError{
					Field:   field(n, "coordinates_same_as", dim),
					Message: fmt.Sprintf("%s does not exist", ref),
					Code:    ErrSameAsInvalid,
				})
			case target.NDim <= dim:
				errs = append(errs, ValidationError{
					Field: field(n, "coordinates_same_as", dim),
					Message: fmt.Sprintf("%s has %d dimensions, dimension %d is compared",
						ref, target.NDim, dim+1),
					Code: ErrSameAsInvalid,
				})
			}
		}

		// E114: alternatives stand in for a 1-D coordinate
		for i, alt := range n.AlternativeCoordinate1 {
			target, ok := lookup(tree, n, alt)
			if ok && target.Type.IsScalar() && target.NDim == 1 {
				continue
			}
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s/%s.alternative_coordinate1[%d]", tree.Name(), n.Path, i),
				Message: fmt.Sprintf("%s is not a 1-D quantity", alt),
				Code:    ErrAlternativeInvalid,
			})
		}
		return nil
	})

	return errs
}

// checkReference returns a message and code when ref cannot serve as a
// coordinate of n.
func checkReference(tree *metadata.Tree, n *metadata.Node, ref metadata.Path) (string, string) {
	target, ok := lookup(tree, n, ref)
	if !ok {
		return "no such node", ErrCoordinateNotFound
	}

	// An AoS may be indexed by a 0-D quantity inside its own elements.
	ownElement := n.Type == ir.StructArray && ref.IsAncestorOf(n.Path)
	switch {
	case target.Type == ir.Structure:
		return "is a structure, not a quantity with a length", ErrCoordinateNotQuantity
	case target.Type.IsScalar() && target.NDim == 0 && !ownElement:
		return "is a 0-D quantity, not a quantity with a length", ErrCoordinateNotQuantity
	}

	// E112: dummy indices must refer to an enclosing AoS
	if ref.IsRelative() {
		return "", ""
	}
	var names []string
	for _, part := range ref.Parts() {
		names = append(names, part.Name)
		if part.Kind != metadata.IndexDummy {
			continue
		}
		prefix := strings.Join(names, "/")
		if prefix != n.Path && !isAncestor(prefix, n.Path) {
			return fmt.Sprintf("dummy index %s is not bound by an ancestor of %s", part, n.Path), ErrDummyIndexOutside
		}
	}
	return "", ""
}

// lookup finds the node ref points at, resolving relative references from
// the structure that contains n.
func lookup(tree *metadata.Tree, n *metadata.Node, ref metadata.Path) (*metadata.Node, bool) {
	if !ref.IsRelative() {
		return tree.Lookup(ref.SchemaPath())
	}
	base := tree.Parent(n)
	for i := 0; i < ref.Up() && base != nil; i++ {
		base = tree.Parent(base)
	}
	if base == nil {
		return nil, false
	}
	return tree.Lookup(path.Join(base.Path, ref.SchemaPath()))
}

func isAncestor(prefix, p string) bool {
	return strings.HasPrefix(p, prefix+"/")
}
