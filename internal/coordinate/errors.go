package coordinate

import (
	"errors"
	"fmt"
	"strings"
)

// LookupKind categorizes coordinate lookup failures.
type LookupKind string

const (
	// KindNotFound means a reference names no node in the document.
	KindNotFound LookupKind = "NOT_FOUND"
	// KindNotQuantity means a reference resolves to a structure or to a
	// 0-D leaf, neither of which has a length.
	KindNotQuantity LookupKind = "NOT_QUANTITY"
	// KindOutsideTree means a reference uses a dummy index of an array of
	// structures the node does not live in.
	KindOutsideTree LookupKind = "OUTSIDE_TREE"
	// KindInvalidIndex means a literal index in a reference is out of range.
	KindInvalidIndex LookupKind = "INVALID_INDEX"
	// KindAlternatives means alternative references are unset or disagree.
	KindAlternatives LookupKind = "ALTERNATIVES"
	// KindTimeMode means a time coordinate was resolved without a usable
	// time mode.
	KindTimeMode LookupKind = "TIME_MODE"
)

// LookupError reports that a coordinate could not be resolved to a value.
type LookupError struct {
	Kind LookupKind
	// Dim is the 0-based dimension being resolved.
	Dim int
	// Path is the location of the node being resolved.
	Path string
	// References are the candidate coordinate paths that were tried.
	References []string
	Message    string
	Err        error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// IsLookupError reports whether err wraps a *LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}

// IsLookupKind reports whether err wraps a *LookupError of the given kind.
func IsLookupKind(err error, kind LookupKind) bool {
	var le *LookupError
	return errors.As(err, &le) && le.Kind == kind
}

// Position is one level of AoS context: element Index of the array at Path.
type Position struct {
	Path  string
	Index int
}

// ValidationError reports the first coordinate inconsistency found in a
// document.
type ValidationError struct {
	// Path is the schema path of the offending node.
	Path string
	// Dim is the 0-based dimension, or -1 for document-level failures.
	Dim      int
	Actual   int
	Expected int
	// Coordinate is the path of the coordinate whose size was expected; empty
	// for fixed-size coordinates.
	Coordinate string
	// AoS locates the node: the enclosing array elements, outermost first.
	AoS []Position
	// Message replaces the size description for failures that are not size
	// mismatches.
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		fmt.Fprintf(&b, "dimension %d of element %q has incorrect size %d: expected size %d",
			e.Dim+1, e.Path, e.Actual, e.Expected)
		if e.Coordinate != "" {
			fmt.Fprintf(&b, " (size of coordinate %s)", e.Coordinate)
		}
	}
	for i, pos := range e.AoS {
		if i == 0 {
			b.WriteString(" in ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "element %d of %s", pos.Index, pos.Path)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
