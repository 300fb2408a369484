package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

func assertValid(r *Result, _ Assertion) error {
	if r.Valid {
		return nil
	}
	return &AssertionError{Type: AssertValid, Expected: "document validates", Actual: r.ValidationError}
}

func assertInvalid(r *Result, a Assertion) error {
	if r.Valid {
		return &AssertionError{Type: AssertInvalid, Expected: "validation error", Actual: "document validates"}
	}
	if a.Contains != "" && !strings.Contains(r.ValidationError, a.Contains) {
		return &AssertionError{
			Type:     AssertInvalid,
			Expected: fmt.Sprintf("validation error containing %q", a.Contains),
			Actual:   r.ValidationError,
		}
	}
	return nil
}

func assertRoundTrip(r *Result, _ Assertion) error {
	if r.EncodeError != "" {
		return &AssertionError{Type: AssertRoundTrip, Expected: "document encodes", Actual: r.EncodeError}
	}
	if !r.RoundTrip {
		return &AssertionError{
			Type:     AssertRoundTrip,
			Expected: "decoded document equals the original",
			Actual:   "documents differ",
		}
	}
	return nil
}

func assertSparse(r *Result, a Assertion) error {
	return assertSparsity(r, a, true)
}

func assertDense(r *Result, a Assertion) error {
	return assertSparsity(r, a, false)
}

func assertSparsity(r *Result, a Assertion, want bool) error {
	if r.Set == nil {
		return &AssertionError{Type: a.Type, Expected: "tensor set", Actual: r.EncodeError}
	}
	v, ok := r.Set.Variable(a.Variable)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("variable %s", a.Variable),
			Actual:   fmt.Sprintf("not in tensor set %v", r.Set.Names()),
		}
	}
	if v.IsSparse() != want {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s is %s", a.Variable, sparsity(want)),
			Actual:   sparsity(v.IsSparse()),
		}
	}
	return nil
}

func sparsity(sparse bool) string {
	if sparse {
		return "sparse"
	}
	return "dense"
}

func assertDimension(r *Result, a Assertion) error {
	if r.Set == nil {
		return &AssertionError{Type: AssertDimension, Expected: "tensor set", Actual: r.EncodeError}
	}
	size, ok := r.Set.DimensionSize(a.Name)
	if !ok {
		return &AssertionError{
			Type:     AssertDimension,
			Expected: fmt.Sprintf("dimension %s", a.Name),
			Actual:   "not in tensor set",
		}
	}
	if size != *a.Size {
		return &AssertionError{
			Type:     AssertDimension,
			Expected: fmt.Sprintf("dimension %s of size %d", a.Name, *a.Size),
			Actual:   fmt.Sprintf("size %d", size),
		}
	}
	return nil
}

func assertDims(r *Result, a Assertion) error {
	if r.Set == nil {
		return &AssertionError{Type: AssertDims, Expected: "tensor set", Actual: r.EncodeError}
	}
	v, ok := r.Set.Variable(a.Variable)
	if !ok {
		return &AssertionError{
			Type:     AssertDims,
			Expected: fmt.Sprintf("variable %s", a.Variable),
			Actual:   "not in tensor set",
		}
	}
	if !slices.Equal(v.Dims, a.Dims) {
		return &AssertionError{
			Type:     AssertDims,
			Expected: fmt.Sprintf("%s%v", a.Variable, a.Dims),
			Actual:   fmt.Sprintf("%s%v", a.Variable, v.Dims),
		}
	}
	return nil
}

func assertSkipped(r *Result, a Assertion) error {
	if len(r.Skipped) != *a.Count {
		return &AssertionError{
			Type:     AssertSkipped,
			Expected: fmt.Sprintf("%d skipped variables", *a.Count),
			Actual:   fmt.Sprintf("%d skipped: %v", len(r.Skipped), r.Skipped),
		}
	}
	return nil
}

var asserters = map[string]func(*Result, Assertion) error{
	AssertValid:     assertValid,
	AssertInvalid:   assertInvalid,
	AssertRoundTrip: assertRoundTrip,
	AssertSparse:    assertSparse,
	AssertDense:     assertDense,
	AssertDimension: assertDimension,
	AssertDims:      assertDims,
	AssertSkipped:   assertSkipped,
}

// EvaluateAssertions runs all assertions and returns the failure messages.
// Evaluation continues after a failure so every problem is reported.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		fn, ok := asserters[a.Type]
		if !ok {
			errs = append(errs, fmt.Sprintf("assertion %d: unknown assertion type %q", i, a.Type))
			continue
		}
		if err := fn(r, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}
