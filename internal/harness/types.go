package harness

import "github.com/roach88/idsgo/internal/tensor"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Errors lists the failed assertions. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Valid reports whether coordinate validation succeeded.
	Valid bool `json:"valid"`

	// ValidationError is the validator's message when Valid is false.
	ValidationError string `json:"validation_error,omitempty"`

	// EncodeError is set when the document could not be tensorized.
	EncodeError string `json:"encode_error,omitempty"`

	// Set is the tensorized document. Nil if encoding failed.
	Set *tensor.Set `json:"-"`

	// RoundTrip reports whether the document read back from the store
	// equals the original.
	RoundTrip bool `json:"roundtrip"`

	// Skipped lists the variables the decoder could not map back.
	Skipped []string `json:"skipped,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Errors:  []string{},
		Skipped: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
