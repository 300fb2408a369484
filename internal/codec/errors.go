package codec

import (
	"errors"
	"fmt"
)

// CodecError reports a variable that could not be mapped onto a document.
// Decoding skips the variable and continues.
type CodecError struct {
	// Variable is the tensor set name of the offending variable.
	Variable string
	Message  string
	Err      error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("variable %q: %s: %v", e.Variable, e.Message, e.Err)
	}
	return fmt.Sprintf("variable %q: %s", e.Variable, e.Message)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// IsCodecError reports whether err wraps a *CodecError.
func IsCodecError(err error) bool {
	var ce *CodecError
	return errors.As(err, &ce)
}
