package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// NotFoundError reports a missing occurrence. It unwraps to sql.ErrNoRows.
type NotFoundError struct {
	IDS        string
	Occurrence int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no entry for %s occurrence %d", e.IDS, e.Occurrence)
}

func (e *NotFoundError) Unwrap() error {
	return sql.ErrNoRows
}

// ExistsError reports an attempt to overwrite a stored occurrence.
type ExistsError struct {
	IDS        string
	Occurrence int
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s occurrence %d already exists", e.IDS, e.Occurrence)
}

// IntegrityError reports stored content that no longer matches its hash.
type IntegrityError struct {
	IDS        string
	Occurrence int
	// Variable is empty when the tensor set hash fails.
	Variable string
	Want     string
	Got      string
}

func (e *IntegrityError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("%s occurrence %d: content hash %s, stored %s", e.IDS, e.Occurrence, e.Got, e.Want)
	}
	return fmt.Sprintf("%s occurrence %d: variable %q hash %s, stored %s",
		e.IDS, e.Occurrence, e.Variable, e.Got, e.Want)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsExists reports whether err is an ExistsError.
func IsExists(err error) bool {
	var ee *ExistsError
	return errors.As(err, &ee)
}

// IsIntegrityError reports whether err is an IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
