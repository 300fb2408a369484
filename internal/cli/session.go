package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/coordinate"
	"github.com/roach88/idsgo/internal/entry"
	"github.com/roach88/idsgo/internal/store"
)

// session is an open store with the Entry facade over it.
type session struct {
	store *store.Store
	entry *entry.Entry
}

// openSession compiles the dictionary and opens the store named by opts.
// The caller must Close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	dict, err := LoadDictionary(opts.Dictionary)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger(cmd.ErrOrStderr())
	s, err := store.Open(opts.DB, store.WithLogger(logger))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: fmt.Sprintf("opening %s: %v", opts.DB, err)}
	}

	e := entry.New(dict, s,
		entry.WithLogger(logger),
		entry.WithValidation(!opts.DisableValidate),
	)
	return &session{store: s, entry: e}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// storeErrorCode classifies errors returned by the store and the Entry.
// The second result is the exit code.
func storeErrorCode(err error) (string, int) {
	switch {
	case coordinate.IsValidationError(err):
		return ErrCodeInvalidCoordinates, ExitFailure
	case store.IsNotFound(err):
		return ErrCodeNotFound, ExitCommandError
	case store.IsExists(err):
		return ErrCodeExists, ExitCommandError
	case store.IsIntegrityError(err):
		return ErrCodeIntegrity, ExitFailure
	case entry.IsVersionError(err):
		return ErrCodeVersion, ExitCommandError
	}
	code, _ := loadErrorParts(err)
	return code, ExitCommandError
}

// outputStoreError reports err through formatter and returns the matching
// ExitError.
func outputStoreError(formatter *OutputFormatter, err error) error {
	code, exit := storeErrorCode(err)
	_, message := loadErrorParts(err)
	_ = formatter.Error(code, message, nil)
	return WrapExitError(exit, code, err)
}
