package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/coordinate"
)

// DocumentValidation holds the validation result of one document file.
type DocumentValidation struct {
	File  string `json:"file"`
	IDS   string `json:"ids"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                 `json:"valid"`
	Documents []DocumentValidation `json:"documents"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>...",
		Short: "Validate the coordinates of IDS documents",
		Long: `Validate IDS document files against the Data Dictionary.

Each document is filled from its YAML file and every filled quantity is
checked against the sizes of its coordinates. Nothing is stored.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (dictionary or document could not be loaded)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	dict, err := LoadDictionary(opts.Dictionary)
	if err != nil {
		code, message := loadErrorParts(err)
		return outputValidateError(formatter, code, message, nil)
	}

	result := ValidationResult{Valid: true, Documents: make([]DocumentValidation, 0, len(files))}
	for _, file := range files {
		f, err := LoadDocumentFile(file)
		if err != nil {
			code, message := loadErrorParts(err)
			return outputValidateError(formatter, code, message, nil)
		}
		doc, err := BuildDocument(dict, f)
		if err != nil {
			code, message := loadErrorParts(err)
			return outputValidateError(formatter, code, fmt.Sprintf("%s: %s", file, message), nil)
		}

		formatter.VerboseLog("Validating %s (%s)", file, f.IDS)
		dv := DocumentValidation{File: file, IDS: f.IDS, Valid: true}
		if err := coordinate.Validate(doc, coordinate.WithLogger(logger)); err != nil {
			dv.Valid = false
			dv.Error = err.Error()
			dv.Code = validationCode(err)
			result.Valid = false
		}
		result.Documents = append(result.Documents, dv)
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// validationCode classifies a coordinate validation failure.
func validationCode(err error) string {
	var ve *coordinate.ValidationError
	if errors.As(err, &ve) {
		return ErrCodeInvalidCoordinates
	}
	return ErrCodeGeneric
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, d := range result.Documents {
		fmt.Fprintln(formatter.Writer, Pass(fmt.Sprintf("%s: %s valid", d.File, d.IDS)))
	}
	return nil
}

// outputValidateError outputs a single command error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs the per-document results of a failed run.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	invalid := 0
	var first *DocumentValidation
	for i := range result.Documents {
		if !result.Documents[i].Valid {
			invalid++
			if first == nil {
				first = &result.Documents[i]
			}
		}
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    first.Code,
				Message: first.Error,
			},
		}
		if err := formatter.encodeJSON(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d document(s)", invalid))
	}

	// Text format
	for _, d := range result.Documents {
		if d.Valid {
			fmt.Fprintln(formatter.Writer, Pass(fmt.Sprintf("%s: %s valid", d.File, d.IDS)))
			continue
		}
		fmt.Fprintln(formatter.Writer, Fail(fmt.Sprintf("%s: %s invalid", d.File, d.IDS)))
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", d.Code, d.Error)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d document(s)", invalid))
}
