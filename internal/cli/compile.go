package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/compiler"
	"github.com/roach88/idsgo/internal/ir"
	"github.com/roach88/idsgo/internal/metadata"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// IDSSummary describes one compiled IDS.
type IDSSummary struct {
	Name      string   `json:"name"`
	Lifecycle string   `json:"lifecycle"`
	Nodes     int      `json:"nodes"`
	Paths     []string `json:"paths,omitempty"`
}

// CompilationResult holds the compiled dictionary summary.
type CompilationResult struct {
	Version  ir.DDVersion            `json:"version"`
	IDS      []IDSSummary            `json:"ids"`
	Warnings []compiler.CycleWarning `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [dictionary]",
		Short: "Compile a CUE Data Dictionary",
		Long: `Compile a CUE Data Dictionary into IDS metadata trees.

The compiler checks the CUE source against the dictionary schema, builds
one tree per IDS, checks every coordinate reference and reports coordinate
cycles. The dictionary defaults to --dictionary.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.Dictionary
			if len(args) == 1 {
				path = args[0]
			}
			return runCompile(opts, path, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	dict, err := LoadDictionary(path)
	if err != nil {
		return outputCompileErrors(formatter, []error{err})
	}
	formatter.VerboseLog("Compiled data dictionary %s from %s", dict.Version, path)

	// Consistency checks on the compiled trees
	if verrs := compiler.Validate(dict); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = v
		}
		return outputCompileErrors(formatter, errs)
	}

	result := summarize(dict, opts.Output != "")

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// summarize describes dict. Paths are listed only when withPaths is set.
func summarize(dict *metadata.Dictionary, withPaths bool) *CompilationResult {
	result := &CompilationResult{Version: dict.Version, IDS: []IDSSummary{}}
	for _, name := range dict.Names() {
		tree, err := dict.IDS(name)
		if err != nil {
			continue
		}
		summary := IDSSummary{
			Name:      name,
			Lifecycle: tree.Root().Lifecycle.String(),
			Nodes:     tree.Len(),
		}
		if withPaths {
			summary.Paths = tree.Paths()
		}
		result.IDS = append(result.IDS, summary)
		result.Warnings = append(result.Warnings, compiler.AnalyzeCycles(tree)...)
	}
	return result
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintln(w, Pass(fmt.Sprintf("Compiled data dictionary %s: %d IDS", result.Version, len(result.IDS))))
	fmt.Fprintln(w)

	if len(result.IDS) > 0 {
		fmt.Fprintln(w, "IDS:")
		for _, s := range result.IDS {
			fmt.Fprintf(w, "  %s: %d node(s), %s\n", s.Name, s.Nodes, s.Lifecycle)
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", Warn(fmt.Sprintf("%s: %s", warning.Level, warning.Message)))
		}
		fmt.Fprintln(w)
	}

	if outputFile != "" {
		fmt.Fprintf(w, "Wrote dictionary summary to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		if err := formatter.encodeJSON(response); err != nil {
			return err
		}

		// Compilation errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	w := formatter.Writer
	fmt.Fprintln(w, Fail("Compilation failed"))
	fmt.Fprintln(w)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(w, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		var validationErr compiler.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprintf(w, "%s\n", validationErr.Field)
		}
		fmt.Fprintf(w, "  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var validationErr compiler.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Code, validationErr.Message
	}
	return loadErrorParts(err)
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling dictionary summary: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
