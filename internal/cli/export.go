package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/arrowio"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Occurrence int
	Output     string
}

// ExportResult describes a written Arrow file.
type ExportResult struct {
	IDS        string `json:"ids"`
	Occurrence int    `json:"occurrence"`
	File       string `json:"file"`
	Variables  int    `json:"variables"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <ids>",
		Short: "Export a stored occurrence as an Arrow IPC stream",
		Long: `Write the tensor set of a stored occurrence as an Arrow IPC stream:
one column per variable, dimensions and attributes in the schema metadata.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Occurrence, "occurrence", 0, "occurrence to export")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(opts *ExportOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer sess.Close()

	set, err := sess.entry.TensorSet(cmd.Context(), name, opts.Occurrence)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return outputStoreError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
	}
	if err := arrowio.Write(f, set); err != nil {
		f.Close()
		return outputStoreError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
	}
	if err := f.Close(); err != nil {
		return outputStoreError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
	}

	result := ExportResult{IDS: name, Occurrence: opts.Occurrence, File: opts.Output, Variables: len(set.Variables())}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintln(formatter.Writer, Pass(fmt.Sprintf("Exported %s occurrence %d (%d variables) to %s",
		result.IDS, result.Occurrence, result.Variables, result.File)))
	return nil
}
