package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/store"
)

// PutOptions holds flags for the put command.
type PutOptions struct {
	*RootOptions
	Occurrence int
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "put <document>...",
		Short: "Validate, encode and store IDS documents",
		Long: `Store IDS document files in the database.

Each document is validated (unless --disable-validate or
IDSGO_DISABLE_VALIDATE is set), encoded into a tensor set and stored under
its IDS name and occurrence. Stored occurrences are never overwritten.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			occurrence := -1
			if cmd.Flags().Changed("occurrence") {
				occurrence = opts.Occurrence
			}
			return runPut(opts, args, occurrence, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Occurrence, "occurrence", 0, "occurrence to store (overrides the document file)")

	return cmd
}

// runPut stores files. A negative occurrence keeps each file's own.
func runPut(opts *PutOptions, files []string, occurrence int, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer sess.Close()

	stored := make([]store.EntryInfo, 0, len(files))
	for _, file := range files {
		f, err := LoadDocumentFile(file)
		if err != nil {
			return outputStoreError(formatter, err)
		}
		if occurrence >= 0 {
			f.Occurrence = occurrence
		}
		doc, err := BuildDocument(sess.entry.Dictionary(), f)
		if err != nil {
			return outputStoreError(formatter, err)
		}

		info, err := sess.entry.Put(cmd.Context(), doc, f.Occurrence)
		if err != nil {
			return outputStoreError(formatter, fmt.Errorf("%s: %w", file, err))
		}
		formatter.VerboseLog("Stored %s as %s/%d (%s)", file, info.IDSName, info.Occurrence, info.ContentHash)
		stored = append(stored, info)
	}

	if formatter.Format == "json" {
		return formatter.Success(stored)
	}
	for _, info := range stored {
		fmt.Fprintln(formatter.Writer, Pass(fmt.Sprintf("Stored %s occurrence %d", info.IDSName, info.Occurrence)))
	}
	return nil
}
