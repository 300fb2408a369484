package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/ids"
	"github.com/roach88/idsgo/internal/ir"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	Occurrence int
}

// Document is the JSON form of a loaded document.
type Document struct {
	IDS        string         `json:"ids"`
	Occurrence int            `json:"occurrence"`
	Version    ir.DDVersion   `json:"dd_version"`
	Data       map[string]any `json:"data"`
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <ids>",
		Short: "Load and print a stored IDS occurrence",
		Long: `Load a stored occurrence, decode it into a document and print every
filled quantity.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Occurrence, "occurrence", 0, "occurrence to load")

	return cmd
}

func runGet(opts *GetOptions, name string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer sess.Close()

	doc, err := sess.entry.Get(cmd.Context(), name, opts.Occurrence)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(Document{
			IDS:        doc.Name(),
			Occurrence: opts.Occurrence,
			Version:    doc.Version(),
			Data:       ids.ToMap(doc.Root()),
		})
	}
	return ids.Print(formatter.Writer, doc)
}
