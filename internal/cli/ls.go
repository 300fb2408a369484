package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/idsgo/internal/queryir"
	"github.com/roach88/idsgo/internal/store"
)

// ListOptions holds the ls filters.
type ListOptions struct {
	Where    []string
	Variable string
}

// NewListCommand creates the ls command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "ls [ids]",
		Short: "List stored IDS occurrences",
		Long: `List the occurrences stored in the database, all of them or those
of one IDS.

Filters narrow the listing further:
  --where field=value   match an entry field (ids_name, occurrence,
                        dd_version, content_hash); repeatable
  --variable name       keep entries that store the named variable`,
		Example: `  idsgo ls
  idsgo ls core_profiles --where dd_version=3.39.0
  idsgo ls --variable profiles_1d.electrons.temperature`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runList(rootOpts, opts, name, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "Filter on an entry field (field=value)")
	cmd.Flags().StringVar(&opts.Variable, "variable", "", "Only entries storing this variable")

	return cmd
}

// buildListQuery turns the ls arguments into a catalog query.
func buildListQuery(name string, opts *ListOptions) (queryir.Query, error) {
	var preds []queryir.Predicate
	if name != "" {
		preds = append(preds, queryir.Equals{Field: "ids_name", Value: name})
	}
	for _, expr := range opts.Where {
		eq, err := queryir.ParseEquals(queryir.TableEntries, expr)
		if err != nil {
			return nil, err
		}
		preds = append(preds, eq)
	}

	q := queryir.Entries(preds...)
	if opts.Variable == "" {
		return q, nil
	}
	return queryir.Join{
		Left:  q,
		Right: queryir.Variables(queryir.Equals{Field: "name", Value: opts.Variable}),
	}, nil
}

func runList(rootOpts *RootOptions, opts *ListOptions, name string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	q, err := buildListQuery(name, opts)
	if err != nil {
		_ = formatter.Error(ErrCodeQuery, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeQuery, err)
	}

	// Listing needs no dictionary
	s, err := store.Open(rootOpts.DB, store.WithLogger(rootOpts.Logger(cmd.ErrOrStderr())))
	if err != nil {
		return outputStoreError(formatter, &LoadError{Code: ErrCodeStore, Message: fmt.Sprintf("opening %s: %v", rootOpts.DB, err)})
	}
	defer s.Close()

	entries, err := s.QueryEntries(cmd.Context(), q)
	if err != nil {
		return outputStoreError(formatter, &LoadError{Code: ErrCodeStore, Message: err.Error()})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No entries.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IDS\tOCCURRENCE\tDD VERSION\tHASH")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.IDSName, e.Occurrence, e.DDVersion, shortHash(e.ContentHash))
	}
	return tw.Flush()
}

// shortHash abbreviates a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
