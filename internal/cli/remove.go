package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/store"
)

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Database string
}

// RemoveResult is the remove command's result.
type RemoveResult struct {
	Removed []string `json:"removed"`
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove <report-path>...",
		Short: "Remove reports from the archive",
		Long: `Remove archived reports and their diagrams by report path, as shown by
list. Files already written to the output directory are left alone; run
index afterwards to drop the reports from the index page.

Example:
  specdoc remove --db reports.db example/orders/PlacingOrdersTest.html`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "archive database (default $SPECDOC_DATABASE)")

	return cmd
}

func runRemove(opts *RemoveOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := setup(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err.Error())
	}
	db := env.database(opts.Database)
	if db == "" {
		return outputCommandError(formatter, ErrCodeArchive, "no archive: pass --db or set SPECDOC_DATABASE")
	}

	archive, err := env.openStore(db)
	if err != nil {
		return outputCommandError(formatter, ErrCodeArchive, err.Error())
	}
	defer archive.Close()

	// Every path must exist before anything is removed.
	for _, p := range paths {
		if _, err := archive.ReadReport(cmd.Context(), p); errors.Is(err, store.ErrNotFound) {
			return outputCommandError(formatter, ErrCodeReportNotFound, fmt.Sprintf("no archived report %q", p))
		} else if err != nil {
			return outputCommandError(formatter, ErrCodeArchive, err.Error())
		}
	}

	result := RemoveResult{Removed: make([]string, 0, len(paths))}
	for _, p := range paths {
		if err := archive.DeleteReport(cmd.Context(), p); err != nil {
			return outputCommandError(formatter, ErrCodeArchive, err.Error())
		}
		env.logger.Debug("report removed", "path", p)
		result.Removed = append(result.Removed, p)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Removed %d report(s)\n", len(result.Removed))
	return nil
}
