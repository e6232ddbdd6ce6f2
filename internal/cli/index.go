package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/assets"
	"github.com/roach88/specdoc/internal/output"
	"github.com/roach88/specdoc/internal/report"
	"github.com/roach88/specdoc/internal/store"
)

// IndexFile is the index document's name below the output directory.
const IndexFile = "index.html"

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Output   string
	Database string
	Restore  bool // also rewrite every archived report
}

// IndexSummary is the index command's result.
type IndexSummary struct {
	Index    string   `json:"index"`
	Entries  int      `json:"entries"`
	Restored []string `json:"restored,omitempty"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IndexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Write an index page for every archived report",
		Long: `Write index.html linking every report in the archive.

With --restore the archived reports themselves are written back to the
output directory, so a report site can be rebuilt without the captures.

Example:
  specdoc index --db reports.db --out build/specdoc`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output directory (default $SPECDOC_OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive database (default $SPECDOC_DATABASE)")
	cmd.Flags().BoolVar(&opts.Restore, "restore", false, "also write archived reports")

	return cmd
}

func runIndex(opts *IndexOptions, cmd *cobra.Command) error {
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

	entries, err := archivedEntries(cmd, archive)
	if err != nil {
		return outputCommandError(formatter, ErrCodeArchive, err.Error())
	}

	w, err := output.New(env.outputDir(opts.Output), output.WithLogger(env.logger))
	if err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
	}

	summary := IndexSummary{Entries: len(entries)}
	if opts.Restore {
		for _, e := range entries {
			rep, err := archive.ReadReport(cmd.Context(), e.Path)
			if err != nil {
				return outputCommandError(formatter, errorCode(err), err.Error())
			}
			file, err := w.Write(rep.Path, rep.Document)
			if err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
			}
			summary.Restored = append(summary.Restored, file)
		}
	}

	renderer := report.New(assets.Embedded(), report.WithLogger(env.logger))
	html, err := renderer.RenderIndex(entries)
	if err != nil {
		return outputFailure(formatter, errorCode(err), err.Error())
	}
	if summary.Index, err = w.Write(IndexFile, html); err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
	}

	if formatter.IsJSON() {
		return formatter.Success(summary)
	}
	for _, f := range summary.Restored {
		fmt.Fprintf(formatter.Writer, "Restored %s\n", f)
	}
	fmt.Fprintf(formatter.Writer, "✓ Indexed %d report(s) → %s\n", summary.Entries, summary.Index)
	return nil
}

// archivedEntries lists every archived report as an index entry.
func archivedEntries(cmd *cobra.Command, archive *store.Store) ([]report.IndexEntry, error) {
	summaries, err := archive.ListReports(cmd.Context())
	if err != nil {
		return nil, err
	}
	entries := make([]report.IndexEntry, len(summaries))
	for i, s := range summaries {
		entries[i] = report.IndexEntry{
			Class:  s.Class,
			Title:  s.Class.Title(),
			Status: s.Status,
			Path:   s.Path,
		}
	}
	return entries, nil
}
