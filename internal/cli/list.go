package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// ListedReport is one archived report in list output.
type ListedReport struct {
	Path     string         `json:"path"`
	Class    string         `json:"class"`
	Status   capture.Status `json:"status"`
	Diagrams int            `json:"diagrams"`
	Seq      int64          `json:"seq"`
	Digest   string         `json:"digest"`
}

// ListResult is the list command's result.
type ListResult struct {
	Run     *store.Run     `json:"run,omitempty"`
	Reports []ListedReport `json:"reports"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived reports",
		Long: `List every report in the archive ordered by path, with its status,
diagram count and the run that last wrote it.

Example:
  specdoc list --db reports.db
  specdoc list --db reports.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "archive database (default $SPECDOC_DATABASE)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
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

	summaries, err := archive.ListReports(cmd.Context())
	if err != nil {
		return outputCommandError(formatter, ErrCodeArchive, err.Error())
	}

	result := ListResult{Reports: make([]ListedReport, len(summaries))}
	for i, s := range summaries {
		result.Reports[i] = ListedReport{
			Path:     s.Path,
			Class:    s.Class.String(),
			Status:   s.Status,
			Diagrams: s.Diagrams,
			Seq:      s.Seq,
			Digest:   s.Digest,
		}
	}
	latest, err := archive.LatestRun(cmd.Context())
	switch {
	case err == nil:
		result.Run = &latest
	case !errors.Is(err, store.ErrNotFound):
		return outputCommandError(formatter, ErrCodeArchive, err.Error())
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	if len(result.Reports) == 0 {
		fmt.Fprintln(formatter.Writer, "No archived reports")
		return nil
	}
	rows := make([][]string, len(result.Reports))
	for i, r := range result.Reports {
		rows[i] = []string{
			r.Path,
			statusBadge(r.Status),
			strconv.Itoa(r.Diagrams),
			strconv.FormatInt(r.Seq, 10),
			r.Digest[:12],
		}
	}
	formatter.Table([]string{"Path", "Status", "Diagrams", "Run", "Digest"}, rows)
	if result.Run != nil {
		fmt.Fprintln(formatter.Writer, muted(fmt.Sprintf("latest run %d (%s)", result.Run.Seq, result.Run.ID)))
	}
	return nil
}
