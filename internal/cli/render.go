package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/assets"
	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/output"
	"github.com/roach88/specdoc/internal/report"
	"github.com/roach88/specdoc/internal/store"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output    string   // output directory
	Database  string   // archive path
	Diagrams  bool     // embed sequence diagrams
	SVG       bool     // also write diagrams as standalone files
	Index     bool     // write index.html
	AssetsDir string   // overrides for built-in assets
	Scripts   []string // custom script files
	Headers   []string // custom header content files
	Label     string   // archive run label
}

// RenderedReport describes one written report.
type RenderedReport struct {
	Class    string         `json:"class"`
	Status   capture.Status `json:"status"`
	File     string         `json:"file"`
	Diagrams int            `json:"diagrams"`
	Changed  *bool          `json:"changed,omitempty"`
}

// RenderSummary is the render command's result.
type RenderSummary struct {
	OutputDir string           `json:"output_dir"`
	Reports   []RenderedReport `json:"reports"`
	Index     string           `json:"index,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <capture>...",
		Short: "Render capture files into HTML reports",
		Long: `Render one HTML report per capture file.

Arguments are capture files or directories searched for *.yaml files.
Reports are written below the output directory at <package>/<Class>.html.
With --db every report is also archived, and unchanged reports are noted.

Example:
  specdoc render ./captures --out build/specdoc
  specdoc render orders.yaml --db reports.db --script extra.js`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output directory (default $SPECDOC_OUTPUT_DIR)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive database (default $SPECDOC_DATABASE)")
	cmd.Flags().BoolVar(&opts.Diagrams, "diagrams", true, "embed sequence diagrams")
	cmd.Flags().BoolVar(&opts.SVG, "svg", false, "also write each diagram as an .svg file")
	cmd.Flags().BoolVar(&opts.Index, "index", true, "write index.html linking every report")
	cmd.Flags().StringVar(&opts.AssetsDir, "assets", "", "directory overriding built-in templates and styles")
	cmd.Flags().StringArrayVar(&opts.Scripts, "script", nil, "custom script file (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Headers, "header", nil, "custom header content file (repeatable)")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label recorded with the archive run")

	return cmd
}

func runRender(opts *RenderOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := setup(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err.Error())
	}

	loaded, loadErrs := LoadCaptures(args, LoadModeCollectAll)
	if loaded == nil {
		return outputLoadFailure(formatter, loadErrs[0])
	}
	formatter.VerboseLog("Found %d capture file(s)", loaded.FileCount)
	if len(loadErrs) > 0 {
		return outputLoadErrors(formatter, loadErrs)
	}

	renderer, err := newReportRenderer(opts, env)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}

	w, err := output.New(env.outputDir(opts.Output), output.WithLogger(env.logger))
	if err != nil {
		return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
	}

	var archive *store.Store
	var run store.Run
	if db := env.database(opts.Database); db != "" {
		archive, err = env.openStore(db)
		if err != nil {
			return outputCommandError(formatter, ErrCodeArchive, err.Error())
		}
		defer archive.Close()
		run, err = archive.BeginRun(cmd.Context(), opts.Label)
		if err != nil {
			return outputCommandError(formatter, ErrCodeArchive, err.Error())
		}
		env.logger.Info("run started", "run", run.ID, "seq", run.Seq)
	}

	summary := RenderSummary{OutputDir: w.Root()}
	var entries []report.IndexEntry
	for _, c := range loaded.Captures {
		formatter.VerboseLog("Rendering %s", c.File)
		doc, err := renderer.RenderDocument(cmd.Context(), c.Result)
		if err != nil {
			return outputFailure(formatter, errorCode(err), fmt.Sprintf("%s: %v", c.File, err))
		}

		file, err := w.WriteDocument(doc)
		if err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
		}
		if opts.SVG {
			if _, err := w.WriteDiagrams(doc); err != nil {
				return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
			}
		}

		rendered := RenderedReport{
			Class:    doc.Class.String(),
			Status:   doc.Status,
			File:     file,
			Diagrams: len(doc.Diagrams),
		}
		if archive != nil {
			changed, err := archive.SaveReport(cmd.Context(), run, store.NewReport(doc))
			if err != nil {
				return outputCommandError(formatter, ErrCodeArchive, err.Error())
			}
			rendered.Changed = &changed
		}
		summary.Reports = append(summary.Reports, rendered)
		entries = append(entries, report.NewIndexEntry(c.Result))
	}

	if opts.Index {
		// With an archive the index lists every archived report, not just this run's.
		if archive != nil {
			if entries, err = archivedEntries(cmd, archive); err != nil {
				return outputCommandError(formatter, ErrCodeArchive, err.Error())
			}
		}
		html, err := renderer.RenderIndex(entries)
		if err != nil {
			return outputFailure(formatter, errorCode(err), err.Error())
		}
		if summary.Index, err = w.Write(IndexFile, html); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, err.Error())
		}
	}

	return outputRenderSuccess(formatter, summary, run.ID)
}

// newReportRenderer builds the report renderer the flags describe.
func newReportRenderer(opts *RenderOptions, env *environment) (*report.Renderer, error) {
	src := assets.Embedded()
	if opts.AssetsDir != "" {
		if err := output.ValidateDir(opts.AssetsDir); err != nil {
			return nil, fmt.Errorf("assets directory: %w", err)
		}
		src = assets.Overlay(assets.Dir(opts.AssetsDir), assets.Embedded())
	}

	scripts, err := loadContents(opts.Scripts)
	if err != nil {
		return nil, err
	}
	headers, err := loadContents(opts.Headers)
	if err != nil {
		return nil, err
	}

	ropts := []report.Option{
		report.WithLogger(env.logger),
		report.WithCustomScripts(scripts...),
		report.WithCustomHeaderContent(headers...),
	}
	if opts.Diagrams {
		ropts = append(ropts, report.WithSequenceDiagrams(env.generator()))
	}
	return report.New(src, ropts...), nil
}

func loadContents(files []string) ([]capture.Content, error) {
	contents := make([]capture.Content, 0, len(files))
	for _, f := range files {
		c, err := assets.LoadFile(f)
		if err != nil {
			return nil, err
		}
		contents = append(contents, c)
	}
	return contents, nil
}

func outputRenderSuccess(formatter *OutputFormatter, summary RenderSummary, runID string) error {
	if formatter.IsJSON() {
		return formatter.SuccessWithRun(summary, runID)
	}

	for _, r := range summary.Reports {
		line := fmt.Sprintf("%s  %s → %s", statusBadge(r.Status), r.Class, r.File)
		if r.Changed != nil && !*r.Changed {
			line += " " + muted("(unchanged)")
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	if summary.Index != "" {
		fmt.Fprintf(formatter.Writer, "Index: %s\n", summary.Index)
	}
	fmt.Fprintf(formatter.Writer, "✓ Rendered %d report(s)\n", len(summary.Reports))
	return nil
}

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputFailure reports a render or validation failure (exit code 1).
func outputFailure(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message))
}

// outputLoadFailure reports an error that stopped loading entirely.
func outputLoadFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return outputCommandError(formatter, loadErr.Code, loadErr.Message)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}

// outputLoadErrors reports captures that failed to load (exit code 1).
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.IsJSON() {
		details := make([]string, len(errs))
		for i, err := range errs {
			details[i] = err.Error()
		}
		code := ErrCodeLoadFailed
		var loadErr *LoadError
		if errors.As(errs[0], &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, fmt.Sprintf("%d capture file(s) failed to load", len(errs)), details)
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Capture loading failed")
		for _, err := range errs {
			fmt.Fprintf(formatter.Writer, "  %v\n", err)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d capture file(s) failed to load", len(errs)))
}
