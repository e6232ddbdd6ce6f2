package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/sequence"
	"github.com/roach88/specdoc/internal/store"
)

// DiagramOptions holds flags for the diagram command.
type DiagramOptions struct {
	*RootOptions
	Method   string
	Scenario string
	Markup   bool   // print markup instead of compiling
	Output   string // output file, stdout when empty
	ID       string // archived diagram id
	Database string
}

// DiagramResult is the diagram command's JSON result.
type DiagramResult struct {
	Method   string `json:"method,omitempty"`
	Scenario string `json:"scenario,omitempty"`
	Report   string `json:"report,omitempty"`
	ID       string `json:"id,omitempty"`
	Markup   string `json:"markup"`
	SVG      string `json:"svg,omitempty"`
	File     string `json:"file,omitempty"`
}

// NewDiagramCommand creates the diagram command.
func NewDiagramCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiagramOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diagram [capture.yaml]",
		Short: "Generate the sequence diagram of one scenario",
		Long: `Generate the sequence diagram for a scenario's recorded messages.

Without --method and --scenario the first scenario that recorded messages
is used. The canonical SVG is written to stdout, or to --output.

With --id the diagram is read back from the archive instead of a capture file.

Example:
  specdoc diagram orders.yaml --method placesAnOrder
  specdoc diagram orders.yaml --markup
  specdoc diagram --id 5f0c... --db reports.db`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.ID != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.ID != "" {
				return runArchivedDiagram(opts, cmd)
			}
			return runDiagram(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Method, "method", "", "test method name")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "scenario name within the method")
	cmd.Flags().BoolVar(&opts.Markup, "markup", false, "print diagram markup instead of SVG")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.ID, "id", "", "archived diagram id")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive database (default $SPECDOC_DATABASE)")

	return cmd
}

func runDiagram(opts *DiagramOptions, file string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	env, err := setup(opts.RootOptions, cmd)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err.Error())
	}

	loaded, loadErrs := LoadCaptures([]string{file}, LoadModeFailFast)
	if loaded == nil {
		return outputLoadFailure(formatter, loadErrs[0])
	}
	if len(loadErrs) > 0 {
		return outputLoadErrors(formatter, loadErrs)
	}
	result := loaded.Captures[0].Result

	method, scenario, err := selectScenario(result, opts.Method, opts.Scenario)
	if err != nil {
		return outputCommandError(formatter, ErrCodeNotFound, err.Error())
	}
	formatter.VerboseLog("Diagram for %s / %s", method.Name, scenario.Name)

	res := DiagramResult{Method: method.Name, Scenario: scenario.Name}
	res.Markup, err = sequence.GenerateMarkup(scenario.Participants, scenario.Messages)
	if err != nil {
		return outputFailure(formatter, errorCode(err), err.Error())
	}

	body := res.Markup
	if !opts.Markup {
		svg, err := env.generator().Compile(cmd.Context(), res.Markup)
		if err != nil {
			return outputFailure(formatter, errorCode(err), err.Error())
		}
		res.ID, res.SVG, body = svg.ID, svg.XML, svg.XML
	}

	return emitDiagram(formatter, opts.Output, res, body)
}

func runArchivedDiagram(opts *DiagramOptions, cmd *cobra.Command) error {
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

	reportPath, d, err := archive.FindDiagram(cmd.Context(), opts.ID)
	if errors.Is(err, store.ErrNotFound) {
		return outputCommandError(formatter, ErrCodeReportNotFound, fmt.Sprintf("no archived diagram %q", opts.ID))
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeArchive, err.Error())
	}

	res := DiagramResult{Report: reportPath, ID: d.ID, Markup: d.Markup, SVG: d.SVG}
	body := d.SVG
	if opts.Markup {
		body = d.Markup
	}
	return emitDiagram(formatter, opts.Output, res, body)
}

// emitDiagram writes body to file when one is given, then reports the result.
func emitDiagram(formatter *OutputFormatter, file string, res DiagramResult, body string) error {
	if file != "" {
		if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		res.File = file
	}

	if formatter.IsJSON() {
		return formatter.Success(res)
	}
	if file != "" {
		fmt.Fprintf(formatter.Writer, "✓ Diagram written to %s\n", file)
		return nil
	}
	fmt.Fprint(formatter.Writer, body)
	return nil
}

// selectScenario finds the named method and scenario. Empty names select
// the first candidate that recorded messages.
func selectScenario(result *capture.Result, methodName, scenarioName string) (capture.TestMethod, capture.Scenario, error) {
	for _, m := range result.Methods {
		if methodName != "" && m.Name != methodName {
			continue
		}
		for _, sc := range m.Scenarios {
			if scenarioName != "" && sc.Name != scenarioName {
				continue
			}
			if scenarioName == "" && !sc.HasDiagram() {
				continue
			}
			return m, sc, nil
		}
		if methodName != "" {
			if scenarioName != "" {
				return capture.TestMethod{}, capture.Scenario{}, fmt.Errorf("method %s has no scenario %q", m.Name, scenarioName)
			}
			return capture.TestMethod{}, capture.Scenario{}, fmt.Errorf("method %s recorded no messages", m.Name)
		}
	}
	if methodName != "" {
		return capture.TestMethod{}, capture.Scenario{}, fmt.Errorf("no method %q in %s", methodName, result.Class)
	}
	return capture.TestMethod{}, capture.Scenario{}, fmt.Errorf("no scenario in %s recorded messages", result.Class)
}
