package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/sequence"
)

// ValidationIssue is one problem found in a capture file.
type ValidationIssue struct {
	File     string `json:"file"`
	Location string `json:"location,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <capture>...",
		Short: "Validate capture files without rendering",
		Long: `Validate capture files against the capture schema and check every
recorded message log: participants must be unique and every message must
name declared participants.

Faster than render for checking what a test suite produced.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, loadErrs := LoadCaptures(args, LoadModeCollectAll)
	if loaded == nil {
		return outputLoadFailure(formatter, loadErrs[0])
	}
	formatter.VerboseLog("Found %d capture file(s)", loaded.FileCount)

	issues := collectIssues(loaded, loadErrs)
	if len(issues) > 0 {
		return outputValidationErrors(formatter, loaded.FileCount, issues)
	}
	return outputValidateSuccess(formatter, loaded.FileCount)
}

// loadIssues converts a load error into one issue per schema violation.
func loadIssues(err error) []ValidationIssue {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		return []ValidationIssue{{Code: ErrCodeGeneric, Message: err.Error()}}
	}
	if len(loadErr.Issues) == 0 {
		return []ValidationIssue{{File: loadErr.File, Code: loadErr.Code, Message: loadErr.Message}}
	}
	issues := make([]ValidationIssue, len(loadErr.Issues))
	for i, is := range loadErr.Issues {
		issues[i] = ValidationIssue{File: loadErr.File, Location: is.Path, Code: loadErr.Code, Message: is.Message}
	}
	return issues
}

// validateDiagrams checks the message log of every scenario that has one.
func validateDiagrams(c LoadedCapture) []ValidationIssue {
	var issues []ValidationIssue
	for _, m := range c.Result.Methods {
		for _, sc := range m.Scenarios {
			if !sc.HasDiagram() && len(sc.Participants) == 0 {
				continue
			}
			if err := sequence.Validate(sc.Participants, sc.Messages); err != nil {
				issues = append(issues, ValidationIssue{
					File:     c.File,
					Location: fmt.Sprintf("%s/%s", m.Name, sc.Name),
					Code:     ErrCodeInvalidDiagram,
					Message:  err.Error(),
				})
			}
		}
	}
	return issues
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, files int) error {
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Files: files})
	}

	fmt.Fprintf(formatter.Writer, "✓ All captures valid (%d file(s))\n", files)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, files int, issues []ValidationIssue) error {
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Files: files, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, is := range issues {
		where := is.File
		if is.Location != "" {
			where += " " + is.Location
		}
		fmt.Fprintln(formatter.Writer, where)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", is.Code, is.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
}

// ValidateCaptures validates capture files and returns every issue found.
// This is a helper function for external callers.
func ValidateCaptures(paths []string) ([]ValidationIssue, error) {
	loaded, loadErrs := LoadCaptures(paths, LoadModeCollectAll)
	if loaded == nil {
		return nil, loadErrs[0]
	}
	return collectIssues(loaded, loadErrs), nil
}

func collectIssues(loaded *LoadResult, loadErrs []error) []ValidationIssue {
	var issues []ValidationIssue
	for _, err := range loadErrs {
		issues = append(issues, loadIssues(err)...)
	}
	for _, c := range loaded.Captures {
		issues = append(issues, validateDiagrams(c)...)
	}
	return issues
}

