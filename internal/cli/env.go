package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/specdoc/internal/config"
	"github.com/roach88/specdoc/internal/render"
	"github.com/roach88/specdoc/internal/sequence"
	"github.com/roach88/specdoc/internal/store"
)

// environment is the configuration and logger shared by a command run.
type environment struct {
	cfg    config.Config
	logger *slog.Logger
}

// setup loads configuration and builds the stderr logger. --verbose forces
// debug logging regardless of SPECDOC_LOG_LEVEL.
func setup(opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})
	return &environment{cfg: cfg, logger: slog.New(handler)}, nil
}

// compiler returns the diagram compiler named by the configuration.
func (e *environment) compiler() sequence.Compiler {
	if e.cfg.Compiler == config.CompilerPlantUML {
		return sequence.NewPlantUMLClient(e.cfg.PlantUMLURL,
			sequence.WithRetries(e.cfg.PlantUMLRetries),
			sequence.WithClientLogger(e.logger),
		)
	}
	return sequence.NewNativeCompiler()
}

func (e *environment) generator() *sequence.Generator {
	return sequence.NewGenerator(e.compiler(),
		sequence.WithIndent(e.cfg.Indent),
		sequence.WithLogger(e.logger),
	)
}

// database returns the archive path, preferring the flag value.
func (e *environment) database(flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.Database
}

// outputDir returns the output directory, preferring the flag value.
func (e *environment) outputDir(flag string) string {
	if flag != "" {
		return flag
	}
	return e.cfg.OutputDir
}

func (e *environment) openStore(path string) (*store.Store, error) {
	e.logger.Debug("opening archive", "path", path)
	return store.Open(path)
}

// errorCode maps a pipeline error onto a CLI error code.
func errorCode(err error) string {
	switch {
	case render.IsNoRenderer(err):
		return ErrCodeNoRenderer
	case render.IsRenderFailure(err):
		return ErrCodeRenderFailed
	case errors.Is(err, sequence.ErrInvalidDiagram):
		return ErrCodeInvalidDiagram
	case sequence.IsCompilationError(err):
		return ErrCodeCompileFailed
	case sequence.IsCanonicalizationError(err):
		return ErrCodeCanonicalize
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeReportNotFound
	default:
		return ErrCodeGeneric
	}
}
