// Package config loads specdoc settings from the environment.
//
// Values come from SPECDOC_* environment variables, optionally seeded from a
// .env file. Variables already set in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix for every setting.
const Prefix = "SPECDOC"

// DefaultEnvFile is read when present; a missing default file is not an error.
const DefaultEnvFile = ".env"

// Compiler names.
const (
	CompilerNative   = "native"
	CompilerPlantUML = "plantuml"
)

// Config holds every setting the CLI needs.
type Config struct {
	OutputDir string `envconfig:"OUTPUT_DIR" default:"build/specdoc" validate:"required"`

	// Database is the report archive path. Empty disables archiving.
	Database string `envconfig:"DATABASE"`

	Compiler        string `envconfig:"COMPILER" default:"native" validate:"oneof=native plantuml"`
	PlantUMLURL     string `envconfig:"PLANTUML_URL" validate:"omitempty,url"`
	PlantUMLRetries int    `envconfig:"PLANTUML_RETRIES" default:"0" validate:"gte=0,lte=10"`

	Indent   int    `envconfig:"INDENT" default:"2" validate:"gte=0,lte=8"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads envFile (if it exists) into the environment, then processes
// SPECDOC_* variables into a validated Config. An empty envFile means
// DefaultEnvFile.
func Load(envFile string) (Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s_%s: failed %q check", Prefix, envName(fe.StructField()), fe.Tag())
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Compiler == CompilerPlantUML && c.PlantUMLURL == "" {
		return fmt.Errorf("invalid configuration: %s_PLANTUML_URL is required when %s_COMPILER=plantuml", Prefix, Prefix)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// envName returns the variable suffix for a Config field.
func envName(field string) string {
	switch field {
	case "OutputDir":
		return "OUTPUT_DIR"
	case "PlantUMLURL":
		return "PLANTUML_URL"
	case "PlantUMLRetries":
		return "PLANTUML_RETRIES"
	case "LogLevel":
		return "LOG_LEVEL"
	default:
		return strings.ToUpper(field)
	}
}
