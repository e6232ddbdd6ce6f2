package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetOnCleanup removes variables a .env file may have added to the process.
func unsetOnCleanup(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "build/specdoc", cfg.OutputDir)
	assert.Equal(t, "", cfg.Database)
	assert.Equal(t, CompilerNative, cfg.Compiler)
	assert.Equal(t, 0, cfg.PlantUMLRetries)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SPECDOC_OUTPUT_DIR", "out")
	t.Setenv("SPECDOC_DATABASE", "reports.db")
	t.Setenv("SPECDOC_COMPILER", "plantuml")
	t.Setenv("SPECDOC_PLANTUML_URL", "http://localhost:8080")
	t.Setenv("SPECDOC_PLANTUML_RETRIES", "3")
	t.Setenv("SPECDOC_INDENT", "4")
	t.Setenv("SPECDOC_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Config{
		OutputDir:       "out",
		Database:        "reports.db",
		Compiler:        CompilerPlantUML,
		PlantUMLURL:     "http://localhost:8080",
		PlantUMLRetries: 3,
		Indent:          4,
		LogLevel:        "debug",
	}, cfg)
}

func TestLoad_EnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "specdoc.env")
	require.NoError(t, os.WriteFile(file, []byte("SPECDOC_INDENT=6\nSPECDOC_LOG_LEVEL=warn\n"), 0o644))
	unsetOnCleanup(t, "SPECDOC_INDENT", "SPECDOC_LOG_LEVEL")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Indent)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("SPECDOC_INDENT", "1")
	file := filepath.Join(t.TempDir(), "specdoc.env")
	require.NoError(t, os.WriteFile(file, []byte("SPECDOC_INDENT=6\n"), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Indent)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("SPECDOC_INDENT", "wide")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{OutputDir: "out", Compiler: CompilerNative, Indent: 2, LogLevel: "info"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no output dir", func(c *Config) { c.OutputDir = "" }, "SPECDOC_OUTPUT_DIR"},
		{"unknown compiler", func(c *Config) { c.Compiler = "graphviz" }, "SPECDOC_COMPILER"},
		{"bad url", func(c *Config) { c.PlantUMLURL = "not a url" }, "SPECDOC_PLANTUML_URL"},
		{"negative retries", func(c *Config) { c.PlantUMLRetries = -1 }, "SPECDOC_PLANTUML_RETRIES"},
		{"indent too wide", func(c *Config) { c.Indent = 9 }, "SPECDOC_INDENT"},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, "SPECDOC_LOG_LEVEL"},
		{"plantuml without url", func(c *Config) { c.Compiler = CompilerPlantUML }, "SPECDOC_PLANTUML_URL is required"},
		{"plantuml with url", func(c *Config) {
			c.Compiler = CompilerPlantUML
			c.PlantUMLURL = "https://plantuml.example.com"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warn"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{}.SlogLevel())
}
