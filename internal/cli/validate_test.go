package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidCapture(t *testing.T) {
	stdout, _, err := execute(t, "validate", ordersCapture)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ All captures valid (1 file(s))")
}

func TestValidate_Directory(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "validate", filepath.Dir(ordersCapture))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_UndeclaredParticipant(t *testing.T) {
	capture := writeCapture(t, "broken.yaml", undeclaredCapture)

	stdout, _, err := execute(t, "validate", capture)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, "talksToStrangers/talksToStrangers")
	assert.Contains(t, stdout, ErrCodeInvalidDiagram)
}

func TestValidate_SchemaViolationJSON(t *testing.T) {
	capture := writeCapture(t, "bad.yaml", "class:\n  package: a\n  name: X\nmethods: 3\n")

	stdout, _, err := execute(t, "--format", "json", "validate", capture)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.NotEmpty(t, resp.Data.Errors)
	assert.Equal(t, ErrCodeSchemaInvalid, resp.Data.Errors[0].Code)
	assert.Equal(t, capture, resp.Data.Errors[0].File)
}

func TestValidate_NonExistentPath(t *testing.T) {
	stdout, _, err := execute(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, stdout, "not found")
}

func TestValidate_EmptyDirectory(t *testing.T) {
	_, _, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidateCaptures(t *testing.T) {
	issues, err := ValidateCaptures([]string{ordersCapture})
	require.NoError(t, err)
	assert.Empty(t, issues)
}
