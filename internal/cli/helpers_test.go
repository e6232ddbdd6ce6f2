package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ordersCapture is the shared capture fixture.
var ordersCapture = filepath.Join("..", "capture", "testdata", "orders.yaml")

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeCapture writes a capture document into a temp dir and returns its path.
func writeCapture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const undeclaredCapture = `class:
  package: example/broken
  name: BrokenTest
methods:
  - name: talksToStrangers
    scenarios:
      - name: talksToStrangers
        status: passed
        participants:
          - name: Alice
        messages:
          - from: Alice
            to: Mallory
            label: hello
`
