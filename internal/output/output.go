// Package output writes finished report documents under an output directory.
// Every destination is checked so that nothing is written outside the root.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/specdoc/internal/report"
)

// Writer writes documents below Root.
type Writer struct {
	root   string
	logger *slog.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger used to report written files.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates the output root if needed and returns a Writer for it.
func New(root string, opts ...Option) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := ValidateDir(abs); err != nil {
		return nil, err
	}

	w := &Writer{root: abs, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Root returns the absolute output directory.
func (w *Writer) Root() string {
	return w.root
}

// Write stores content at the slash separated path rel below the root,
// creating parent directories as needed. The file is written to a temporary
// name first and renamed into place, so readers never see a partial document.
// Returns the absolute path written.
func (w *Writer) Write(rel, content string) (string, error) {
	dest, err := w.resolve(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".specdoc-*")
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if _, err := io.WriteString(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write %s: %w", rel, err)
	}

	w.logger.Debug("file written", "path", dest, "bytes", len(content))
	return dest, nil
}

// WriteDocument writes a rendered report to its result path.
func (w *Writer) WriteDocument(doc *report.Document) (string, error) {
	return w.Write(doc.Path, doc.HTML)
}

// WriteDiagrams writes each diagram of doc as a standalone SVG file next to
// the report, named <report>.<n>.svg. Returns the absolute paths written.
func (w *Writer) WriteDiagrams(doc *report.Document) ([]string, error) {
	base := strings.TrimSuffix(doc.Path, ".html")
	paths := make([]string, 0, len(doc.Diagrams))
	for i, svg := range doc.Diagrams {
		p, err := w.Write(fmt.Sprintf("%s.%d.svg", base, i+1), svg.XML)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// resolve maps rel onto the root, rejecting anything that would escape it.
func (w *Writer) resolve(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("output path cannot be empty")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("output path must be relative: %s", rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected in output path: %s", rel)
	}
	return filepath.Join(w.root, clean), nil
}

// ValidateDir checks that dir exists, is a directory and is writable.
func ValidateDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", dir)
	}

	// Check writability with a throwaway file.
	tmp, err := os.CreateTemp(dir, ".specdoc_write_test")
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return nil
}
