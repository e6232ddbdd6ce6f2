// Package assets loads the scripts, stylesheets, templates and header
// fragments reports are assembled from.
//
// Built-in assets are embedded in the binary. Dir serves a directory of
// overrides, and Overlay layers one source over another so a project can
// replace single assets without copying the rest.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/roach88/specdoc/internal/capture"
)

// Names of the built-in assets.
const (
	ReportScript   = "report.js"
	ReportStyle    = "report.css"
	ReportTemplate = "report.html.tmpl"
	IndexTemplate  = "index.html.tmpl"
	DialogHeader   = "dialog-header.html"
)

//go:embed files
var files embed.FS

// ErrNotFound is matched by errors.Is when a source has no asset by that name.
var ErrNotFound = errors.New("asset not found")

// Source loads named text assets.
type Source interface {
	// Load returns the asset called name. Names are slash separated and
	// relative; a missing asset is an ErrNotFound error.
	Load(name string) (capture.Content, error)
}

type embedded struct{}

// Embedded returns the assets compiled into the binary.
func Embedded() Source {
	return embedded{}
}

func (embedded) Load(name string) (capture.Content, error) {
	if !fs.ValidPath(name) {
		return capture.Content{}, fmt.Errorf("invalid asset name %q", name)
	}
	data, err := files.ReadFile(path.Join("files", name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return capture.Content{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return capture.Content{}, fmt.Errorf("failed to read embedded asset %s: %w", name, err)
	}
	return capture.Content{Source: "embedded:" + name, Text: string(data)}, nil
}

type dir struct {
	root string
}

// Dir returns a source reading assets from the directory root.
// Names may not escape root.
func Dir(root string) Source {
	return dir{root: root}
}

func (d dir) Load(name string) (capture.Content, error) {
	if !fs.ValidPath(name) {
		return capture.Content{}, fmt.Errorf("invalid asset name %q", name)
	}
	content, err := LoadFile(filepath.Join(d.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return capture.Content{}, fmt.Errorf("%w: %s in %s", ErrNotFound, name, d.root)
		}
		return capture.Content{}, err
	}
	return content, nil
}

type overlay struct {
	sources []Source
}

// Overlay returns a source that tries each source in turn and returns the
// first asset found.
func Overlay(sources ...Source) Source {
	return overlay{sources: sources}
}

func (o overlay) Load(name string) (capture.Content, error) {
	for _, s := range o.sources {
		content, err := s.Load(name)
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return capture.Content{}, err
		}
	}
	return capture.Content{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// LoadFile reads a text file from disk as Content. Files whose detected
// MIME type is not textual are rejected.
func LoadFile(filename string) (capture.Content, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return capture.Content{}, fmt.Errorf("failed to read asset: %w", err)
	}
	if mt := mimetype.Detect(data); !isText(mt) {
		return capture.Content{}, fmt.Errorf("asset %s is %s, not text", filename, mt.String())
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	return capture.Content{Source: abs, Text: string(data)}, nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}
