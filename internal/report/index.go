package report

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/roach88/specdoc/internal/assets"
	"github.com/roach88/specdoc/internal/capture"
)

// IndexTitle heads the index document.
const IndexTitle = "Test results"

// IndexEntry is one report listed on the index page.
type IndexEntry struct {
	Class  capture.TestClass
	Title  string
	Status capture.Status
	Path   string
}

// NewIndexEntry describes the report of result.
func NewIndexEntry(result *capture.Result) IndexEntry {
	return IndexEntry{
		Class:  result.Class,
		Title:  result.Title(),
		Status: result.Status(),
		Path:   ResultPath(result.Class),
	}
}

type indexData struct {
	Title      string
	Entries    []IndexEntry
	Stylesheet capture.Content
	CSSClass   map[capture.Status]string
}

// RenderIndex renders a page linking every entry, ordered by path.
// Entry paths are relative to the output root, where the index lives.
func (r *Renderer) RenderIndex(entries []IndexEntry) (string, error) {
	stylesheet, err := r.src.Load(assets.ReportStyle)
	if err != nil {
		return "", fmt.Errorf("render index: %w", err)
	}

	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b IndexEntry) int {
		return cmp.Compare(a.Path, b.Path)
	})

	html, err := r.execute(assets.IndexTemplate, r.Registry(capture.TestClass{}), indexData{
		Title:      IndexTitle,
		Entries:    sorted,
		Stylesheet: stylesheet,
		CSSClass:   CSSClasses(),
	})
	if err != nil {
		return "", fmt.Errorf("render index: %w", err)
	}
	r.logger.Info("index rendered", "entries", len(sorted), "bytes", len(html))
	return html, nil
}
