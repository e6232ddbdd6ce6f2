package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"text/template"

	"github.com/roach88/specdoc/internal/assets"
	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/render"
	"github.com/roach88/specdoc/internal/sequence"
)

// Renderer renders results into HTML documents. It is safe for
// concurrent use once configured.
type Renderer struct {
	src      assets.Source
	custom   []customEntry
	scripts  []capture.Content
	headers  []capture.Content
	diagrams *sequence.Generator
	logger   *slog.Logger
}

// New returns a Renderer loading its assets from src.
func New(src assets.Source, opts ...Option) *Renderer {
	r := &Renderer{
		src:    src,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document is a rendered report and the diagrams embedded in it.
type Document struct {
	Class    capture.TestClass
	Path     string
	Status   capture.Status
	HTML     string
	Diagrams []sequence.SVG
}

// Registry builds the registry used to render the report of class.
func (r *Renderer) Registry(class capture.TestClass) *render.Registry {
	b := render.NewBuilder()
	render.RegisterBuiltins(b, class)
	for _, c := range r.custom {
		b.Register(c.name, c.match, c.renderer)
	}
	render.RegisterXMLDocument(b)
	if r.diagrams != nil {
		sequence.RegisterSVG(b)
	}
	render.RegisterFallback(b)
	return b.Build()
}

// Render renders the report for result. The result is not modified.
func (r *Renderer) Render(ctx context.Context, result *capture.Result) (string, error) {
	doc, err := r.RenderDocument(ctx, result)
	if err != nil {
		return "", err
	}
	return doc.HTML, nil
}

// RenderDocument renders the report for result and returns it with the
// diagrams it embeds. Any failure aborts the whole document.
func (r *Renderer) RenderDocument(ctx context.Context, result *capture.Result) (*Document, error) {
	reg := r.Registry(result.Class)

	scripts, stylesheet, headers, err := r.loadAssets()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", result.Class, err)
	}

	view, diagrams, err := r.buildView(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", result.Class, err)
	}

	html, err := r.execute(assets.ReportTemplate, reg, reportData{
		Result:              view,
		Scripts:             scripts,
		Stylesheet:          stylesheet,
		CustomHeaderContent: headers,
		CSSClass:            CSSClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", result.Class, err)
	}

	doc := &Document{
		Class:    result.Class,
		Path:     ResultPath(result.Class),
		Status:   view.Status,
		HTML:     html,
		Diagrams: diagrams,
	}
	r.logger.Info("report rendered",
		"class", result.Class.String(),
		"status", doc.Status,
		"diagrams", len(diagrams),
		"bytes", len(html))
	return doc, nil
}

// loadAssets loads the built-in script followed by the custom scripts,
// the stylesheet, and the header content.
func (r *Renderer) loadAssets() ([]capture.Content, capture.Content, []capture.Content, error) {
	script, err := r.src.Load(assets.ReportScript)
	if err != nil {
		return nil, capture.Content{}, nil, err
	}
	stylesheet, err := r.src.Load(assets.ReportStyle)
	if err != nil {
		return nil, capture.Content{}, nil, err
	}

	scripts := append([]capture.Content{script}, r.scripts...)
	headers := slices.Clone(r.headers)
	if r.diagrams != nil {
		dialog, err := sequence.HeaderContent(r.src)
		if err != nil {
			return nil, capture.Content{}, nil, err
		}
		headers = append(headers, dialog)
	}
	return scripts, stylesheet, headers, nil
}

// execute loads the named template and runs it with data. Values are
// written through the render func, which is where escaping happens.
func (r *Renderer) execute(name string, reg *render.Registry, data any) (string, error) {
	source, err := r.src.Load(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"render":   reg.Render,
		"cssClass": CSSClass,
		"wordify":  capture.Wordify,
	}).Parse(source.Text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", source.Source, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", source.Source, err)
	}
	return buf.String(), nil
}
