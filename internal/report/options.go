package report

import (
	"log/slog"
	"slices"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/render"
	"github.com/roach88/specdoc/internal/sequence"
)

// Option configures a Renderer.
type Option func(*Renderer)

type customEntry struct {
	name     string
	match    render.Predicate
	renderer render.Renderer
}

// WithCustomRenderer adds a renderer for values match accepts. Custom
// entries are consulted after the built-ins and before the fallback, in
// the order they are added.
func WithCustomRenderer(name string, match render.Predicate, r render.Renderer) Option {
	return func(rr *Renderer) {
		rr.custom = append(rr.custom, customEntry{name: name, match: match, renderer: r})
	}
}

// WithTypedRenderer adds a renderer for every value of type T.
func WithTypedRenderer[T any](name string, fn func(T) (string, error)) Option {
	return WithCustomRenderer(name, render.InstanceOf[T](), render.Typed(fn))
}

// WithCustomScripts sets the scripts included after the built-in script,
// replacing any set before.
func WithCustomScripts(scripts ...capture.Content) Option {
	return func(r *Renderer) {
		r.scripts = slices.Clone(scripts)
	}
}

// WithCustomHeaderContent sets extra content for the document head,
// replacing any set before.
func WithCustomHeaderContent(contents ...capture.Content) Option {
	return func(r *Renderer) {
		r.headers = slices.Clone(contents)
	}
}

// WithSequenceDiagrams embeds a sequence diagram in every scenario that
// recorded messages, generated with g.
func WithSequenceDiagrams(g *sequence.Generator) Option {
	return func(r *Renderer) {
		r.diagrams = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}
