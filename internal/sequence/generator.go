package sequence

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/specdoc/internal/capture"
)

// diagramNamespace scopes diagram ids so they never collide with other
// name-based UUIDs derived from the same bytes.
var diagramNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/roach88/specdoc/sequence-diagram"))

// SVG is a compiled, canonical sequence diagram.
type SVG struct {
	// ID is derived from XML, so the same diagram always gets the same id.
	ID string

	// Markup is the source the diagram was compiled from.
	Markup string

	// XML is the canonical SVG document.
	XML string

	// Position is the diagram's 1-based place within a report, zero when
	// the diagram stands alone. Identical diagrams in one report share an
	// ID but never a position.
	Position int
}

// String returns the canonical SVG document.
func (s SVG) String() string {
	return s.XML
}

// Generator runs the markup, compile and canonicalize stages.
type Generator struct {
	compiler      Compiler
	canonicalizer Canonicalizer
	logger        *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithIndent sets the indentation of canonical XML.
func WithIndent(n int) GeneratorOption {
	return func(g *Generator) {
		g.canonicalizer.Indent = n
	}
}

// WithLogger sets the logger for stage diagnostics.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator returns a Generator compiling with compiler.
func NewGenerator(compiler Compiler, opts ...GeneratorOption) *Generator {
	g := &Generator{
		compiler:      compiler,
		canonicalizer: Canonicalizer{Indent: DefaultIndent},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces the canonical diagram for a message log.
// Validation errors are returned as *ValidationError; compiler and
// canonicalization failures as *DiagramError.
func (g *Generator) Generate(ctx context.Context, participants []capture.Participant, messages []capture.Message) (SVG, error) {
	markup, err := GenerateMarkup(participants, messages)
	if err != nil {
		return SVG{}, err
	}

	svg, err := g.Compile(ctx, markup)
	if err != nil {
		return SVG{}, err
	}

	g.logger.Debug("diagram generated",
		"id", svg.ID,
		"participants", len(participants),
		"messages", len(messages),
		"bytes", len(svg.XML))
	return svg, nil
}

// Compile runs already generated markup through the compile and
// canonicalize stages.
func (g *Generator) Compile(ctx context.Context, markup string) (SVG, error) {
	raw, err := g.compiler.Compile(ctx, markup)
	if err != nil {
		return SVG{}, &DiagramError{Code: ErrCodeCompilation, Err: err}
	}
	xml, err := g.canonicalizer.Canonicalize(raw)
	if err != nil {
		return SVG{}, err
	}
	return SVG{ID: uuid.NewSHA1(diagramNamespace, []byte(xml)).String(), Markup: markup, XML: xml}, nil
}
