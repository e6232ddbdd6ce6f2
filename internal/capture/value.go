package capture

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"
)

// Value is a sealed interface over the captured value kinds the built-in
// renderers know about. Only the types in this package implement it.
// Anything else captured by a test is carried as a plain Go value.
type Value interface {
	capturedValue() // Sealed
}

// TableHeader is one column header of a table driven test.
type TableHeader string

func (TableHeader) capturedValue() {}

// Source is a snippet of test source code.
type Source struct {
	Code string
}

func (Source) capturedValue() {}

// Notes is free-form prose attached to a class, method or scenario.
type Notes struct {
	Text string
}

func (Notes) capturedValue() {}

// LinkingNote is a note whose message contains one %s placeholder per
// linked test class. Rendering replaces each placeholder with a link to the
// corresponding class's report.
type LinkingNote struct {
	Message string
	Links   []TestClass
}

func (LinkingNote) capturedValue() {}

// Content is an immutable block of already safe markup (a script, a
// stylesheet, a header fragment) together with where it came from.
type Content struct {
	Source string
	Text   string
}

func (Content) capturedValue() {}

// String returns the content text.
func (c Content) String() string {
	return c.Text
}

// rawNamedValue is the capture-file shape of a NamedValue: a name plus
// exactly one of the kind fields.
type rawNamedValue struct {
	Name    string          `yaml:"name"`
	Text    *string         `yaml:"text,omitempty"`
	Number  any             `yaml:"number,omitempty"`
	Notes   *string         `yaml:"notes,omitempty"`
	Source  *string         `yaml:"source,omitempty"`
	Header  *string         `yaml:"header,omitempty"`
	Link    *rawLinkingNote `yaml:"link,omitempty"`
	Content *rawContent     `yaml:"content,omitempty"`
	XML     *string         `yaml:"xml,omitempty"`
}

type rawLinkingNote struct {
	Message string      `yaml:"message"`
	Links   []TestClass `yaml:"links"`
}

type rawContent struct {
	Source string `yaml:"source"`
	Text   string `yaml:"text"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *NamedValue) UnmarshalYAML(node *yaml.Node) error {
	var raw rawNamedValue
	if err := node.Decode(&raw); err != nil {
		return err
	}

	var values []any
	if raw.Text != nil {
		values = append(values, *raw.Text)
	}
	if raw.Number != nil {
		switch n := raw.Number.(type) {
		case int, int64, uint64, float64:
			values = append(values, n)
		default:
			return fmt.Errorf("line %d: value %q: number must be numeric, got %T", node.Line, raw.Name, raw.Number)
		}
	}
	if raw.Notes != nil {
		values = append(values, Notes{Text: *raw.Notes})
	}
	if raw.Source != nil {
		values = append(values, Source{Code: *raw.Source})
	}
	if raw.Header != nil {
		values = append(values, TableHeader(*raw.Header))
	}
	if raw.Link != nil {
		values = append(values, LinkingNote{Message: raw.Link.Message, Links: raw.Link.Links})
	}
	if raw.Content != nil {
		values = append(values, Content{Source: raw.Content.Source, Text: raw.Content.Text})
	}

	if raw.XML != nil {
		doc, err := parseXML(*raw.XML)
		if err != nil {
			return fmt.Errorf("line %d: value %q: %w", node.Line, raw.Name, err)
		}
		values = append(values, doc)
	}

	if len(values) != 1 {
		return fmt.Errorf("line %d: value %q must set exactly one of text, number, notes, source, header, link, content, xml (got %d)",
			node.Line, raw.Name, len(values))
	}

	v.Name = raw.Name
	v.Value = values[0]
	return nil
}

// parseXML parses a captured XML document. Captured documents are shared
// by every render, so renderers must copy before modifying them.
func parseXML(text string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, fmt.Errorf("invalid xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, errors.New("invalid xml: no root element")
	}
	return doc, nil
}
