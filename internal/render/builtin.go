package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/beevik/etree"

	"github.com/roach88/specdoc/internal/capture"
)

// Names of the built-in entries.
const (
	EntryTableHeader = "table-header"
	EntrySource      = "source"
	EntryNotes       = "notes"
	EntryLinkingNote = "linking-note"
	EntryContent     = "content"
	EntryXMLDocument = "xml-document"
	EntryEscape      = "escape"
	EntryUnmatched   = "unmatched"
)

// Stringify formats v with fmt's default verb. nil renders empty.
// The result is not escaped.
func Stringify(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	return fmt.Sprint(v), nil
}

// Escape renders the stringified value with HTML entities escaped.
var Escape Renderer = RendererFunc(func(v any) (string, error) {
	s, err := Stringify(v)
	if err != nil {
		return "", err
	}
	return html.EscapeString(s), nil
})

// TableHeaderRenderer renders a column header as escaped words,
// "firstName" becoming "First name".
var TableHeaderRenderer = Typed(func(h capture.TableHeader) (string, error) {
	return html.EscapeString(capture.Wordify(string(h))), nil
})

// SourceRenderer renders dedented, escaped source code in a pre block.
var SourceRenderer = Typed(func(s capture.Source) (string, error) {
	return `<pre class="source">` + html.EscapeString(Dedent(s.Code)) + `</pre>`, nil
})

// NotesRenderer renders escaped notes with line breaks kept.
var NotesRenderer = Typed(func(n capture.Notes) (string, error) {
	text := strings.TrimRight(strings.ReplaceAll(n.Text, "\r\n", "\n"), "\n")
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br/>\n"), nil
})

// ContentRenderer renders content text verbatim. Content is trusted markup.
var ContentRenderer = Typed(func(c capture.Content) (string, error) {
	return c.Text, nil
})

// XMLDocumentRenderer renders an XML document indented and escaped in a
// pre block. The document itself is left untouched.
var XMLDocumentRenderer = Typed(func(d *etree.Document) (string, error) {
	if d == nil {
		return "", nil
	}
	doc := d.Copy()
	doc.Indent(2)
	text, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("write xml document: %w", err)
	}
	return `<pre class="xml">` + html.EscapeString(strings.TrimRight(text, "\n")) + `</pre>`, nil
})

// LinkingNoteRenderer renders linking notes in the report of current.
// Each %s in the message is replaced, in order, by a link to the next
// class in Links, relative to current's report.
func LinkingNoteRenderer(current capture.TestClass) Renderer {
	return Typed(func(n capture.LinkingNote) (string, error) {
		parts := strings.Split(n.Message, "%s")
		if placeholders := len(parts) - 1; placeholders > len(n.Links) {
			return "", fmt.Errorf("linking note has %d placeholders but %d links", placeholders, len(n.Links))
		}

		var b strings.Builder
		for i, part := range parts {
			b.WriteString(html.EscapeString(part))
			if i == len(parts)-1 {
				break
			}
			target := n.Links[i]
			fmt.Fprintf(&b, "<a href='%s'>%s</a>",
				html.EscapeString(RelativeLink(current, target)),
				html.EscapeString(target.Name))
		}
		return b.String(), nil
	})
}

// RelativeLink returns the path of target's report relative to the
// directory holding from's report.
func RelativeLink(from, target capture.TestClass) string {
	fromDir := strings.Split(from.ReportFile(), "/")
	fromDir = fromDir[:len(fromDir)-1]
	to := strings.Split(target.ReportFile(), "/")

	common := 0
	for common < len(fromDir) && common < len(to)-1 && fromDir[common] == to[common] {
		common++
	}

	rel := make([]string, 0, len(fromDir)-common+len(to)-common)
	for range fromDir[common:] {
		rel = append(rel, "..")
	}
	rel = append(rel, to[common:]...)
	return strings.Join(rel, "/")
}

// Dedent strips leading and trailing blank lines and the indentation
// common to every non-blank line.
func Dedent(code string) string {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

// RegisterBuiltins registers the entries for the known captured value
// kinds, with linking notes resolved relative to current.
func RegisterBuiltins(b *Builder, current capture.TestClass) *Builder {
	return b.
		Register(EntryTableHeader, InstanceOf[capture.TableHeader](), TableHeaderRenderer).
		Register(EntrySource, InstanceOf[capture.Source](), SourceRenderer).
		Register(EntryNotes, InstanceOf[capture.Notes](), NotesRenderer).
		Register(EntryLinkingNote, InstanceOf[capture.LinkingNote](), LinkingNoteRenderer(current)).
		Register(EntryContent, InstanceOf[capture.Content](), ContentRenderer)
}

// RegisterXMLDocument registers the XML document entry.
func RegisterXMLDocument(b *Builder) *Builder {
	return b.Register(EntryXMLDocument, InstanceOf[*etree.Document](), XMLDocumentRenderer)
}

// FallbackPredicate accepts every non-numeric value. Numbers fall through
// to the unmatched renderer and are written as plain decimal text.
func FallbackPredicate() Predicate {
	return And(Always(), Not(Numeric))
}

// RegisterFallback registers the escaping fallback. It accepts almost
// everything, so it belongs after every other entry.
func RegisterFallback(b *Builder) *Builder {
	return b.Register(EntryEscape, FallbackPredicate(), Escape)
}
