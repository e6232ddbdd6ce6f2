package sequence

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

// DefaultIndent is the number of spaces per nesting level in canonical XML.
const DefaultIndent = 2

// textElements hold character content whose whitespace is significant, so
// their children are never re-indented.
var textElements = map[string]bool{
	"text":     true,
	"tspan":    true,
	"textPath": true,
	"title":    true,
	"desc":     true,
	"style":    true,
	"script":   true,
}

// Canonicalizer re-serializes XML with consistent indentation.
type Canonicalizer struct {
	Indent int
}

// Canonicalize parses raw and writes it back with whitespace between
// elements replaced by indentation. Elements that carry text (mixed
// content, text leaves and SVG text elements) are written as parsed.
// Canonicalizing canonical output returns it unchanged.
func (c Canonicalizer) Canonicalize(raw []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", &DiagramError{Code: ErrCodeCanonicalization, Err: fmt.Errorf("parse XML: %w", err)}
	}
	if doc.Root() == nil {
		return "", &DiagramError{Code: ErrCodeCanonicalization, Err: errors.New("document has no root element")}
	}

	unit := strings.Repeat(" ", max(c.Indent, 0))
	for _, t := range detachChildren(&doc.Element) {
		if cd, ok := t.(*etree.CharData); ok && !cd.IsCData() && isBlank(cd.Data) {
			continue
		}
		doc.AddChild(t)
		if el, ok := t.(*etree.Element); ok {
			indentChildren(el, "", unit)
		}
		doc.AddChild(etree.NewText("\n"))
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", &DiagramError{Code: ErrCodeCanonicalization, Err: fmt.Errorf("write XML: %w", err)}
	}
	return out, nil
}

// Canonicalize canonicalizes raw with DefaultIndent.
func Canonicalize(raw []byte) (string, error) {
	return Canonicalizer{Indent: DefaultIndent}.Canonicalize(raw)
}

// indentChildren puts each child of e on its own line one level deeper
// than prefix, dropping the whitespace that separated them before.
func indentChildren(e *etree.Element, prefix, unit string) {
	if keepsLayout(e) {
		return
	}
	inner := prefix + unit
	for _, t := range detachChildren(e) {
		if _, ok := t.(*etree.CharData); ok {
			continue
		}
		e.AddChild(etree.NewText("\n" + inner))
		e.AddChild(t)
		if el, ok := t.(*etree.Element); ok {
			indentChildren(el, inner, unit)
		}
	}
	e.AddChild(etree.NewText("\n" + prefix))
}

// keepsLayout reports whether e's children must be left exactly as parsed:
// e is a text element, has no child markup, or mixes markup with text.
func keepsLayout(e *etree.Element) bool {
	if textElements[e.Tag] {
		return true
	}
	markup := false
	for _, t := range e.Child {
		cd, ok := t.(*etree.CharData)
		if !ok {
			markup = true
			continue
		}
		if cd.IsCData() || !isBlank(cd.Data) {
			return true
		}
	}
	return !markup
}

// detachChildren removes and returns every child token of e.
func detachChildren(e *etree.Element) []etree.Token {
	children := slices.Clone(e.Child)
	for i := len(e.Child) - 1; i >= 0; i-- {
		e.RemoveChildAt(i)
	}
	return children
}

// isBlank reports whether s is only XML whitespace.
func isBlank(s string) bool {
	return strings.Trim(s, " \t\r\n") == ""
}
