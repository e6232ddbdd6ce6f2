package sequence

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/roach88/specdoc/internal/capture"
)

// Layout metrics in SVG user units.
const (
	margin       = 20
	charWidth    = 7
	lineHeight   = 16
	boxPadding   = 10
	minBoxWidth  = 80
	columnGap    = 40
	rowGap       = 24
	selfLoopSize = 30
)

var (
	declPattern  = regexp.MustCompile(`^(\w+)\s+"([^"]*)"\s+as\s+([A-Za-z_][A-Za-z0-9_]*)$`)
	arrowPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*->\s*([A-Za-z_][A-Za-z0-9_]*)(?:\s*:\s?(.*))?$`)
)

// NativeCompiler compiles the markup GenerateMarkup emits into SVG
// without leaving the process. It understands participant declarations
// of every kind and plain "->" arrows; anything else is an error.
type NativeCompiler struct{}

// NewNativeCompiler returns a NativeCompiler.
func NewNativeCompiler() *NativeCompiler {
	return &NativeCompiler{}
}

type lane struct {
	alias string
	kind  capture.ParticipantKind
	lines []string
	width int
	x     int // centre
}

type arrow struct {
	from, to int
	lines    []string
}

type diagram struct {
	lanes  []*lane
	arrows []arrow
}

// Compile parses markup and lays it out as an SVG document.
func (c *NativeCompiler) Compile(ctx context.Context, markup string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := parseMarkup(markup)
	if err != nil {
		return nil, err
	}
	return d.svg(), nil
}

func parseMarkup(markup string) (*diagram, error) {
	lines := strings.Split(strings.ReplaceAll(markup, "\r\n", "\n"), "\n")

	d := &diagram{}
	byAlias := make(map[string]int)
	started, ended := false, false

	for n, raw := range lines {
		line := strings.TrimSpace(raw)
		lineNo := n + 1
		if line == "" || strings.HasPrefix(line, "'") {
			continue
		}
		switch {
		case ended:
			return nil, fmt.Errorf("line %d: statement after @enduml", lineNo)
		case !started:
			if line != "@startuml" {
				return nil, fmt.Errorf("line %d: expected @startuml, got %q", lineNo, line)
			}
			started = true
		case line == "@enduml":
			ended = true
		case declPattern.MatchString(line):
			m := declPattern.FindStringSubmatch(line)
			kind := capture.ParticipantKind(m[1])
			if !kind.Valid() {
				return nil, fmt.Errorf("line %d: unknown participant kind %q", lineNo, m[1])
			}
			if _, dup := byAlias[m[3]]; dup {
				return nil, fmt.Errorf("line %d: alias %q declared twice", lineNo, m[3])
			}
			byAlias[m[3]] = len(d.lanes)
			d.lanes = append(d.lanes, &lane{alias: m[3], kind: kind, lines: splitLines(m[2])})
		case arrowPattern.MatchString(line):
			m := arrowPattern.FindStringSubmatch(line)
			from, ok := byAlias[m[1]]
			if !ok {
				return nil, fmt.Errorf("line %d: undeclared participant %q", lineNo, m[1])
			}
			to, ok := byAlias[m[2]]
			if !ok {
				return nil, fmt.Errorf("line %d: undeclared participant %q", lineNo, m[2])
			}
			a := arrow{from: from, to: to}
			if m[3] != "" {
				a.lines = splitLines(m[3])
			}
			d.arrows = append(d.arrows, a)
		default:
			return nil, fmt.Errorf("line %d: unrecognised statement %q", lineNo, line)
		}
	}

	if !started {
		return nil, fmt.Errorf("missing @startuml")
	}
	if !ended {
		return nil, fmt.Errorf("missing @enduml")
	}
	return d, nil
}

func splitLines(escaped string) []string {
	return strings.Split(unescapeText(escaped), "\n")
}

func textWidth(lines []string) int {
	widest := 0
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return widest * charWidth
}

// layout assigns lane centres and returns the total width and the extra
// room self messages need to the right of the last lane.
func (d *diagram) layout() int {
	pitch := minBoxWidth + columnGap
	for _, l := range d.lanes {
		l.width = max(minBoxWidth, textWidth(l.lines)+2*boxPadding)
		pitch = max(pitch, l.width+columnGap)
	}
	rightExtra := 0
	for _, a := range d.arrows {
		w := textWidth(a.lines) + 2*boxPadding
		if a.from == a.to {
			w += selfLoopSize
			if a.from == len(d.lanes)-1 {
				rightExtra = max(rightExtra, w-pitch/2)
			}
			continue
		}
		span := a.to - a.from
		if span < 0 {
			span = -span
		}
		pitch = max(pitch, w/span)
	}

	for i, l := range d.lanes {
		l.x = margin + pitch/2 + i*pitch
	}
	return margin*2 + pitch*len(d.lanes) + max(rightExtra, 0)
}

func (d *diagram) boxHeight() int {
	lines := 1
	for _, l := range d.lanes {
		lines = max(lines, len(l.lines))
	}
	return lines*lineHeight + 2*boxPadding
}

func (a arrow) height() int {
	h := len(a.lines)*lineHeight + rowGap
	if a.from == a.to {
		h += selfLoopSize
	}
	return h
}

func (d *diagram) svg() []byte {
	width := d.layout()
	boxH := d.boxHeight()

	bodyTop := margin + boxH
	bodyHeight := rowGap
	for _, a := range d.arrows {
		bodyHeight += a.height()
	}
	footTop := bodyTop + bodyHeight
	height := footTop + boxH + margin

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>`)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="sequence" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	buf.WriteString(`<defs><marker id="sequence-arrowhead" markerWidth="10" markerHeight="8" refX="10" refY="4" orient="auto">`)
	buf.WriteString(`<polygon points="0 0, 10 4, 0 8" fill="#333333"/></marker></defs>`)

	for _, l := range d.lanes {
		fmt.Fprintf(&buf, `<line class="lifeline" x1="%d" y1="%d" x2="%d" y2="%d" stroke="#888888" stroke-dasharray="5,5"/>`,
			l.x, bodyTop, l.x, footTop)
	}
	for _, l := range d.lanes {
		writeBox(&buf, l, margin, boxH)
		writeBox(&buf, l, footTop, boxH)
	}

	y := bodyTop + rowGap
	for _, a := range d.arrows {
		writeArrow(&buf, a, d.lanes, y)
		y += a.height()
	}

	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

func writeBox(buf *bytes.Buffer, l *lane, top, height int) {
	rx := 0
	switch l.kind {
	case capture.KindDatabase, capture.KindCollections, capture.KindQueue:
		rx = 8
	case capture.KindActor:
		rx = height / 2
	}
	fmt.Fprintf(buf, `<g class="participant %s"><rect x="%d" y="%d" width="%d" height="%d" rx="%d" fill="#fefece" stroke="#a80036"/>`,
		l.kind.Keyword(), l.x-l.width/2, top, l.width, height, rx)
	firstBaseline := top + height/2 - (len(l.lines)-1)*lineHeight/2 + lineHeight/3
	writeText(buf, l.x, firstBaseline, "middle", l.lines)
	buf.WriteString(`</g>`)
}

func writeArrow(buf *bytes.Buffer, a arrow, lanes []*lane, y int) {
	from, to := lanes[a.from], lanes[a.to]
	labelHeight := len(a.lines) * lineHeight
	lineY := y + labelHeight

	buf.WriteString(`<g class="message">`)
	if a.from == a.to {
		right := from.x + selfLoopSize
		fmt.Fprintf(buf, `<polyline points="%d,%d %d,%d %d,%d %d,%d" fill="none" stroke="#333333" marker-end="url(#sequence-arrowhead)"/>`,
			from.x, lineY, right, lineY, right, lineY+selfLoopSize, from.x, lineY+selfLoopSize)
		writeText(buf, from.x+boxPadding, y+lineHeight-4, "start", a.lines)
	} else {
		fmt.Fprintf(buf, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#333333" marker-end="url(#sequence-arrowhead)"/>`,
			from.x, lineY, to.x, lineY)
		left := min(from.x, to.x)
		writeText(buf, left+boxPadding, y+lineHeight-4, "start", a.lines)
	}
	buf.WriteString(`</g>`)
}

func writeText(buf *bytes.Buffer, x, baseline int, anchor string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(buf, `<text x="%d" y="%d" text-anchor="%s" font-family="sans-serif" font-size="13">`, x, baseline, anchor)
	for i, l := range lines {
		dy := 0
		if i > 0 {
			dy = lineHeight
		}
		fmt.Fprintf(buf, `<tspan x="%d" dy="%d">%s</tspan>`, x, dy, html.EscapeString(l))
	}
	buf.WriteString(`</text>`)
}
