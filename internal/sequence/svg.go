package sequence

import (
	"fmt"
	"html"
	"strings"

	"github.com/roach88/specdoc/internal/assets"
	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/render"
)

// EntrySVG names the registry entry for diagrams.
const EntrySVG = "sequence-diagram"

// CapturedName is the label diagrams are captured under in reports.
const CapturedName = "Sequence Diagram"

// SVGRenderer renders a diagram inline, without its XML declaration.
var SVGRenderer = render.Typed(func(s SVG) (string, error) {
	return fmt.Sprintf(`<div class="sequence-diagram" id="%s" data-diagram-id="%s">%s</div>`,
		ElementID(s), html.EscapeString(s.ID), inlineSVG(s.XML)), nil
})

// ElementID returns the HTML id of a rendered diagram. Diagrams placed in a
// report are numbered so repeated diagrams keep distinct ids.
func ElementID(s SVG) string {
	if s.Position > 0 {
		return fmt.Sprintf("diagram-%d-%s", s.Position, html.EscapeString(s.ID))
	}
	return "diagram-" + html.EscapeString(s.ID)
}

// RegisterSVG registers the diagram entry.
func RegisterSVG(b *render.Builder) *render.Builder {
	return b.Register(EntrySVG, render.InstanceOf[SVG](), SVGRenderer)
}

// HeaderContent loads the header fragment that opens diagrams in a modal
// dialog.
func HeaderContent(src assets.Source) (capture.Content, error) {
	content, err := src.Load(assets.DialogHeader)
	if err != nil {
		return capture.Content{}, fmt.Errorf("failed to load diagram dialog header: %w", err)
	}
	return content, nil
}

func inlineSVG(xml string) string {
	xml = strings.TrimSpace(xml)
	if strings.HasPrefix(xml, "<?xml") {
		if end := strings.Index(xml, "?>"); end >= 0 {
			xml = strings.TrimSpace(xml[end+2:])
		}
	}
	return xml
}
