package report

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/sequence"
)

// reportData is what the report template is executed with.
type reportData struct {
	Result              resultView
	Scripts             []capture.Content
	Stylesheet          capture.Content
	CustomHeaderContent []capture.Content
	CSSClass            map[capture.Status]string
}

type resultView struct {
	Class   capture.TestClass
	Title   string
	Status  capture.Status
	Notes   capture.Notes
	Methods []methodView
}

type methodView struct {
	Name      string
	Title     string
	Status    capture.Status
	Notes     capture.Notes
	Source    capture.Source
	Headers   []capture.TableHeader
	Scenarios []scenarioView
}

type scenarioView struct {
	Name     string
	Status   capture.Status
	Row      []string
	Givens   []capture.NamedValue
	Captured []capture.NamedValue
}

// buildView copies result into template form. With diagrams enabled each
// scenario that recorded messages gets its diagram appended to the copy
// of its captured values.
func (r *Renderer) buildView(ctx context.Context, result *capture.Result) (resultView, []sequence.SVG, error) {
	view := resultView{
		Class:  result.Class,
		Title:  result.Title(),
		Status: result.Status(),
		Notes:  capture.Notes{Text: result.Notes},
	}

	var diagrams []sequence.SVG
	for _, m := range result.Methods {
		mv := methodView{
			Name:    m.Name,
			Title:   capture.Wordify(m.Name),
			Status:  m.Outcome(),
			Notes:   capture.Notes{Text: m.Notes},
			Source:  capture.Source{Code: m.Source},
			Headers: m.TableHeaders(),
		}
		for _, sc := range m.Scenarios {
			sv := scenarioView{
				Name:     sc.Name,
				Status:   sc.Status,
				Row:      slices.Clone(sc.Row),
				Givens:   slices.Clone(sc.Givens),
				Captured: slices.Clone(sc.Captured),
			}
			if r.diagrams != nil && sc.HasDiagram() {
				svg, err := r.diagrams.Generate(ctx, sc.Participants, sc.Messages)
				if err != nil {
					return resultView{}, nil, fmt.Errorf("sequence diagram for %s scenario %q: %w", MethodPath(result.Class, m.Name), sc.Name, err)
				}
				svg.Position = len(diagrams) + 1
				r.logger.Debug("diagram embedded", "scenario", sc.Name, "id", svg.ID, "position", svg.Position)
				sv.Captured = append(sv.Captured, capture.NamedValue{Name: sequence.CapturedName, Value: svg})
				diagrams = append(diagrams, svg)
			}
			mv.Scenarios = append(mv.Scenarios, sv)
		}
		view.Methods = append(view.Methods, mv)
	}
	return view, diagrams, nil
}
