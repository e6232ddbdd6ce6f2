package capture

import (
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the outcome of a test method or scenario.
type Status int

const (
	// NotRun is the zero value: a test that was skipped or never executed.
	NotRun Status = iota
	Passed
	Failed
)

// String returns the display name of the status.
func (s Status) String() string {
	switch s {
	case Passed:
		return "Passed"
	case Failed:
		return "Failed"
	default:
		return "NotRun"
	}
}

// Key returns the snake_case form used in capture files.
func (s Status) Key() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "not_run"
	}
}

// ParseStatus parses the capture-file form of a status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passed":
		return Passed, nil
	case "failed":
		return Failed, nil
	case "not_run", "notrun", "":
		return NotRun, nil
	default:
		return NotRun, fmt.Errorf("unknown status %q", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Status) MarshalYAML() (interface{}, error) {
	return s.Key(), nil
}

// MarshalText lets statuses key JSON maps and appear in CLI output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts both the display and the capture-file forms.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TestClass identifies the suite a result belongs to.
// Package is a slash separated path such as "example/orders".
type TestClass struct {
	Package string `yaml:"package" json:"package"`
	Name    string `yaml:"name" json:"name"`
}

// Path returns the slash separated location of the class, e.g. "example/orders/OrderTest".
func (c TestClass) Path() string {
	if c.Package == "" {
		return c.Name
	}
	return path.Join(strings.Trim(c.Package, "/"), c.Name)
}

// ReportFile returns the location of the class's HTML report relative to
// the report root, e.g. "example/orders/OrderTest.html".
func (c TestClass) ReportFile() string {
	return c.Path() + ".html"
}

// Title returns the class name as words without its Test suffix,
// e.g. "PlacingOrdersTest" -> "Placing orders".
func (c TestClass) Title() string {
	name := strings.TrimSuffix(c.Name, "Test")
	if name == "" {
		name = c.Name
	}
	return Wordify(name)
}

// String returns the qualified dotted name of the class.
func (c TestClass) String() string {
	if c.Package == "" {
		return c.Name
	}
	return strings.ReplaceAll(strings.Trim(c.Package, "/"), "/", ".") + "." + c.Name
}

// NamedValue is one captured value with the label it was recorded under.
type NamedValue struct {
	Name  string
	Value any
}

// Scenario is a single execution of a test method: one row of a table
// driven test, or the only run of a plain one.
type Scenario struct {
	Name   string   `yaml:"name"`
	Status Status   `yaml:"status,omitempty"`
	Row    []string `yaml:"row,omitempty"`

	// Givens are the interesting givens set up before the scenario ran.
	Givens []NamedValue `yaml:"givens,omitempty"`

	// Captured holds inputs and outputs recorded while the scenario ran, in order.
	Captured []NamedValue `yaml:"captured,omitempty"`

	Participants []Participant `yaml:"participants,omitempty"`
	Messages     []Message     `yaml:"messages,omitempty"`
}

// HasDiagram reports whether the scenario recorded any messages.
func (s Scenario) HasDiagram() bool {
	return len(s.Messages) > 0
}

// TestMethod is one test and all of its scenarios.
type TestMethod struct {
	Name      string     `yaml:"name"`
	Status    Status     `yaml:"status,omitempty"`
	Notes     string     `yaml:"notes,omitempty"`
	Source    string     `yaml:"source,omitempty"`
	Headers   []string   `yaml:"headers,omitempty"`
	Scenarios []Scenario `yaml:"scenarios,omitempty"`
}

// Outcome returns the method status. When the method itself carries no
// status it is derived from its scenarios: any failure fails the method,
// and a method runs only if at least one scenario ran.
func (m TestMethod) Outcome() Status {
	if m.Status != NotRun || len(m.Scenarios) == 0 {
		return m.Status
	}
	status := NotRun
	for _, sc := range m.Scenarios {
		switch sc.Status {
		case Failed:
			return Failed
		case Passed:
			status = Passed
		}
	}
	return status
}

// IsTable reports whether the method is table driven.
func (m TestMethod) IsTable() bool {
	return len(m.Headers) > 0
}

// TableHeaders returns the method headers as renderable values.
func (m TestMethod) TableHeaders() []TableHeader {
	headers := make([]TableHeader, len(m.Headers))
	for i, h := range m.Headers {
		headers[i] = TableHeader(h)
	}
	return headers
}

// Result is everything captured for one test class.
type Result struct {
	Class   TestClass    `yaml:"class"`
	Notes   string       `yaml:"notes,omitempty"`
	Methods []TestMethod `yaml:"methods"`
}

// Status aggregates the method outcomes: failed if any method failed,
// not run if no method ran, passed otherwise.
func (r *Result) Status() Status {
	status := NotRun
	for _, m := range r.Methods {
		switch m.Outcome() {
		case Failed:
			return Failed
		case Passed:
			status = Passed
		}
	}
	return status
}

// Title returns the class title.
func (r *Result) Title() string {
	return r.Class.Title()
}
