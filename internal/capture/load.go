package capture

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Issue is one schema violation in a capture file.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SchemaError reports every schema violation found in a capture file.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 1 {
		return "capture schema: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("capture schema: %d issues: %s", len(e.Issues), strings.Join(parts, "; "))
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// schema holds the compiled #Result definition. cue.Context is not safe for
// concurrent use, so validation is serialised on schemaMu.
var (
	schemaOnce sync.Once
	schemaMu   sync.Mutex
	schemaCtx  *cue.Context
	resultDef  cue.Value
	schemaErr  error
)

func loadSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile capture schema: %w", err)
			return
		}
		resultDef = v.LookupPath(cue.ParsePath("#Result"))
		if !resultDef.Exists() {
			schemaErr = fmt.Errorf("capture schema has no #Result definition")
		}
	})
	return schemaCtx, resultDef, schemaErr
}

// ValidateSchema checks a capture document against the embedded CUE schema.
// Returns *SchemaError listing every violation.
func ValidateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return &SchemaError{Issues: []Issue{{Message: "empty capture document"}}}
	}

	ctx, def, err := loadSchema()
	if err != nil {
		return err
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return &SchemaError{Issues: toIssues(err)}
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Issues: toIssues(err)}
	}
	return nil
}

func toIssues(err error) []Issue {
	var issues []Issue
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		issues = append(issues, Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{Message: err.Error()})
	}
	return issues
}

// Decode validates and parses a capture document.
func Decode(data []byte) (*Result, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	// Strict decoding on top of the schema catches typos the schema allows
	// through, such as a misspelled optional field on a nested value.
	var result Result
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &result, nil
}

// LoadResult reads and parses a capture file.
func LoadResult(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture file: %w", err)
	}
	result, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}
