package sequence

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/specdoc/internal/capture"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedAliases cannot be used as aliases even though they are identifiers.
var reservedAliases = map[string]bool{"as": true}

func init() {
	for _, k := range capture.ParticipantKinds {
		reservedAliases[string(k)] = true
	}
}

// GenerateMarkup renders participants and messages as PlantUML sequence
// markup. Input is validated first and nothing is emitted for an invalid
// diagram.
//
// For participants Alice and Bob and one message "hello" the output is:
//
//	@startuml
//	participant "Alice" as Alice
//	participant "Bob" as Bob
//	Alice -> Bob : hello
//	@enduml
func GenerateMarkup(participants []capture.Participant, messages []capture.Message) (string, error) {
	if err := Validate(participants, messages); err != nil {
		return "", err
	}

	aliases := Aliases(participants)

	var b strings.Builder
	b.WriteString("@startuml\n")
	for _, p := range participants {
		fmt.Fprintf(&b, "%s \"%s\" as %s\n", p.Kind.Keyword(), escapeName(p.Name), aliases[p.Name])
	}
	for _, m := range messages {
		fmt.Fprintf(&b, "%s -> %s", aliases[m.From], aliases[m.To])
		if m.Label != "" {
			b.WriteString(" : ")
			b.WriteString(escapeText(m.Label))
		}
		b.WriteByte('\n')
	}
	b.WriteString("@enduml\n")
	return b.String(), nil
}

// Validate checks that every participant has a unique, non-empty name and
// a known kind, and that every message connects declared participants.
// It returns a *ValidationError for the first problem found.
func Validate(participants []capture.Participant, messages []capture.Message) error {
	for i, p := range participants {
		if err := validate.Struct(p); err != nil {
			return fieldError("participants", i, err)
		}
		if !p.Kind.Valid() {
			return &ValidationError{
				Field:   fmt.Sprintf("participants[%d].kind", i),
				Index:   i,
				Message: fmt.Sprintf("unknown participant kind %q", p.Kind),
			}
		}
	}

	names := lo.Map(participants, func(p capture.Participant, _ int) string { return p.Name })
	if dups := lo.FindDuplicates(names); len(dups) > 0 {
		first := lo.IndexOf(names, dups[0])
		index := first + 1 + lo.IndexOf(names[first+1:], dups[0])
		return &ValidationError{
			Field:   fmt.Sprintf("participants[%d].name", index),
			Index:   index,
			Message: fmt.Sprintf("duplicate participant %q", dups[0]),
		}
	}

	declared := lo.SliceToMap(names, func(n string) (string, bool) { return n, true })
	for i, m := range messages {
		if err := validate.Struct(m); err != nil {
			return fieldError("messages", i, err)
		}
		for _, end := range []struct{ field, name string }{{"from", m.From}, {"to", m.To}} {
			if !declared[end.name] {
				return &ValidationError{
					Field:   fmt.Sprintf("messages[%d].%s", i, end.field),
					Index:   i,
					Message: fmt.Sprintf("undeclared participant %q", end.name),
				}
			}
		}
	}
	return nil
}

func fieldError(list string, index int, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field:   fmt.Sprintf("%s[%d].%s", list, index, strings.ToLower(fe.Field())),
			Index:   index,
			Message: fmt.Sprintf("failed %q check", fe.Tag()),
		}
	}
	return &ValidationError{Field: fmt.Sprintf("%s[%d]", list, index), Index: index, Message: err.Error()}
}

// Aliases assigns every participant the short name arrows refer to it by.
// A name that is a plain identifier is its own alias; any other name gets
// P<n> for its 1-based position, suffixed with underscores until unique.
func Aliases(participants []capture.Participant) map[string]string {
	taken := make(map[string]bool, len(participants))
	for _, p := range participants {
		if isPlainAlias(p.Name) {
			taken[p.Name] = true
		}
	}

	aliases := make(map[string]string, len(participants))
	for i, p := range participants {
		if isPlainAlias(p.Name) {
			aliases[p.Name] = p.Name
			continue
		}
		alias := "P" + strconv.Itoa(i+1)
		for taken[alias] {
			alias += "_"
		}
		taken[alias] = true
		aliases[p.Name] = alias
	}
	return aliases
}

func isPlainAlias(name string) bool {
	return identifier.MatchString(name) && !reservedAliases[strings.ToLower(name)]
}

// escapeName escapes a participant name for use inside double quotes.
func escapeName(s string) string {
	return strings.ReplaceAll(escapeText(s), `"`, "'")
}

// escapeText keeps text on one markup line. Text is NFC normalized,
// backslashes are doubled, line breaks become \n and tabs \t. Other
// control characters are dropped.
func escapeText(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				continue
			}
			b.WriteString(`\n`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeText reverses escapeText's backslash sequences.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
