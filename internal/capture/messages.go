package capture

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParticipantKind selects the shape a participant is drawn with.
type ParticipantKind string

// Participant kinds understood by the diagram pipeline.
const (
	KindParticipant ParticipantKind = "participant"
	KindActor       ParticipantKind = "actor"
	KindBoundary    ParticipantKind = "boundary"
	KindControl     ParticipantKind = "control"
	KindEntity      ParticipantKind = "entity"
	KindDatabase    ParticipantKind = "database"
	KindCollections ParticipantKind = "collections"
	KindQueue       ParticipantKind = "queue"
)

// ParticipantKinds lists every valid kind in declaration order.
var ParticipantKinds = []ParticipantKind{
	KindParticipant, KindActor, KindBoundary, KindControl,
	KindEntity, KindDatabase, KindCollections, KindQueue,
}

// Keyword returns the diagram keyword for the kind; the empty kind is a plain participant.
func (k ParticipantKind) Keyword() string {
	if k == "" {
		return string(KindParticipant)
	}
	return string(k)
}

// Valid reports whether k is empty or one of ParticipantKinds.
func (k ParticipantKind) Valid() bool {
	if k == "" {
		return true
	}
	for _, known := range ParticipantKinds {
		if k == known {
			return true
		}
	}
	return false
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *ParticipantKind) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	kind := ParticipantKind(raw)
	if !kind.Valid() {
		return fmt.Errorf("line %d: unknown participant kind %q", value.Line, raw)
	}
	*k = kind
	return nil
}

// Participant is a named actor in a sequence diagram.
// Names are unique within one diagram.
type Participant struct {
	Name string          `yaml:"name" validate:"required"`
	Kind ParticipantKind `yaml:"kind,omitempty"`
}

// NewParticipant returns a plain participant.
func NewParticipant(name string) Participant {
	return Participant{Name: name}
}

// Message is a directed, labelled interaction between two participants.
// Its position in the message log is its place on the diagram's timeline.
type Message struct {
	From  string `yaml:"from" validate:"required"`
	To    string `yaml:"to" validate:"required"`
	Label string `yaml:"label,omitempty"`
}

// NewMessage returns a message from one participant to another.
func NewMessage(from, to, label string) Message {
	return Message{From: from, To: to, Label: label}
}
