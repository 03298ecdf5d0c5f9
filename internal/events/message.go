package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/simonyos/toolrunner/internal/agent"
)

// SubjectPrefix is the root of every run subject
const SubjectPrefix = "toolrunner.runs"

// Message is the wire form of a run event
type Message struct {
	ID string `json:"id"` // Unique message ID
	agent.Event
}

// NewMessage wraps an event with a generated ID
func NewMessage(e agent.Event) *Message {
	return &Message{ID: uuid.New().String(), Event: e}
}

// Encode serializes the message to JSON
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage deserializes a message from JSON
func DecodeMessage(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Subject returns the subject an event is published on:
// toolrunner.runs.<run_id>.<kind>
func Subject(e agent.Event) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, token(e.RunID), token(string(e.Kind)))
}

// RunSubject matches every event of one run, or of all runs when runID is empty
func RunSubject(runID string) string {
	if runID == "" {
		return SubjectPrefix + ".>"
	}
	return fmt.Sprintf("%s.%s.>", SubjectPrefix, token(runID))
}

// token makes a value safe to use as a single subject token
func token(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}
