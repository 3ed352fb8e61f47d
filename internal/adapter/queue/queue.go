package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SubjectConversationRecorded = "conversation.recorded"
	SubjectMovieSeen            = "movie.seen"
)

// Event is the envelope published on every subject.
type Event struct {
	ID         string          `json:"id"`
	Subject    string          `json:"subject"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Encode wraps payload in an Event for subject.
func Encode(subject string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal %s payload: %w", subject, err)
	}
	return json.Marshal(Event{
		ID:         uuid.NewString(),
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
}

// Decode unwraps an Event and unmarshals its payload into out.
func Decode(data []byte, out interface{}) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("queue: unmarshal event: %w", err)
	}
	if err := json.Unmarshal(evt.Payload, out); err != nil {
		return nil, fmt.Errorf("queue: unmarshal %s payload: %w", evt.Subject, err)
	}
	return &evt, nil
}
