package queue

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type seen struct {
	Titles []string `json:"titles"`
}

func TestLocalQueue_PublishDeliversToSubscribers(t *testing.T) {
	// Arrange
	q := NewLocalQueue(zap.NewNop())
	var mu sync.Mutex
	var got []string

	for i := 0; i < 2; i++ {
		q.Subscribe(SubjectMovieSeen, func(ctx context.Context, data []byte) error {
			var payload seen
			if _, err := Decode(data, &payload); err != nil {
				t.Errorf("Decode failed: %v", err)
				return err
			}
			mu.Lock()
			got = append(got, payload.Titles...)
			mu.Unlock()
			return nil
		})
	}

	data, err := Encode(SubjectMovieSeen, seen{Titles: []string{"Arrival"}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Act
	if err := q.Publish(context.Background(), SubjectMovieSeen, data); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	q.Close()

	// Assert
	if len(got) != 2 || got[0] != "Arrival" {
		t.Errorf("expected both subscribers to receive the event, got %v", got)
	}
}

func TestLocalQueue_PublishAfterClose(t *testing.T) {
	q := NewLocalQueue(zap.NewNop())
	called := false
	q.Subscribe(SubjectConversationRecorded, func(ctx context.Context, data []byte) error {
		called = true
		return nil
	})
	q.Close()

	if err := q.Publish(context.Background(), SubjectConversationRecorded, []byte(`{}`)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if called {
		t.Errorf("expected no delivery after Close")
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(SubjectConversationRecorded, map[string]string{"user_id": "u1"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var out map[string]string
	evt, err := Decode(data, &out)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if evt.Subject != SubjectConversationRecorded || evt.ID == "" || evt.OccurredAt.IsZero() {
		t.Errorf("unexpected envelope: %+v", evt)
	}
	if out["user_id"] != "u1" {
		t.Errorf("unexpected payload: %v", out)
	}
}

func TestDecode_Invalid(t *testing.T) {
	var out map[string]string
	if _, err := Decode([]byte("nope"), &out); err == nil {
		t.Errorf("expected error for invalid event")
	}
}

func TestLocalQueue_SubscriberPanicIsContained(t *testing.T) {
	// Arrange
	q := NewLocalQueue(zap.NewNop())
	var mu sync.Mutex
	delivered := 0
	q.Subscribe(SubjectMovieSeen, func(ctx context.Context, data []byte) error {
		panic("subscriber bug")
	})
	q.Subscribe(SubjectMovieSeen, func(ctx context.Context, data []byte) error {
		mu.Lock()
		delivered++
		mu.Unlock()
		return nil
	})

	// Act
	if err := q.Publish(context.Background(), SubjectMovieSeen, []byte(`{}`)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	q.Close()

	// Assert
	if delivered != 1 {
		t.Errorf("expected the healthy subscriber to run once, got %d", delivered)
	}
}
