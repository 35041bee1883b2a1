package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishRunsEveryHandlerAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	boom := errors.New("boom")

	d.Subscribe(EventLeadCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventLeadCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventLeadDeleted, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLeadCreated})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap boom, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected handler calls: %v", calls)
	}
}

func TestSubscribeAllCoversEveryType(t *testing.T) {
	d := NewInMemoryDispatcher()
	seen := map[EventType]int{}
	SubscribeAll(d, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, eventType := range AllEventTypes {
		if err := d.Publish(context.Background(), Event{Type: eventType}); err != nil {
			t.Fatalf("publish %s: %v", eventType, err)
		}
	}
	for _, eventType := range AllEventTypes {
		if seen[eventType] != 1 {
			t.Fatalf("%s delivered %d times", eventType, seen[eventType])
		}
	}
}

func TestActorOfNilUser(t *testing.T) {
	if got := ActorOf(nil); got != (Actor{}) {
		t.Fatalf("expected empty actor, got %+v", got)
	}
}
