package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/events"
)

func TestWorkerDeliversQueuedEventsBeforeStopReturns(t *testing.T) {
	target := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(target, 8, zap.NewNop())

	var mu sync.Mutex
	var delivered []string
	w.Subscribe(events.EventLeadCreated, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, e.SubjectID)
		return nil
	})

	w.Start()
	for _, id := range []string{"a", "b", "c"} {
		if err := w.Publish(context.Background(), events.Event{Type: events.EventLeadCreated, SubjectID: id}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 3 || delivered[0] != "a" || delivered[2] != "c" {
		t.Fatalf("unexpected deliveries: %v", delivered)
	}
}

func TestWorkerHandlerContextOutlivesRequest(t *testing.T) {
	target := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(target, 1, zap.NewNop())

	errs := make(chan error, 1)
	w.Subscribe(events.EventLeadDeleted, func(ctx context.Context, _ events.Event) error {
		errs <- ctx.Err()
		return nil
	})

	reqCtx, cancel := context.WithCancel(context.Background())
	_ = w.Publish(reqCtx, events.Event{Type: events.EventLeadDeleted})
	cancel()

	w.Start()
	if err := <-errs; err != nil {
		t.Fatalf("handler saw cancelled context: %v", err)
	}
	_ = w.Stop(context.Background())
}

func TestPublishAfterStopIsDropped(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 1, zap.NewNop())
	w.Start()
	_ = w.Stop(context.Background())
	if err := w.Publish(context.Background(), events.Event{Type: events.EventLeadCreated}); err != nil {
		t.Fatalf("expected silent drop, got %v", err)
	}
}

func TestPublishReportsFullQueue(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 1, zap.NewNop())
	if err := w.Publish(context.Background(), events.Event{Type: events.EventLeadCreated}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := w.Publish(context.Background(), events.Event{Type: events.EventLeadCreated}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	w.Start()
	_ = w.Stop(context.Background())
}
