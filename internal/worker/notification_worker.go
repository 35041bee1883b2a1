package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/events"
)

// ErrQueueFull is returned by Publish when the event was dropped for lack of queue space.
var ErrQueueFull = errors.New("notification queue full")

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NotificationWorker moves event delivery off the request path. It implements
// events.Dispatcher: Publish enqueues, a single goroutine forwards to the wrapped dispatcher.
type NotificationWorker struct {
	target events.Dispatcher
	logger *zap.Logger

	mu     sync.Mutex
	queue  chan queuedEvent
	closed bool
	done   chan struct{}
}

// NewNotificationWorker wraps target with a queue of the given size.
func NewNotificationWorker(target events.Dispatcher, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = 256
	}
	return &NotificationWorker{
		target: target,
		logger: logger,
		queue:  make(chan queuedEvent, size),
		done:   make(chan struct{}),
	}
}

// Start begins draining the queue.
func (w *NotificationWorker) Start() {
	go func() {
		defer close(w.done)
		for item := range w.queue {
			if err := w.target.Publish(item.ctx, item.event); err != nil {
				w.logger.Warn("event handler failed",
					zap.String("event_type", string(item.event.Type)),
					zap.String("subject_id", item.event.SubjectID),
					zap.Error(err))
			}
		}
	}()
}

// Publish enqueues event. When the queue is full or the worker stopped the event is dropped
// and logged, so a slow handler never blocks a request.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.logger.Warn("notification worker stopped; dropping event", zap.String("event_type", string(event.Type)))
		return nil
	}
	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		w.logger.Warn("notification queue full; dropping event", zap.String("event_type", string(event.Type)))
		return ErrQueueFull
	}
	return nil
}

// Subscribe registers handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.target.Subscribe(eventType, handler)
}

// Stop closes the queue and waits until queued events are delivered or ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
