package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
	apperrors "github.com/mahajanautomation/crm-backend/pkg/util"
)

// publisher stamps and forwards domain events. A nil dispatcher drops them.
type publisher struct {
	dispatcher events.Dispatcher
	clock      timeutil.Clock
}

func (p publisher) publish(ctx context.Context, eventType events.EventType, subjectID string, actor *domain.User, payload any) {
	if p.dispatcher == nil {
		return
	}
	_ = p.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     events.ActorOf(actor),
		Timestamp: p.clock.Now(),
		Payload:   payload,
	})
}

func clockOrSystem(clock timeutil.Clock) timeutil.Clock {
	if clock == nil {
		return timeutil.SystemClock{}
	}
	return clock
}

func requireActor(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// lookupForMutation loads a record for update or delete. A missing record yields (nil, nil)
// so callers can treat it as a silent no-op.
func lookupForMutation[T any](record *T, err error) (*T, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// lookupForRead loads a record for a read, mapping absence to NOT_FOUND.
func lookupForRead[T any](record *T, err error, resource, id string) (*T, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

func emptyIfNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func preview(content string) string {
	const limit = 80
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
