package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/events"
	"github.com/mahajanautomation/crm-backend/internal/repository"
	"github.com/mahajanautomation/crm-backend/internal/timeutil"
)

// FollowUpReminder periodically publishes follow_up_due for open follow-ups scheduled within
// the look-ahead window. Each follow-up is announced once per process.
type FollowUpReminder struct {
	leads      repository.LeadRepository
	dispatcher events.Dispatcher
	clock      timeutil.Clock
	window     time.Duration
	logger     *zap.Logger

	cron *cron.Cron

	mu       sync.Mutex
	notified map[string]struct{}
}

// NewFollowUpReminder builds the job.
func NewFollowUpReminder(leads repository.LeadRepository, dispatcher events.Dispatcher, clock timeutil.Clock, window time.Duration, logger *zap.Logger) *FollowUpReminder {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &FollowUpReminder{
		leads:      leads,
		dispatcher: dispatcher,
		clock:      clock,
		window:     window,
		logger:     logger,
		notified:   make(map[string]struct{}),
	}
}

// Start runs the job on a cron schedule such as "@every 15m" or "0 9 * * *".
func (r *FollowUpReminder) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := r.Run(context.Background()); err != nil {
			r.logger.Warn("follow-up reminder run failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	r.cron = c
	c.Start()
	r.logger.Info("follow-up reminder scheduled", zap.String("schedule", schedule), zap.Duration("window", r.window))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish or ctx to end.
func (r *FollowUpReminder) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}
	select {
	case <-r.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run performs one scan and returns how many reminders were published.
func (r *FollowUpReminder) Run(ctx context.Context) (int, error) {
	leads, err := r.leads.List(ctx, repository.LeadFilter{})
	if err != nil {
		return 0, err
	}

	now := r.clock.Now()
	horizon := now.Add(r.window)
	published := 0
	for i := range leads {
		lead := &leads[i]
		for _, followUp := range lead.FollowUps {
			if followUp.CompletedAt != nil || followUp.ScheduledAt == nil {
				continue
			}
			at := *followUp.ScheduledAt
			if at.Before(now) || !at.Before(horizon) {
				continue
			}
			if !r.markNotified(followUp.ID) {
				continue
			}
			err := r.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventFollowUpDue,
				SubjectID: lead.ID,
				Timestamp: now,
				Payload: events.FollowUpDuePayload{
					FollowUpID:  followUp.ID,
					Type:        followUp.Type,
					ScheduledAt: at,
					AssignedTo:  lead.AssignedTo,
					Preview:     followUp.Content,
				},
			})
			if err != nil {
				r.release(followUp.ID)
				r.logger.Warn("publish follow-up reminder", zap.String("follow_up_id", followUp.ID), zap.Error(err))
				continue
			}
			published++
		}
	}
	return published, nil
}

// markNotified claims id before publishing so overlapping runs announce it once. A failed
// publish releases the claim and the next run retries.
func (r *FollowUpReminder) markNotified(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.notified[id]; seen {
		return false
	}
	r.notified[id] = struct{}{}
	return true
}

func (r *FollowUpReminder) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notified, id)
}
