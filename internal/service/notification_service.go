package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mahajanautomation/crm-backend/internal/config"
	"github.com/mahajanautomation/crm-backend/internal/events"
)

// NotificationService emits notifications for domain events. Delivery is stubbed out with logs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLeadCreated, n.handleLeadCreated)
	n.dispatcher.Subscribe(events.EventLeadAssigned, n.handleLeadAssigned)
	n.dispatcher.Subscribe(events.EventLeadStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventProposalStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventProposalCreated, n.handleProposalCreated)
	n.dispatcher.Subscribe(events.EventFollowUpAdded, n.handleNoteAdded)
	n.dispatcher.Subscribe(events.EventMemoAdded, n.handleNoteAdded)
	n.dispatcher.Subscribe(events.EventFollowUpDue, n.handleFollowUpDue)
	n.dispatcher.Subscribe(events.EventLeadDeleted, n.handleDeleted)
	n.dispatcher.Subscribe(events.EventProposalDeleted, n.handleDeleted)
}

func (n *NotificationService) handleLeadCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadCreated", zap.String("lead_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadAssigned", zap.String("lead_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("StatusChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleProposalCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ProposalCreated", zap.String("proposal_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNoteAdded(ctx context.Context, event events.Event) error {
	n.logger.Debug("NoteAdded",
		zap.String("event_type", string(event.Type)),
		zap.String("lead_id", event.SubjectID),
		zap.String("actor", event.Actor.UserID))
	return nil
}

func (n *NotificationService) handleFollowUpDue(ctx context.Context, event events.Event) error {
	n.logger.Info("FollowUpDue", zap.String("lead_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("RecordDeleted",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor", event.Actor.UserID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
