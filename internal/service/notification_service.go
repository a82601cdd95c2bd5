package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
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
	n.dispatcher.Subscribe(events.EventStaffStatusCorrected, n.handleStatusCorrected)
	n.dispatcher.Subscribe(events.EventMovementCreated, n.handleMovement)
	n.dispatcher.Subscribe(events.EventMovementDeleted, n.handleMovement)
	n.dispatcher.Subscribe(events.EventStaffCreated, n.handleStaffChanged)
	n.dispatcher.Subscribe(events.EventStaffUpdated, n.handleStaffChanged)
	n.dispatcher.Subscribe(events.EventStaffDeleted, n.handleStaffChanged)
}

func (n *NotificationService) handleStatusCorrected(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffStatusCorrected", zap.String("staff_id", event.StaffID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMovement(ctx context.Context, event events.Event) error {
	n.logger.Info("MovementChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("staff_id", event.StaffID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStaffChanged(_ context.Context, event events.Event) error {
	n.logger.Info("StaffChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("staff_id", event.StaffID))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("staff_id", event.StaffID),
		zap.String("event_type", string(event.Type)))
}
