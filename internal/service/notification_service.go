package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskflow/task-service/internal/config"
	"github.com/taskflow/task-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
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
	n.dispatcher.Subscribe(events.EventProjectCreated, n.handleProjectEvent)
	n.dispatcher.Subscribe(events.EventProjectDeleted, n.handleProjectEvent)
	n.dispatcher.Subscribe(events.EventTaskCreated, n.handleTaskEvent)
	n.dispatcher.Subscribe(events.EventTaskStatusMoved, n.handleTaskEvent)
	n.dispatcher.Subscribe(events.EventTaskCommentAdded, n.handleTaskEvent)
}

func (n *NotificationService) handleProjectEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("project event",
		zap.String("type", string(event.Type)),
		zap.String("project_id", event.ProjectID),
		zap.String("actor", event.Actor.Email))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTaskEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("task event",
		zap.String("type", string(event.Type)),
		zap.String("project_id", event.ProjectID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("project_id", event.ProjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("project_id", event.ProjectID),
		zap.String("event_type", string(event.Type)))
}
