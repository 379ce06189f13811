package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/events"
)

// EventPublisher fans events out to an external channel. persistence.Redis
// satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService logs domain events and forwards them to a pub/sub channel.
type NotificationService struct {
	dispatcher     events.Dispatcher
	publisher      EventPublisher
	channel        string
	publishTimeout time.Duration
	logger         *zap.Logger
}

// NewNotificationService creates the service. A nil publisher or empty
// channel disables forwarding; events are still logged.
func NewNotificationService(dispatcher events.Dispatcher, publisher EventPublisher, cfg config.RedisConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher:     dispatcher,
		publisher:      publisher,
		channel:        strings.TrimSpace(cfg.EventsChannel),
		publishTimeout: cfg.PublishTimeout(),
		logger:         logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketClassified, n.handleTicketClassified)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleTicketDeleted)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("ticket_id", event.TicketID)}
	if payload, ok := event.Payload.(events.TicketCreatedPayload); ok {
		fields = append(fields,
			zap.String("category", string(payload.Category)),
			zap.String("priority", string(payload.Priority)),
			zap.String("team", payload.Team))
	}
	n.logger.Info("TicketCreated", fields...)
	return n.forward(ctx, event)
}

func (n *NotificationService) handleTicketClassified(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketClassified", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleTicketDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketDeleted", zap.String("ticket_id", event.TicketID))
	return n.forward(ctx, event)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.publisher == nil || n.channel == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	// The publish gets its own short deadline, detached from request cancellation.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(pubCtx, n.channel, body); err != nil {
		n.logger.Warn("event forwarding failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
		return err
	}
	n.logger.Debug("event forwarded",
		zap.String("channel", n.channel),
		zap.String("event_type", string(event.Type)))
	return nil
}
