package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/ai"
	"github.com/spec-kit/ticket-classifier/internal/domain"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/repository"
)

// DefaultListLimit applies when a caller asks for a non-positive page size.
const DefaultListLimit = 100

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets      repository.TicketRepository
	classifier   *ClassificationService
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	maxListLimit int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	Classifier   *ClassificationService
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	MaxListLimit int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
}

// ClassificationDetail is the classification as reported to callers.
// Confidence and Reasoning are only known right after a provider call; they
// are zero for tickets loaded from storage.
type ClassificationDetail struct {
	Category   domain.TicketCategory
	Priority   domain.TicketPriority
	Confidence float64
	Reasoning  string
}

// TicketResult pairs a ticket with its classification detail, if any.
type TicketResult struct {
	Ticket         *domain.Ticket
	Classification *ClassificationDetail
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxLimit := deps.MaxListLimit
	if maxLimit <= 0 {
		maxLimit = DefaultListLimit
	}
	return &TicketService{
		tickets:      deps.TicketRepo,
		classifier:   deps.Classifier,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		maxListLimit: maxLimit,
	}
}

// CreateTicket validates, classifies, routes and stores a new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*TicketResult, error) {
	ticket, err := domain.NewTicket(input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	result, err := s.classifier.Classify(ctx, ticket)
	if err != nil {
		return nil, err
	}
	ticket.Classify(result.Category, result.Priority)

	team := domain.TeamFor(result.Category)
	s.logger.Info("ticket routed",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(result.Category)),
		zap.String("team", team))

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Title:    ticket.Title,
		Category: result.Category,
		Priority: result.Priority,
		Team:     team,
	})
	return &TicketResult{Ticket: ticket, Classification: detailFromResult(result)}, nil
}

// GetTicket returns the ticket or nil when no ticket has the id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*TicketResult, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, nil
	}
	return storedResult(ticket), nil
}

// ListTickets returns a page of tickets, newest first, without
// classification detail.
func (s *TicketService) ListTickets(ctx context.Context, limit, offset int) ([]*domain.Ticket, error) {
	limit, offset = s.ListWindow(limit, offset)
	return s.tickets.ListAll(ctx, limit, offset)
}

// ListWindow returns the page ListTickets actually reads for the requested
// limit and offset.
func (s *TicketService) ListWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ReclassifyTicket re-runs classification regardless of ticket status.
func (s *TicketService) ReclassifyTicket(ctx context.Context, id string) (*TicketResult, error) {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := ticket.Classification
	result, err := s.classifier.Classify(ctx, ticket)
	if err != nil {
		return nil, err
	}
	ticket.Classify(result.Category, result.Priority)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	team := domain.TeamFor(result.Category)
	payload := events.TicketClassifiedPayload{
		Category: result.Category,
		Priority: result.Priority,
		Team:     team,
	}
	if previous != nil {
		payload.OldCategory = previous.Category
		payload.OldPriority = previous.Priority
	}
	s.logger.Info("ticket reclassified",
		zap.String("ticket_id", ticket.ID),
		zap.String("status", string(ticket.Status)),
		zap.String("category", string(result.Category)),
		zap.String("priority", string(result.Priority)),
		zap.String("team", team))
	s.publishEvent(ctx, events.EventTicketClassified, ticket.ID, payload)

	return &TicketResult{Ticket: ticket, Classification: detailFromResult(result)}, nil
}

// UpdateStatus moves a ticket along its lifecycle.
func (s *TicketService) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*TicketResult, error) {
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	if err := ticket.TransitionStatus(status); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("ticket status changed",
		zap.String("ticket_id", ticket.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)))
	s.publishEvent(ctx, events.EventTicketStatusChanged, ticket.ID, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: status,
	})
	return storedResult(ticket), nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	deleted, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NewTicketNotFound(id)
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	s.publishEvent(ctx, events.EventTicketDeleted, id, nil)
	return nil
}

func (s *TicketService) loadTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.NewTicketNotFound(id)
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, eventType events.EventType, ticketID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, ticketID, ActorFromContext(ctx), payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(eventType)),
			zap.String("ticket_id", ticketID),
			zap.Error(err))
	}
}

func detailFromResult(result ai.ClassificationResult) *ClassificationDetail {
	return &ClassificationDetail{
		Category:   result.Category,
		Priority:   result.Priority,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
	}
}

// storedResult describes a ticket loaded from storage, where only category
// and priority survive.
func storedResult(ticket *domain.Ticket) *TicketResult {
	res := &TicketResult{Ticket: ticket}
	if ticket.Classification != nil {
		res.Classification = &ClassificationDetail{
			Category: ticket.Classification.Category,
			Priority: ticket.Classification.Priority,
		}
	}
	return res
}
