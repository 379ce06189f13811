package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-classifier/internal/ai"
	"github.com/spec-kit/ticket-classifier/internal/domain"
	"github.com/spec-kit/ticket-classifier/internal/observability"
)

// ClassificationService runs the provider and enforces category/priority policy.
type ClassificationService struct {
	classifier ai.Classifier
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClassificationService constructs the orchestrator. metrics may be nil.
func NewClassificationService(classifier ai.Classifier, metrics *observability.Metrics, logger *zap.Logger) *ClassificationService {
	return &ClassificationService{
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
	}
}

// Classify asks the provider for a category and priority. Provider failures
// come back as *domain.ClassificationError and are never retried. A
// disallowed combination keeps the category and falls back to the
// category's default priority.
func (s *ClassificationService) Classify(ctx context.Context, ticket *domain.Ticket) (ai.ClassificationResult, error) {
	started := time.Now()
	result, err := s.classifier.Classify(ctx, ai.TicketInput{
		TicketID:    ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
	})
	s.metrics.ObserveProvider(s.classifier.Name(), time.Since(started))

	if err != nil {
		s.metrics.RecordClassification(observability.ClassificationFailed)
		s.logger.Error("ticket classification failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("provider", s.classifier.Name()),
			zap.Error(err))
		return ai.ClassificationResult{}, &domain.ClassificationError{TicketID: ticket.ID, Err: err}
	}

	if !domain.ValidateCombination(result.Category, result.Priority) {
		adjusted := domain.DefaultPriorityFor(result.Category)
		s.logger.Warn("classification adjusted by policy",
			zap.String("ticket_id", ticket.ID),
			zap.String("category", string(result.Category)),
			zap.String("original_priority", string(result.Priority)),
			zap.String("adjusted_priority", string(adjusted)))
		result.Priority = adjusted
		s.metrics.RecordClassification(observability.ClassificationAdjusted)
		return result, nil
	}

	s.metrics.RecordClassification(observability.ClassificationOK)
	s.logger.Info("ticket classified",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(result.Category)),
		zap.String("priority", string(result.Priority)),
		zap.Float64("confidence", result.Confidence))
	return result, nil
}
