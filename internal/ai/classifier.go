package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

// ErrInvalidResponse marks provider output that could not be turned into a
// ClassificationResult.
var ErrInvalidResponse = errors.New("invalid classification response")

// TicketInput is the context handed to a provider.
type TicketInput struct {
	TicketID    string
	Title       string
	Description string
}

// ClassificationResult is the transient outcome of classifying a ticket.
type ClassificationResult struct {
	Category   domain.TicketCategory
	Priority   domain.TicketPriority
	Confidence float64
	Reasoning  string
}

// Classifier is an external text-classification oracle.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, input TicketInput) (ClassificationResult, error)
}

// rawResult mirrors the JSON object the prompt asks for.
type rawResult struct {
	Category        string   `json:"category"`
	Priority        string   `json:"priority"`
	ConfidenceScore *float64 `json:"confidence_score"`
	Reasoning       string   `json:"reasoning"`
}

func (r rawResult) toResult() (ClassificationResult, error) {
	category := domain.TicketCategory(r.Category)
	if !category.Valid() {
		return ClassificationResult{}, fmt.Errorf("%w: unknown category %q", ErrInvalidResponse, r.Category)
	}
	priority := domain.TicketPriority(r.Priority)
	if !priority.Valid() {
		return ClassificationResult{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidResponse, r.Priority)
	}
	if r.ConfidenceScore == nil {
		return ClassificationResult{}, fmt.Errorf("%w: missing confidence_score", ErrInvalidResponse)
	}
	confidence := *r.ConfidenceScore
	if confidence < 0 || confidence > 1 {
		return ClassificationResult{}, fmt.Errorf("%w: confidence_score %v outside [0,1]", ErrInvalidResponse, confidence)
	}
	return ClassificationResult{
		Category:   category,
		Priority:   priority,
		Confidence: confidence,
		Reasoning:  r.Reasoning,
	}, nil
}
