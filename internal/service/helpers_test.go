package service

import (
	"context"
	"sync"

	"github.com/spec-kit/ticket-classifier/internal/ai"
	"github.com/spec-kit/ticket-classifier/internal/domain"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/repository"
)

// scriptedClassifier returns queued results in order, repeating the last one.
type scriptedClassifier struct {
	mu      sync.Mutex
	results []ai.ClassificationResult
	err     error
	calls   int
	inputs  []ai.TicketInput
}

func (c *scriptedClassifier) Name() string { return "scripted" }

func (c *scriptedClassifier) Classify(_ context.Context, input ai.TicketInput) (ai.ClassificationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.inputs = append(c.inputs, input)
	if c.err != nil {
		return ai.ClassificationResult{}, c.err
	}
	idx := c.calls - 1
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	return c.results[idx], nil
}

func result(category domain.TicketCategory, priority domain.TicketPriority, confidence float64, reasoning string) ai.ClassificationResult {
	return ai.ClassificationResult{Category: category, Priority: priority, Confidence: confidence, Reasoning: reasoning}
}

// countingRepo records write calls made through it.
type countingRepo struct {
	repository.TicketRepository
	saves   int
	updates int
}

func (r *countingRepo) Save(ctx context.Context, t *domain.Ticket) error {
	r.saves++
	return r.TicketRepository.Save(ctx, t)
}

func (r *countingRepo) Update(ctx context.Context, t *domain.Ticket) error {
	r.updates++
	return r.TicketRepository.Update(ctx, t)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
