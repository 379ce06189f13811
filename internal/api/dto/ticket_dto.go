package dto

import (
	"time"

	"github.com/spec-kit/ticket-classifier/internal/domain"
	"github.com/spec-kit/ticket-classifier/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ClassificationResponse describes how a ticket was classified. Confidence
// and reasoning are only populated right after a provider call.
type ClassificationResponse struct {
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	Confidence float64               `json:"confidence"`
	Reasoning  string                `json:"reasoning"`
}

// TicketResponse represents a ticket.
type TicketResponse struct {
	ID             string                  `json:"id"`
	Title          string                  `json:"title"`
	Description    string                  `json:"description"`
	Status         domain.TicketStatus     `json:"status"`
	Category       *domain.TicketCategory  `json:"category"`
	Priority       *domain.TicketPriority  `json:"priority"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	Classification *ClassificationResponse `json:"classification,omitempty"`
}

// TicketListResponse wraps a page of tickets.
type TicketListResponse struct {
	Data   []TicketResponse `json:"data"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// NewTicketResponse converts a ticket without classification detail.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if category, ok := ticket.Category(); ok {
		resp.Category = &category
	}
	if priority, ok := ticket.Priority(); ok {
		resp.Priority = &priority
	}
	return resp
}

// NewTicketResultResponse converts a service result, including its detail.
func NewTicketResultResponse(result *service.TicketResult) TicketResponse {
	resp := NewTicketResponse(result.Ticket)
	if detail := result.Classification; detail != nil {
		resp.Classification = &ClassificationResponse{
			Category:   detail.Category,
			Priority:   detail.Priority,
			Confidence: detail.Confidence,
			Reasoning:  detail.Reasoning,
		}
	}
	return resp
}
