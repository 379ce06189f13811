package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Typed errors below match them with errors.Is.
var (
	ErrValidation              = errors.New("validation failed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrClassificationFailed    = errors.New("classification failed")
	ErrNotFound                = errors.New("not found")
	ErrConflict                = errors.New("conflict")
)

// ValidationError reports caller-correctable input problems.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidTransitionError reports an edge missing from the ticket lifecycle.
type InvalidTransitionError struct {
	From TicketStatus
	To   TicketStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// ClassificationError wraps any failure raised while classifying a ticket.
type ClassificationError struct {
	TicketID string
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("failed to classify ticket %s: %v", e.TicketID, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassificationFailed
}

// NotFoundError reports that a referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewTicketNotFound builds a NotFoundError for a ticket id.
func NewTicketNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "ticket", ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
