package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts domain, framework and generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		var details map[string]any
		if validationErr.Field != "" {
			details = map[string]any{"field": validationErr.Field}
		}
		return NewDomainError("VALIDATION_FAILED", validationErr.Message, http.StatusBadRequest, details)
	}

	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return NewDomainError("INVALID_STATUS_TRANSITION", transitionErr.Error(), http.StatusBadRequest, map[string]any{
			"from":    transitionErr.From,
			"to":      transitionErr.To,
			"allowed": domain.AllowedTransitions(transitionErr.From),
		})
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return &DomainError{
			Code:       "NOT_FOUND",
			Message:    notFoundErr.Error(),
			HTTPStatus: http.StatusNotFound,
			Details:    map[string]any{"id": notFoundErr.ID},
		}
	}

	if errors.Is(err, domain.ErrClassificationFailed) {
		return &DomainError{
			Code:       "CLASSIFICATION_FAILED",
			Message:    "ticket classification failed",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}

	if errors.Is(err, domain.ErrConflict) {
		return &DomainError{
			Code:       "CONFLICT",
			Message:    err.Error(),
			HTTPStatus: http.StatusConflict,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       strings.ToUpper(strings.ReplaceAll(http.StatusText(fiberErr.Code), " ", "_")),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
