package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketCategory enumerates the subject areas a ticket can be classified into.
type TicketCategory string

const (
	TicketCategoryTechnical      TicketCategory = "TECHNICAL"
	TicketCategoryBilling        TicketCategory = "BILLING"
	TicketCategoryFeatureRequest TicketCategory = "FEATURE_REQUEST"
	TicketCategoryBugReport      TicketCategory = "BUG_REPORT"
	TicketCategoryGeneral        TicketCategory = "GENERAL"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Statuses lists every ticket status in lifecycle order.
var Statuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Categories lists every ticket category.
var Categories = []TicketCategory{
	TicketCategoryTechnical,
	TicketCategoryBilling,
	TicketCategoryFeatureRequest,
	TicketCategoryBugReport,
	TicketCategoryGeneral,
}

// Priorities lists every priority from lowest to highest.
var Priorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range Statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	for _, candidate := range Priorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a TicketStatus.
func ParseStatus(raw string) (TicketStatus, error) {
	status := TicketStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", NewValidationError("status", "unknown status "+strconv.Quote(raw))
	}
	return status, nil
}

// ParseCategory converts raw input into a TicketCategory.
func ParseCategory(raw string) (TicketCategory, error) {
	category := TicketCategory(strings.ToUpper(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", NewValidationError("category", "unknown category "+strconv.Quote(raw))
	}
	return category, nil
}

// ParsePriority converts raw input into a TicketPriority.
func ParsePriority(raw string) (TicketPriority, error) {
	priority := TicketPriority(strings.ToUpper(strings.TrimSpace(raw)))
	if !priority.Valid() {
		return "", NewValidationError("priority", "unknown priority "+strconv.Quote(raw))
	}
	return priority, nil
}

// Classification pairs a category with a priority. A ticket either carries
// both or neither.
type Classification struct {
	Category TicketCategory
	Priority TicketPriority
}

// Ticket is the aggregate for support requests.
//
// Status and Classification must only be changed through TransitionStatus and
// Classify; the fields are exported so repositories can rehydrate tickets.
type Ticket struct {
	ID             string
	Title          string
	Description    string
	Status         TicketStatus
	Classification *Classification
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MaxTitleLength is the longest title, in characters, that storage accepts.
const MaxTitleLength = 200

// NewTicket builds an open, unclassified ticket.
func NewTicket(title, description string) (*Ticket, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, NewValidationError("title", "ticket title cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, NewValidationError("title", "ticket title cannot exceed "+strconv.Itoa(MaxTitleLength)+" characters")
	}
	if description == "" {
		return nil, NewValidationError("description", "ticket description cannot be empty")
	}
	now := time.Now().UTC()
	return &Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      TicketStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TransitionStatus moves the ticket to target if the lifecycle allows it.
func (t *Ticket) TransitionStatus(target TicketStatus) error {
	if !CanTransition(t.Status, target) {
		return &InvalidTransitionError{From: t.Status, To: target}
	}
	t.Status = target
	t.touch()
	return nil
}

// Classify assigns category and priority. Policy checks happen upstream.
func (t *Ticket) Classify(category TicketCategory, priority TicketPriority) {
	t.Classification = &Classification{Category: category, Priority: priority}
	t.touch()
}

// IsClassified reports whether category and priority are set.
func (t *Ticket) IsClassified() bool {
	return t.Classification != nil
}

// Category returns the assigned category, if any.
func (t *Ticket) Category() (TicketCategory, bool) {
	if t.Classification == nil {
		return "", false
	}
	return t.Classification.Category, true
}

// Priority returns the assigned priority, if any.
func (t *Ticket) Priority() (TicketPriority, bool) {
	if t.Classification == nil {
		return "", false
	}
	return t.Classification.Priority, true
}

func (t *Ticket) touch() {
	now := time.Now().UTC()
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusOpen},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusInProgress},
	TicketStatusClosed:     {},
}

// CanTransition reports whether current -> next is a lifecycle edge.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from current.
func AllowedTransitions(current TicketStatus) []TicketStatus {
	next := allowedTransitions[current]
	out := make([]TicketStatus, len(next))
	copy(out, next)
	return out
}
