package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

type memoryTicket struct {
	ticket domain.Ticket
	seq    uint64
}

// MemoryTicketRepository keeps tickets in process memory. Stored tickets are
// copies, so callers cannot mutate them without calling Update.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]memoryTicket
	nextSeq uint64
}

// NewMemoryTicketRepository returns an empty in-memory repository.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]memoryTicket)}
}

func (r *MemoryTicketRepository) Save(_ context.Context, ticket *domain.Ticket) error {
	r.put(ticket)
	return nil
}

func (r *MemoryTicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.put(ticket)
	return nil
}

func (r *MemoryTicketRepository) put(ticket *domain.Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.tickets[ticket.ID]
	if !ok {
		r.nextSeq++
		entry.seq = r.nextSeq
	}
	entry.ticket = cloneTicket(ticket)
	r.tickets[ticket.ID] = entry
}

func (r *MemoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	ticket := cloneTicket(&entry.ticket)
	return &ticket, nil
}

func (r *MemoryTicketRepository) ListAll(_ context.Context, limit, offset int) ([]*domain.Ticket, error) {
	r.mu.RLock()
	entries := make([]memoryTicket, 0, len(r.tickets))
	for _, entry := range r.tickets {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.ticket.CreatedAt.Equal(b.ticket.CreatedAt) {
			return a.ticket.CreatedAt.After(b.ticket.CreatedAt)
		}
		return a.seq > b.seq
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []*domain.Ticket{}, nil
	}
	end := len(entries)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}

	tickets := make([]*domain.Ticket, 0, end-offset)
	for _, entry := range entries[offset:end] {
		ticket := cloneTicket(&entry.ticket)
		tickets = append(tickets, &ticket)
	}
	return tickets, nil
}

func (r *MemoryTicketRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[id]; !ok {
		return false, nil
	}
	delete(r.tickets, id)
	return true, nil
}

// Ping always succeeds.
func (r *MemoryTicketRepository) Ping(context.Context) error {
	return nil
}

func cloneTicket(ticket *domain.Ticket) domain.Ticket {
	out := *ticket
	if ticket.Classification != nil {
		c := *ticket.Classification
		out.Classification = &c
	}
	return out
}
