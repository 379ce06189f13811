package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
//
// Save and Update are both upserts keyed by ticket id. GetByID returns a nil
// ticket and a nil error when no ticket has the given id. ListAll orders by
// creation time, newest first.
type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context, limit, offset int) ([]*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository returns a Postgres-backed implementation.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const upsertTicketQuery = `
        INSERT INTO tickets (id, title, description, status, category, priority, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (id) DO UPDATE SET
            title=EXCLUDED.title,
            description=EXCLUDED.description,
            status=EXCLUDED.status,
            category=EXCLUDED.category,
            priority=EXCLUDED.priority,
            updated_at=EXCLUDED.updated_at`

func (r *ticketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	return r.upsert(ctx, ticket)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	return r.upsert(ctx, ticket)
}

func (r *ticketRepository) upsert(ctx context.Context, ticket *domain.Ticket) error {
	category, priority := classificationColumns(ticket)
	_, err := r.pool.Exec(ctx, upsertTicketQuery,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		category,
		priority,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, category, priority, created_at, updated_at
        FROM tickets WHERE id::text=$1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// listTicketsQuery breaks created_at ties with the insertion sequence.
const listTicketsQuery = `
        SELECT id, title, description, status, category, priority, created_at, updated_at
        FROM tickets ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`

func (r *ticketRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, listTicketsQuery, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id::text=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket             domain.Ticket
		status             string
		category, priority *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&category,
		&priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatus(status)
	ticket.Classification = classificationFromColumns(category, priority)
	ticket.CreatedAt = ticket.CreatedAt.UTC()
	ticket.UpdatedAt = ticket.UpdatedAt.UTC()
	return &ticket, nil
}

func classificationColumns(ticket *domain.Ticket) (*string, *string) {
	if ticket.Classification == nil {
		return nil, nil
	}
	category := string(ticket.Classification.Category)
	priority := string(ticket.Classification.Priority)
	return &category, &priority
}

func classificationFromColumns(category, priority *string) *domain.Classification {
	if category == nil || priority == nil {
		return nil
	}
	return &domain.Classification{
		Category: domain.TicketCategory(*category),
		Priority: domain.TicketPriority(*priority),
	}
}
