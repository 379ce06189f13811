package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spec-kit/ticket-classifier/internal/domain"
)

type sqliteTicketRepository struct {
	db *sql.DB
}

// NewSQLiteTicketRepository returns a SQLite-backed implementation.
// Timestamps are stored as unix nanoseconds.
func NewSQLiteTicketRepository(db *sql.DB) TicketRepository {
	return &sqliteTicketRepository{db: db}
}

const sqliteUpsertTicketQuery = `
        INSERT INTO tickets (id, title, description, status, category, priority, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            title=excluded.title,
            description=excluded.description,
            status=excluded.status,
            category=excluded.category,
            priority=excluded.priority,
            updated_at=excluded.updated_at`

func (r *sqliteTicketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	return r.upsert(ctx, ticket)
}

func (r *sqliteTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	return r.upsert(ctx, ticket)
}

func (r *sqliteTicketRepository) upsert(ctx context.Context, ticket *domain.Ticket) error {
	category, priority := classificationColumns(ticket)
	_, err := r.db.ExecContext(ctx, sqliteUpsertTicketQuery,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		category,
		priority,
		ticket.CreatedAt.UnixNano(),
		ticket.UpdatedAt.UnixNano(),
	)
	return err
}

func (r *sqliteTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, category, priority, created_at, updated_at
        FROM tickets WHERE id = ?`

	ticket, err := scanSQLiteTicket(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *sqliteTicketRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, category, priority, created_at, updated_at
        FROM tickets ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanSQLiteTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func (r *sqliteTicketRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanSQLiteTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket               domain.Ticket
		status               string
		category, priority   sql.NullString
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&category,
		&priority,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Status = domain.TicketStatus(status)
	if category.Valid && priority.Valid {
		ticket.Classification = &domain.Classification{
			Category: domain.TicketCategory(category.String),
			Priority: domain.TicketPriority(priority.String),
		}
	}
	ticket.CreatedAt = time.Unix(0, createdAt).UTC()
	ticket.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &ticket, nil
}
