package database

import (
	"context"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const ticketColumns = `id, client_id, user_id, subject, description, priority, status, created_at, updated_at`

type TicketRepository struct {
	DB DBTX
}

func NewTicketRepository(db DBTX) *TicketRepository {
	return &TicketRepository{DB: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *entity.SupportTicket) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO support_tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.ClientID, t.UserID, t.Subject, t.Description, t.Priority, t.Status, t.CreatedAt, t.UpdatedAt)
	return mapError(err)
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*entity.SupportTicket, error) {
	return scanTicket(r.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id = $1`, id))
}

func (r *TicketRepository) List(ctx context.Context, f entity.TicketFilter) ([]*entity.SupportTicket, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.UserID != "" {
		w.add("user_id = $%d", f.UserID)
	}
	if f.ClientID != "" {
		w.add("client_id = $%d", f.ClientID)
	}

	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM support_tickets`+w.String(), w.args...)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.Limit, f.Offset)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+ticketColumns+` FROM support_tickets`+w.String()+` ORDER BY created_at DESC, id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *TicketRepository) Update(ctx context.Context, t *entity.SupportTicket) error {
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE support_tickets
		SET user_id = $2, subject = $3, description = $4, priority = $5, status = $6, updated_at = $7
		WHERE id = $1
	`, t.ID, t.UserID, t.Subject, t.Description, t.Priority, t.Status, t.UpdatedAt))
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM support_tickets WHERE id = $1`, id))
}

func scanTicket(s rowScanner) (*entity.SupportTicket, error) {
	var t entity.SupportTicket
	err := s.Scan(&t.ID, &t.ClientID, &t.UserID, &t.Subject, &t.Description, &t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}
