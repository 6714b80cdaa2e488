package database

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const chipColumns = `id, phone_number, label, status, user_id, notes, last_recovery_at, created_at, updated_at`

type ChipRepository struct {
	DB DBTX
}

func NewChipRepository(db DBTX) *ChipRepository {
	return &ChipRepository{DB: db}
}

func (r *ChipRepository) Create(ctx context.Context, c *entity.WhatsappChip) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO whatsapp_chips (`+chipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.ID, c.PhoneNumber, c.Label, c.Status, c.UserID, c.Notes, c.LastRecoveryAt, c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

func (r *ChipRepository) FindByID(ctx context.Context, id string) (*entity.WhatsappChip, error) {
	return scanChip(r.DB.QueryRowContext(ctx, `SELECT `+chipColumns+` FROM whatsapp_chips WHERE id = $1`, id))
}

func (r *ChipRepository) List(ctx context.Context, status entity.ChipStatus, limit, offset int) ([]*entity.WhatsappChip, int, error) {
	var w where
	if status != "" {
		w.add("status = $%d", status)
	}

	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM whatsapp_chips`+w.String(), w.args...)
	if err != nil {
		return nil, 0, err
	}

	page, args := w.page(limit, offset)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+chipColumns+` FROM whatsapp_chips`+w.String()+` ORDER BY created_at, id`+page, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.WhatsappChip
	for rows.Next() {
		c, err := scanChip(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ChipRepository) Update(ctx context.Context, c *entity.WhatsappChip) error {
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE whatsapp_chips
		SET phone_number = $2, label = $3, status = $4, user_id = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.PhoneNumber, c.Label, c.Status, c.UserID, c.Notes, c.UpdatedAt))
}

func (r *ChipRepository) MarkRecovery(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE whatsapp_chips SET status = 'recovery', last_recovery_at = $2, updated_at = $2 WHERE id = $1
	`, id, at))
}

func (r *ChipRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM whatsapp_chips WHERE id = $1`, id))
}

func scanChip(s rowScanner) (*entity.WhatsappChip, error) {
	var c entity.WhatsappChip
	err := s.Scan(&c.ID, &c.PhoneNumber, &c.Label, &c.Status, &c.UserID, &c.Notes, &c.LastRecoveryAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}
