package database

import (
	"context"
	"encoding/json"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const webhookColumns = `id, name, url, events, secret, active, created_at, updated_at`

type WebhookRepository struct {
	DB DBTX
}

func NewWebhookRepository(db DBTX) *WebhookRepository {
	return &WebhookRepository{DB: db}
}

func (r *WebhookRepository) Create(ctx context.Context, w *entity.Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO webhooks (`+webhookColumns+`)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8)
	`, w.ID, w.Name, w.URL, string(events), w.Secret, w.Active, w.CreatedAt, w.UpdatedAt)
	return mapError(err)
}

func (r *WebhookRepository) FindByID(ctx context.Context, id string) (*entity.Webhook, error) {
	return scanWebhook(r.DB.QueryRowContext(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE id = $1`, id))
}

func (r *WebhookRepository) List(ctx context.Context, limit, offset int) ([]*entity.Webhook, int, error) {
	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM webhooks`)
	if err != nil {
		return nil, 0, err
	}
	out, err := r.query(ctx, `SELECT `+webhookColumns+` FROM webhooks ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	return out, total, err
}

// ListActiveByEvent returns the active webhooks whose events array contains event.
func (r *WebhookRepository) ListActiveByEvent(ctx context.Context, event string) ([]*entity.Webhook, error) {
	filter, err := json.Marshal([]string{event})
	if err != nil {
		return nil, err
	}
	return r.query(ctx, `SELECT `+webhookColumns+` FROM webhooks WHERE active AND events @> $1::jsonb ORDER BY created_at`, string(filter))
}

func (r *WebhookRepository) Update(ctx context.Context, w *entity.Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return err
	}
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE webhooks
		SET name = $2, url = $3, events = $4::jsonb, secret = $5, active = $6, updated_at = $7
		WHERE id = $1
	`, w.ID, w.Name, w.URL, string(events), w.Secret, w.Active, w.UpdatedAt))
}

func (r *WebhookRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM webhooks WHERE id = $1`, id))
}

func (r *WebhookRepository) query(ctx context.Context, query string, args ...any) ([]*entity.Webhook, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanWebhook(s rowScanner) (*entity.Webhook, error) {
	var (
		w      entity.Webhook
		events []byte
	)
	if err := s.Scan(&w.ID, &w.Name, &w.URL, &events, &w.Secret, &w.Active, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if err := json.Unmarshal(events, &w.Events); err != nil {
		return nil, err
	}
	return &w, nil
}

type WebhookEventRepository struct {
	DB DBTX
}

func NewWebhookEventRepository(db DBTX) *WebhookEventRepository {
	return &WebhookEventRepository{DB: db}
}

func (r *WebhookEventRepository) Create(ctx context.Context, e *entity.WebhookEvent) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO webhook_events (id, webhook_id, event, payload, status, response_code, error, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8)
	`, e.ID, e.WebhookID, e.Event, string(e.Payload), e.Status, e.ResponseCode, e.Error, e.CreatedAt)
	return mapError(err)
}

func (r *WebhookEventRepository) ListByWebhookID(ctx context.Context, webhookID string, limit, offset int) ([]*entity.WebhookEvent, int, error) {
	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM webhook_events WHERE webhook_id = $1`, webhookID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, webhook_id, event, payload, status, response_code, error, created_at
		FROM webhook_events
		WHERE webhook_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, webhookID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.WebhookEvent
	for rows.Next() {
		var (
			e       entity.WebhookEvent
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.WebhookID, &e.Event, &payload, &e.Status, &e.ResponseCode, &e.Error, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Payload = payload
		out = append(out, &e)
	}
	return out, total, rows.Err()
}
