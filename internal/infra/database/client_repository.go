package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const clientColumns = `id, name, email, phone, company, user_id, created_at, updated_at`

type ClientRepository struct {
	DB DBTX
}

func NewClientRepository(db DBTX) *ClientRepository {
	return &ClientRepository{DB: db}
}

// Create inserts the client. A taken email is reported as entity.ErrEmailAlreadyExists
// without raising a database error, so an enclosing transaction stays usable.
func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, company, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`

	var id string
	err := r.DB.QueryRowContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.UserID,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrEmailAlreadyExists
	}
	if err != nil {
		log.Printf("Erro ao inserir cliente %s: %v", c.Phone, err)
		return mapError(err)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	return scanClient(row)
}

func (r *ClientRepository) FindByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE phone = $1`, phone)
	return scanClient(row)
}

func (r *ClientRepository) List(ctx context.Context, f entity.ClientFilter) ([]*entity.Client, int, error) {
	var w where
	if f.UserID != "" {
		w.add("user_id = $%d", f.UserID)
	}

	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM clients`+w.String(), w.args...)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.Limit, f.Offset)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients`+w.String()+` ORDER BY created_at DESC, id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, company = $5, user_id = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Company, c.UserID, c.UpdatedAt)
	if code, constraint := sqlState(err); code == pgUniqueViolation && constraint == "clients_email_key" {
		return entity.ErrEmailAlreadyExists
	}
	return expectOne(res, err)
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id))
}

func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM clients`)
}

func scanClient(s rowScanner) (*entity.Client, error) {
	var c entity.Client
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}
