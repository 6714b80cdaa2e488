package database

import (
	"context"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const userColumns = `id, name, email, password_hash, role, require_password_change, created_at, updated_at`

type UserRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.RequirePasswordChange, u.CreatedAt, u.UpdatedAt)
	return mapError(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE users SET name = $2, email = $3, role = $4, updated_at = $5 WHERE id = $1
	`, u.ID, u.Name, u.Email, u.Role, u.UpdatedAt))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, requireChange bool) error {
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, require_password_change = $3, updated_at = NOW() WHERE id = $1
	`, id, hash, requireChange))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.DB, `SELECT COUNT(*) FROM users`)
}

func scanUser(s rowScanner) (*entity.User, error) {
	var u entity.User
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.RequirePasswordChange, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

type SessionRepository struct {
	DB DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)
	`, s.TokenHash, s.UserID, s.ExpiresAt, s.CreatedAt)
	return mapError(err)
}

func (r *SessionRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	var s entity.Session
	err := r.DB.QueryRowContext(ctx, `
		SELECT token_hash, user_id, expires_at, created_at FROM sessions WHERE token_hash = $1
	`, tokenHash).Scan(&s.TokenHash, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash))
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return mapError(err)
}

// DeleteExpired purges sessions past their expiry.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
