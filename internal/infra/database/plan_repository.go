package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const planColumns = `id, name, description, price, max_chips, active, created_at, updated_at`

type PlanRepository struct {
	DB DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{DB: db}
}

func (r *PlanRepository) Create(ctx context.Context, p *entity.Plan) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO plans (`+planColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.Name, p.Description, p.Price, p.MaxChips, p.Active, p.CreatedAt, p.UpdatedAt)
	return mapError(err)
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*entity.Plan, error) {
	return scanPlan(r.DB.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
}

func (r *PlanRepository) List(ctx context.Context, limit, offset int) ([]*entity.Plan, int, error) {
	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM plans`)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+planColumns+` FROM plans ORDER BY price, name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PlanRepository) Update(ctx context.Context, p *entity.Plan) error {
	return expectOne(r.DB.ExecContext(ctx, `
		UPDATE plans
		SET name = $2, description = $3, price = $4, max_chips = $5, active = $6, updated_at = $7
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Price, p.MaxChips, p.Active, p.UpdatedAt))
}

// Delete fails with entity.ErrConflict while a user plan still references the plan.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, id))
}

func scanPlan(s rowScanner) (*entity.Plan, error) {
	var p entity.Plan
	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.MaxChips, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// UserPlanRepository needs a *sql.DB because Assign runs its own transaction.
type UserPlanRepository struct {
	DB *sql.DB
}

func NewUserPlanRepository(db *sql.DB) *UserPlanRepository {
	return &UserPlanRepository{DB: db}
}

func (r *UserPlanRepository) Assign(ctx context.Context, userID, planID string) (*entity.UserPlan, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE user_plans SET status = 'cancelled', expires_at = NOW() WHERE user_id = $1 AND status = 'active'`,
		userID,
	); err != nil {
		return nil, mapError(err)
	}

	up := &entity.UserPlan{
		ID:        uuid.New().String(),
		UserID:    userID,
		PlanID:    planID,
		Status:    entity.UserPlanActive,
		StartedAt: time.Now(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_plans (id, user_id, plan_id, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`, up.ID, up.UserID, up.PlanID, up.Status, up.StartedAt); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return up, nil
}

func (r *UserPlanRepository) FindActiveByUserID(ctx context.Context, userID string) (*entity.UserPlan, error) {
	var up entity.UserPlan
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, plan_id, status, started_at, expires_at
		FROM user_plans
		WHERE user_id = $1 AND status = 'active'
	`, userID).Scan(&up.ID, &up.UserID, &up.PlanID, &up.Status, &up.StartedAt, &up.ExpiresAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &up, nil
}
