package entity

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MaxChips    int             `json:"maxChips"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type UserPlanStatus string

const (
	UserPlanActive    UserPlanStatus = "active"
	UserPlanCancelled UserPlanStatus = "cancelled"
)

// UserPlan links a dashboard user to the plan they are subscribed to.
type UserPlan struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	PlanID    string         `json:"planId"`
	Status    UserPlanStatus `json:"status"`
	StartedAt time.Time      `json:"startedAt"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

type PlanRepositoryInterface interface {
	Create(ctx context.Context, p *Plan) error
	FindByID(ctx context.Context, id string) (*Plan, error)
	List(ctx context.Context, limit, offset int) ([]*Plan, int, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id string) error
}

type UserPlanRepositoryInterface interface {
	// Assign cancels the user's current active plan (if any) and activates planID.
	Assign(ctx context.Context, userID, planID string) (*UserPlan, error)
	FindActiveByUserID(ctx context.Context, userID string) (*UserPlan, error)
}
