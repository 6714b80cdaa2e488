package entity

import (
	"context"
	"time"
)

type ChipStatus string

const (
	ChipActive   ChipStatus = "active"
	ChipInactive ChipStatus = "inactive"
	ChipRecovery ChipStatus = "recovery"
)

// WhatsappChip is a WhatsApp-connected phone line kept in inventory.
type WhatsappChip struct {
	ID             string     `json:"id"`
	PhoneNumber    string     `json:"phoneNumber"`
	Label          string     `json:"label"`
	Status         ChipStatus `json:"status"`
	UserID         *string    `json:"userId,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	LastRecoveryAt *time.Time `json:"lastRecoveryAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type ChipRepositoryInterface interface {
	Create(ctx context.Context, c *WhatsappChip) error
	FindByID(ctx context.Context, id string) (*WhatsappChip, error)
	List(ctx context.Context, status ChipStatus, limit, offset int) ([]*WhatsappChip, int, error)
	Update(ctx context.Context, c *WhatsappChip) error
	MarkRecovery(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
