package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// SupportTicket has its own lifecycle and is never touched by sale classification.
type SupportTicket struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"clientId"`
	UserID      *string        `json:"userId,omitempty"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func NewSupportTicket(clientID, subject, description string, priority TicketPriority) *SupportTicket {
	if priority == "" {
		priority = TicketPriorityMedium
	}
	now := time.Now()
	return &SupportTicket{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Subject:     subject,
		Description: description,
		Priority:    priority,
		Status:      TicketStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type TicketFilter struct {
	Status   TicketStatus
	UserID   string
	ClientID string
	Limit    int
	Offset   int
}

type TicketRepositoryInterface interface {
	Create(ctx context.Context, t *SupportTicket) error
	FindByID(ctx context.Context, id string) (*SupportTicket, error)
	List(ctx context.Context, f TicketFilter) ([]*SupportTicket, int, error)
	Update(ctx context.Context, t *SupportTicket) error
	Delete(ctx context.Context, id string) error
}
