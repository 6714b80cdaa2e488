package entity

import (
	"context"
	"encoding/json"
	"time"
)

// Outbound event names a webhook can subscribe to.
const (
	EventSalePending   = "sale.pending"
	EventSaleRealized  = "sale.realized"
	EventSaleRecovered = "sale.recovered"
	EventSaleLost      = "sale.lost"
	EventWebhookTest   = "webhook.test"
)

var WebhookEventNames = []string{EventSalePending, EventSaleRealized, EventSaleRecovered, EventSaleLost, EventWebhookTest}

func SaleEventName(status SaleStatus) string {
	return "sale." + string(status)
}

// Webhook is an admin-configured outbound endpoint, distinct from the inbound sales webhook.
type Webhook struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Events    []string  `json:"events"`
	Secret    string    `json:"secret,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w *Webhook) Subscribes(event string) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// WebhookEvent is one delivery attempt of an outbound webhook.
type WebhookEvent struct {
	ID           string          `json:"id"`
	WebhookID    string          `json:"webhookId"`
	Event        string          `json:"event"`
	Payload      json.RawMessage `json:"payload"`
	Status       DeliveryStatus  `json:"status"`
	ResponseCode *int            `json:"responseCode,omitempty"`
	Error        *string         `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type WebhookRepositoryInterface interface {
	Create(ctx context.Context, w *Webhook) error
	FindByID(ctx context.Context, id string) (*Webhook, error)
	List(ctx context.Context, limit, offset int) ([]*Webhook, int, error)
	ListActiveByEvent(ctx context.Context, event string) ([]*Webhook, error)
	Update(ctx context.Context, w *Webhook) error
	Delete(ctx context.Context, id string) error
}

type WebhookEventRepositoryInterface interface {
	Create(ctx context.Context, e *WebhookEvent) error
	ListByWebhookID(ctx context.Context, webhookID string, limit, offset int) ([]*WebhookEvent, int, error)
}
