package usecase

import (
	"context"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
)

// ClassificationStore runs fn inside one database transaction holding an exclusive lock
// on phone. Repositories handed to fn are bound to that transaction; returning an error
// rolls everything back.
type ClassificationStore interface {
	WithinPhoneLock(ctx context.Context, phone string, fn func(ctx context.Context, clients entity.ClientRepositoryInterface, sales entity.SaleRepositoryInterface) error) error
}

type QueueProducerInterface interface {
	PublishSaleEvent(ctx context.Context, payload queue.SaleEventPayload) error
}

// TicketNotifier sends the support emails. Implementations must not block the caller.
type TicketNotifier interface {
	TicketOpened(t *entity.SupportTicket, c *entity.Client)
	TicketClosed(t *entity.SupportTicket, c *entity.Client)
}

// SessionCache sits in front of the sessions table.
type SessionCache interface {
	Get(key string) (*entity.Session, bool)
	Set(key string, s *entity.Session)
	Delete(key string)
}

// WebhookTrigger delivers one event to one webhook synchronously.
type WebhookTrigger interface {
	Trigger(ctx context.Context, w *entity.Webhook, event string, payload any) (*entity.WebhookEvent, error)
}
