package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

type TicketUseCase struct {
	Tickets  entity.TicketRepositoryInterface
	Clients  entity.ClientRepositoryInterface
	Notifier TicketNotifier
}

func NewTicketUseCase(tickets entity.TicketRepositoryInterface, clients entity.ClientRepositoryInterface, notifier TicketNotifier) *TicketUseCase {
	return &TicketUseCase{Tickets: tickets, Clients: clients, Notifier: notifier}
}

func (uc *TicketUseCase) Create(ctx context.Context, in CreateTicketInput) (*entity.SupportTicket, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	client, err := uc.Clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, notFoundOr("client", in.ClientID, "find client", err)
	}

	t := entity.NewSupportTicket(client.ID, strings.TrimSpace(in.Subject), in.Description, entity.TicketPriority(in.Priority))
	t.UserID = in.UserID

	if err := uc.Tickets.Create(ctx, t); err != nil {
		return nil, persistence("create ticket", err)
	}

	log.Printf("🎫 [SUPPORT] ticket %s aberto para o cliente %s (%s)", t.ID, client.ID, t.Priority)
	if uc.Notifier != nil {
		uc.Notifier.TicketOpened(t, client)
	}
	return t, nil
}

func (uc *TicketUseCase) Get(ctx context.Context, id string) (*entity.SupportTicket, error) {
	t, err := uc.Tickets.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("ticket", id, "find ticket", err)
	}
	return t, nil
}

func (uc *TicketUseCase) List(ctx context.Context, f entity.TicketFilter) (*Page[*entity.SupportTicket], error) {
	switch f.Status {
	case "", entity.TicketStatusOpen, entity.TicketStatusInProgress, entity.TicketStatusClosed:
	default:
		return nil, fieldError("status", "must be one of: open, in_progress, closed")
	}
	f.Limit, f.Offset = Paginate(f.Limit, f.Offset)

	items, total, err := uc.Tickets.List(ctx, f)
	if err != nil {
		return nil, persistence("list tickets", err)
	}
	return newPage(items, total, f.Limit, f.Offset), nil
}

func (uc *TicketUseCase) Update(ctx context.Context, id string, in UpdateTicketInput) (*entity.SupportTicket, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	t, err := uc.Tickets.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("ticket", id, "find ticket", err)
	}
	wasClosed := t.Status == entity.TicketStatusClosed

	if in.UserID != nil {
		t.UserID = in.UserID
	}
	if in.Subject != nil {
		t.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		t.Priority = entity.TicketPriority(*in.Priority)
	}
	if in.Status != nil {
		t.Status = entity.TicketStatus(*in.Status)
	}
	t.UpdatedAt = time.Now()

	if err := uc.Tickets.Update(ctx, t); err != nil {
		return nil, notFoundOr("ticket", id, "update ticket", err)
	}

	if !wasClosed && t.Status == entity.TicketStatusClosed && uc.Notifier != nil {
		client, err := uc.Clients.FindByID(ctx, t.ClientID)
		if err != nil {
			log.Printf("⚠️ [SUPPORT] ticket %s fechado, cliente não carregado: %v", t.ID, err)
		} else {
			uc.Notifier.TicketClosed(t, client)
		}
	}
	return t, nil
}

func (uc *TicketUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Tickets.Delete(ctx, id); err != nil {
		return notFoundOr("ticket", id, "delete ticket", err)
	}
	return nil
}
