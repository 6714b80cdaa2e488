package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
)

const originWebhook = "WEBHOOK_SALES"

type ClassifySaleUseCase struct {
	Store    ClassificationStore
	Producer QueueProducerInterface
}

func NewClassifySaleUseCase(store ClassificationStore, producer QueueProducerInterface) *ClassifySaleUseCase {
	return &ClassifySaleUseCase{
		Store:    store,
		Producer: producer,
	}
}

// classification is what the locked transaction produced, kept for the post-commit publish.
type classification struct {
	client         *entity.Client
	sale           *entity.Sale
	previousStatus entity.SaleStatus
}

// Execute turns one payment-provider event into client/sale writes.
//
// Unknown event types return Success=false with a nil error. Malformed input returns
// ValidationErrors or *ParseError before anything is written. Database failures return
// *PersistenceError after the transaction has been rolled back.
func (uc *ClassifySaleUseCase) Execute(ctx context.Context, input SalesEventInput) (*ClassifySaleOutput, error) {
	if input.Event == "" {
		return nil, fieldError("event", "is required")
	}
	if !isKnownEvent(input.Event) {
		log.Printf("⚠️ [WEBHOOK] evento ignorado: %s", input.Event)
		return &ClassifySaleOutput{
			Success: false,
			Message: fmt.Sprintf("event %s not handled", input.Event),
		}, nil
	}

	if err := Validate(input); err != nil {
		return nil, err
	}

	value, err := ParseBRL(input.TotalPrice)
	if err != nil {
		return nil, err
	}

	phone := entity.NormalizePhone(input.Customer.Phone)
	product := strings.TrimSpace(input.Products[0].Name)

	var res classification
	err = uc.Store.WithinPhoneLock(ctx, phone, func(ctx context.Context, clients entity.ClientRepositoryInterface, sales entity.SaleRepositoryInterface) error {
		client, err := resolveClient(ctx, clients, input.Customer)
		if err != nil {
			return err
		}
		res.client = client

		switch input.Event {
		case EventPixGenerated:
			res.sale, err = createSale(ctx, sales, client.ID, product, value, entity.SaleStatusPending, input)
		case EventAbandonedCart:
			input.SaleID = ""
			res.sale, err = createSale(ctx, sales, client.ID, product, value, entity.SaleStatusLost, input)
		case EventSaleApproved:
			res.sale, res.previousStatus, err = approveSale(ctx, sales, client.ID, product, value, input)
		}
		return err
	})
	if err != nil {
		var (
			verrs ValidationErrors
			pe    *PersistenceError
		)
		switch {
		case errors.As(err, &verrs):
			return nil, verrs
		case errors.As(err, &pe):
			return nil, err
		}
		return nil, persistence("classify sale", err)
	}

	log.Printf("✅ [WEBHOOK] %s: venda %s do cliente %s agora %s", input.Event, res.sale.ID, res.client.ID, res.sale.Status)
	uc.publish(ctx, res)

	return &ClassifySaleOutput{
		Success:  true,
		Message:  "event processed",
		SaleID:   res.sale.ID,
		ClientID: res.client.ID,
		Status:   res.sale.Status,
	}, nil
}

func isKnownEvent(event string) bool {
	switch event {
	case EventPixGenerated, EventSaleApproved, EventAbandonedCart:
		return true
	}
	return false
}

// resolveClient finds the client by phone or creates it. A supplied email that already
// belongs to another client is swapped for the phone placeholder.
func resolveClient(ctx context.Context, clients entity.ClientRepositoryInterface, in CustomerInput) (*entity.Client, error) {
	phone := entity.NormalizePhone(in.Phone)

	client, err := clients.FindByPhone(ctx, phone)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return nil, persistence("find client by phone", err)
	}

	client, err = entity.NewClient(in.Name, in.Email, phone)
	if err != nil {
		return nil, fieldError("customer", err.Error())
	}

	err = clients.Create(ctx, client)
	if errors.Is(err, entity.ErrEmailAlreadyExists) {
		log.Printf("⚠️ [WEBHOOK] email %s já pertence a outro cliente, usando placeholder", client.Email)
		client.Email = entity.PlaceholderEmail(phone)
		err = clients.Create(ctx, client)
	}
	if err != nil {
		return nil, persistence("create client", err)
	}
	return client, nil
}

func createSale(ctx context.Context, sales entity.SaleRepositoryInterface, clientID, product string, value decimal.Decimal, status entity.SaleStatus, in SalesEventInput) (*entity.Sale, error) {
	sale := entity.NewSale(clientID, product, value, status)
	sale.ExternalSaleID = optional(in.SaleID)
	sale.PaymentMethod = optional(in.PaymentMethod)

	if err := sales.Create(ctx, sale); err != nil {
		return nil, persistence("create sale", err)
	}
	return sale, nil
}

// approveSale closes the latest open sale (lost -> recovered, pending -> realized) or, when
// there is none, records a new realized sale.
func approveSale(ctx context.Context, sales entity.SaleRepositoryInterface, clientID, product string, value decimal.Decimal, in SalesEventInput) (*entity.Sale, entity.SaleStatus, error) {
	open, err := sales.FindLatestOpenByClientID(ctx, clientID)
	if errors.Is(err, entity.ErrNotFound) {
		sale, err := createSale(ctx, sales, clientID, product, value, entity.SaleStatusRealized, in)
		return sale, "", err
	}
	if err != nil {
		return nil, "", persistence("find open sale", err)
	}

	previous := open.Status
	if previous == entity.SaleStatusLost {
		open.Status = entity.SaleStatusRecovered
	} else {
		open.Status = entity.SaleStatusRealized
	}
	open.Product = product
	open.Value = value
	open.ExternalSaleID = optional(in.SaleID)
	if pm := optional(in.PaymentMethod); pm != nil {
		open.PaymentMethod = pm
	}
	open.UpdatedAt = time.Now()

	if err := sales.Update(ctx, open); err != nil {
		return nil, "", persistence("update sale", err)
	}
	return open, previous, nil
}

func (uc *ClassifySaleUseCase) publish(ctx context.Context, res classification) {
	if uc.Producer == nil {
		return
	}
	payload := saleEventPayload(res.client, res.sale, res.previousStatus, originWebhook)
	if err := uc.Producer.PublishSaleEvent(ctx, payload); err != nil {
		log.Printf("⚠️ [WEBHOOK] venda %s gravada mas evento não publicado: %v", res.sale.ID, err)
	}
}

func saleEventPayload(c *entity.Client, s *entity.Sale, previous entity.SaleStatus, origin string) queue.SaleEventPayload {
	p := queue.SaleEventPayload{
		Event:          entity.SaleEventName(s.Status),
		SaleID:         s.ID,
		ClientID:       s.ClientID,
		Product:        s.Product,
		Value:          s.Value.StringFixed(2),
		Status:         string(s.Status),
		PreviousStatus: string(previous),
		Origin:         origin,
		OccurredAt:     time.Now(),
	}
	if c != nil {
		p.ClientName = c.Name
		p.ClientPhone = c.Phone
		p.ClientEmail = c.Email
	}
	if s.ExternalSaleID != nil {
		p.ExternalSaleID = *s.ExternalSaleID
	}
	return p
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
