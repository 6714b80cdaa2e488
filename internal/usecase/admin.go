package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

type PlanUseCase struct {
	Plans entity.PlanRepositoryInterface
}

func NewPlanUseCase(plans entity.PlanRepositoryInterface) *PlanUseCase {
	return &PlanUseCase{Plans: plans}
}

func (uc *PlanUseCase) Create(ctx context.Context, in PlanInput) (*entity.Plan, error) {
	p := &entity.Plan{ID: uuid.New().String(), Active: true, CreatedAt: time.Now()}
	if err := applyPlan(p, in); err != nil {
		return nil, err
	}
	if err := uc.Plans.Create(ctx, p); err != nil {
		return nil, persistence("create plan", err)
	}
	return p, nil
}

func (uc *PlanUseCase) Get(ctx context.Context, id string) (*entity.Plan, error) {
	p, err := uc.Plans.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("plan", id, "find plan", err)
	}
	return p, nil
}

func (uc *PlanUseCase) List(ctx context.Context, limit, offset int) (*Page[*entity.Plan], error) {
	limit, offset = Paginate(limit, offset)
	items, total, err := uc.Plans.List(ctx, limit, offset)
	if err != nil {
		return nil, persistence("list plans", err)
	}
	return newPage(items, total, limit, offset), nil
}

func (uc *PlanUseCase) Update(ctx context.Context, id string, in PlanInput) (*entity.Plan, error) {
	p, err := uc.Plans.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("plan", id, "find plan", err)
	}
	if err := applyPlan(p, in); err != nil {
		return nil, err
	}
	if err := uc.Plans.Update(ctx, p); err != nil {
		return nil, notFoundOr("plan", id, "update plan", err)
	}
	return p, nil
}

func (uc *PlanUseCase) Delete(ctx context.Context, id string) error {
	err := uc.Plans.Delete(ctx, id)
	if errors.Is(err, entity.ErrConflict) {
		return &DomainError{Code: "PLAN_IN_USE", Message: "plan is assigned to users"}
	}
	if err != nil {
		return notFoundOr("plan", id, "delete plan", err)
	}
	return nil
}

func applyPlan(p *entity.Plan, in PlanInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	price, err := parseMoney("price", in.Price)
	if err != nil {
		return err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = price
	p.MaxChips = in.MaxChips
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = time.Now()
	return nil
}

type WebhookUseCase struct {
	Webhooks   entity.WebhookRepositoryInterface
	Deliveries entity.WebhookEventRepositoryInterface
	Trigger    WebhookTrigger
}

func NewWebhookUseCase(webhooks entity.WebhookRepositoryInterface, deliveries entity.WebhookEventRepositoryInterface, trigger WebhookTrigger) *WebhookUseCase {
	return &WebhookUseCase{Webhooks: webhooks, Deliveries: deliveries, Trigger: trigger}
}

func (uc *WebhookUseCase) Create(ctx context.Context, in WebhookInput) (*entity.Webhook, error) {
	w := &entity.Webhook{ID: uuid.New().String(), Active: true, CreatedAt: time.Now()}
	if err := applyWebhook(w, in); err != nil {
		return nil, err
	}
	if err := uc.Webhooks.Create(ctx, w); err != nil {
		return nil, persistence("create webhook", err)
	}
	return w, nil
}

func (uc *WebhookUseCase) Get(ctx context.Context, id string) (*entity.Webhook, error) {
	w, err := uc.Webhooks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("webhook", id, "find webhook", err)
	}
	return w, nil
}

func (uc *WebhookUseCase) List(ctx context.Context, limit, offset int) (*Page[*entity.Webhook], error) {
	limit, offset = Paginate(limit, offset)
	items, total, err := uc.Webhooks.List(ctx, limit, offset)
	if err != nil {
		return nil, persistence("list webhooks", err)
	}
	return newPage(items, total, limit, offset), nil
}

func (uc *WebhookUseCase) Update(ctx context.Context, id string, in WebhookInput) (*entity.Webhook, error) {
	w, err := uc.Webhooks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("webhook", id, "find webhook", err)
	}
	if err := applyWebhook(w, in); err != nil {
		return nil, err
	}
	if err := uc.Webhooks.Update(ctx, w); err != nil {
		return nil, notFoundOr("webhook", id, "update webhook", err)
	}
	return w, nil
}

func (uc *WebhookUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Webhooks.Delete(ctx, id); err != nil {
		return notFoundOr("webhook", id, "delete webhook", err)
	}
	return nil
}

// Test sends a webhook.test delivery right away and returns its log row. A failed delivery is
// not an error: the row carries the failure.
func (uc *WebhookUseCase) Test(ctx context.Context, id string) (*entity.WebhookEvent, error) {
	w, err := uc.Webhooks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("webhook", id, "find webhook", err)
	}
	payload := map[string]any{
		"event":      entity.EventWebhookTest,
		"webhook_id": w.ID,
		"sent_at":    time.Now().UTC(),
	}
	ev, err := uc.Trigger.Trigger(ctx, w, entity.EventWebhookTest, payload)
	if err != nil {
		return nil, persistence("trigger webhook", err)
	}
	return ev, nil
}

func (uc *WebhookUseCase) Events(ctx context.Context, id string, limit, offset int) (*Page[*entity.WebhookEvent], error) {
	if _, err := uc.Webhooks.FindByID(ctx, id); err != nil {
		return nil, notFoundOr("webhook", id, "find webhook", err)
	}
	limit, offset = Paginate(limit, offset)
	items, total, err := uc.Deliveries.ListByWebhookID(ctx, id, limit, offset)
	if err != nil {
		return nil, persistence("list webhook events", err)
	}
	return newPage(items, total, limit, offset), nil
}

func applyWebhook(w *entity.Webhook, in WebhookInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	w.Name = strings.TrimSpace(in.Name)
	w.URL = strings.TrimSpace(in.URL)
	w.Events = dedupe(in.Events)
	w.Secret = in.Secret
	if in.Active != nil {
		w.Active = *in.Active
	}
	w.UpdatedAt = time.Now()
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

type ChipUseCase struct {
	Chips entity.ChipRepositoryInterface
}

func NewChipUseCase(chips entity.ChipRepositoryInterface) *ChipUseCase {
	return &ChipUseCase{Chips: chips}
}

func (uc *ChipUseCase) Create(ctx context.Context, in ChipInput) (*entity.WhatsappChip, error) {
	c := &entity.WhatsappChip{ID: uuid.New().String(), Status: entity.ChipActive, CreatedAt: time.Now()}
	if err := applyChip(c, in); err != nil {
		return nil, err
	}
	if err := uc.Chips.Create(ctx, c); err != nil {
		return nil, chipWriteError("create chip", err)
	}
	return c, nil
}

func (uc *ChipUseCase) Get(ctx context.Context, id string) (*entity.WhatsappChip, error) {
	c, err := uc.Chips.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("chip", id, "find chip", err)
	}
	return c, nil
}

func (uc *ChipUseCase) List(ctx context.Context, status string, limit, offset int) (*Page[*entity.WhatsappChip], error) {
	switch entity.ChipStatus(status) {
	case "", entity.ChipActive, entity.ChipInactive, entity.ChipRecovery:
	default:
		return nil, fieldError("status", "must be one of: active, inactive, recovery")
	}
	limit, offset = Paginate(limit, offset)
	items, total, err := uc.Chips.List(ctx, entity.ChipStatus(status), limit, offset)
	if err != nil {
		return nil, persistence("list chips", err)
	}
	return newPage(items, total, limit, offset), nil
}

func (uc *ChipUseCase) Update(ctx context.Context, id string, in ChipInput) (*entity.WhatsappChip, error) {
	c, err := uc.Chips.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("chip", id, "find chip", err)
	}
	if err := applyChip(c, in); err != nil {
		return nil, err
	}
	if err := uc.Chips.Update(ctx, c); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &NotFoundError{Resource: "chip", ID: id}
		}
		return nil, chipWriteError("update chip", err)
	}
	return c, nil
}

func (uc *ChipUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Chips.Delete(ctx, id); err != nil {
		return notFoundOr("chip", id, "delete chip", err)
	}
	return nil
}

// Recover puts the chip in recovery and stamps the attempt.
func (uc *ChipUseCase) Recover(ctx context.Context, id string) (*entity.WhatsappChip, error) {
	if err := uc.Chips.MarkRecovery(ctx, id, time.Now()); err != nil {
		return nil, notFoundOr("chip", id, "recover chip", err)
	}
	return uc.Get(ctx, id)
}

func applyChip(c *entity.WhatsappChip, in ChipInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	c.PhoneNumber = entity.NormalizePhone(in.PhoneNumber)
	c.Label = strings.TrimSpace(in.Label)
	if in.Status != "" {
		c.Status = entity.ChipStatus(in.Status)
	}
	c.UserID = in.UserID
	c.Notes = in.Notes
	c.UpdatedAt = time.Now()
	return nil
}

func chipWriteError(op string, err error) error {
	if errors.Is(err, entity.ErrConflict) {
		return &DomainError{Code: "PHONE_TAKEN", Message: "a chip with this phone number already exists"}
	}
	return persistence(op, err)
}
