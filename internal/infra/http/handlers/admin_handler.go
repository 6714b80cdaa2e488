package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

type PlanService interface {
	Create(ctx context.Context, in usecase.PlanInput) (*entity.Plan, error)
	Get(ctx context.Context, id string) (*entity.Plan, error)
	List(ctx context.Context, limit, offset int) (*usecase.Page[*entity.Plan], error)
	Update(ctx context.Context, id string, in usecase.PlanInput) (*entity.Plan, error)
	Delete(ctx context.Context, id string) error
}

type WebhookService interface {
	Create(ctx context.Context, in usecase.WebhookInput) (*entity.Webhook, error)
	Get(ctx context.Context, id string) (*entity.Webhook, error)
	List(ctx context.Context, limit, offset int) (*usecase.Page[*entity.Webhook], error)
	Update(ctx context.Context, id string, in usecase.WebhookInput) (*entity.Webhook, error)
	Delete(ctx context.Context, id string) error
	Test(ctx context.Context, id string) (*entity.WebhookEvent, error)
	Events(ctx context.Context, id string, limit, offset int) (*usecase.Page[*entity.WebhookEvent], error)
}

type ChipService interface {
	Create(ctx context.Context, in usecase.ChipInput) (*entity.WhatsappChip, error)
	Get(ctx context.Context, id string) (*entity.WhatsappChip, error)
	List(ctx context.Context, status string, limit, offset int) (*usecase.Page[*entity.WhatsappChip], error)
	Update(ctx context.Context, id string, in usecase.ChipInput) (*entity.WhatsappChip, error)
	Delete(ctx context.Context, id string) error
	Recover(ctx context.Context, id string) (*entity.WhatsappChip, error)
}

type UserService interface {
	Create(ctx context.Context, in usecase.CreateUserInput) (*usecase.UserView, error)
	Get(ctx context.Context, id string) (*usecase.UserView, error)
	List(ctx context.Context, limit, offset int) (*usecase.Page[*usecase.UserView], error)
	Update(ctx context.Context, id string, in usecase.UpdateUserInput) (*usecase.UserView, error)
	Delete(ctx context.Context, id string) error
}

// AdminHandler serves the /api/admin surfaces. Every route requires the admin role.
type AdminHandler struct {
	Plans    PlanService
	Webhooks WebhookService
	Chips    ChipService
	Users    UserService
}

func NewAdminHandler(plans PlanService, webhooks WebhookService, chips ChipService, users UserService) *AdminHandler {
	return &AdminHandler{Plans: plans, Webhooks: webhooks, Chips: chips, Users: users}
}

// Routes mounts the admin CRUD under the caller's router.
func (h *AdminHandler) Routes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.ListPlans)
		r.Post("/", h.CreatePlan)
		r.Get("/{id}", h.GetPlan)
		r.Put("/{id}", h.UpdatePlan)
		r.Delete("/{id}", h.DeletePlan)
	})
	r.Route("/webhooks", func(r chi.Router) {
		r.Get("/", h.ListWebhooks)
		r.Post("/", h.CreateWebhook)
		r.Get("/{id}", h.GetWebhook)
		r.Put("/{id}", h.UpdateWebhook)
		r.Delete("/{id}", h.DeleteWebhook)
		r.Post("/{id}/trigger", h.TriggerWebhook)
		r.Get("/{id}/events", h.WebhookEvents)
	})
	r.Route("/whatsapp-chips", func(r chi.Router) {
		r.Get("/", h.ListChips)
		r.Post("/", h.CreateChip)
		r.Get("/{id}", h.GetChip)
		r.Put("/{id}", h.UpdateChip)
		r.Delete("/{id}", h.DeleteChip)
		r.Post("/{id}/recover", h.RecoverChip)
	})
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// respond writes v under key, or the mapped error.
func respond[T any](w http.ResponseWriter, r *http.Request, status int, key string, v T, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	if key == "" {
		writeJSON(w, status, v)
		return
	}
	writeJSON(w, status, map[string]any{key: v})
}

func noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Plans.List(r.Context(), limit, offset)
	respond(w, r, http.StatusOK, "", page, err)
}

func (h *AdminHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var in usecase.PlanInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Plans.Create(r.Context(), in)
	respond(w, r, http.StatusCreated, "plan", p, err)
}

func (h *AdminHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.Plans.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, "plan", p, err)
}

func (h *AdminHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var in usecase.PlanInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.Plans.Update(r.Context(), chi.URLParam(r, "id"), in)
	respond(w, r, http.StatusOK, "plan", p, err)
}

func (h *AdminHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.Plans.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (h *AdminHandler) ListWebhooks(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Webhooks.List(r.Context(), limit, offset)
	respond(w, r, http.StatusOK, "", page, err)
}

func (h *AdminHandler) CreateWebhook(w http.ResponseWriter, r *http.Request) {
	var in usecase.WebhookInput
	if !decodeJSON(w, r, &in) {
		return
	}
	wh, err := h.Webhooks.Create(r.Context(), in)
	respond(w, r, http.StatusCreated, "webhook", wh, err)
}

func (h *AdminHandler) GetWebhook(w http.ResponseWriter, r *http.Request) {
	wh, err := h.Webhooks.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, "webhook", wh, err)
}

func (h *AdminHandler) UpdateWebhook(w http.ResponseWriter, r *http.Request) {
	var in usecase.WebhookInput
	if !decodeJSON(w, r, &in) {
		return
	}
	wh, err := h.Webhooks.Update(r.Context(), chi.URLParam(r, "id"), in)
	respond(w, r, http.StatusOK, "webhook", wh, err)
}

func (h *AdminHandler) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.Webhooks.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (h *AdminHandler) TriggerWebhook(w http.ResponseWriter, r *http.Request) {
	ev, err := h.Webhooks.Test(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, "event", ev, err)
}

func (h *AdminHandler) WebhookEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Webhooks.Events(r.Context(), chi.URLParam(r, "id"), limit, offset)
	respond(w, r, http.StatusOK, "", page, err)
}

func (h *AdminHandler) ListChips(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Chips.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	respond(w, r, http.StatusOK, "", page, err)
}

func (h *AdminHandler) CreateChip(w http.ResponseWriter, r *http.Request) {
	var in usecase.ChipInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Chips.Create(r.Context(), in)
	respond(w, r, http.StatusCreated, "chip", c, err)
}

func (h *AdminHandler) GetChip(w http.ResponseWriter, r *http.Request) {
	c, err := h.Chips.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, "chip", c, err)
}

func (h *AdminHandler) UpdateChip(w http.ResponseWriter, r *http.Request) {
	var in usecase.ChipInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Chips.Update(r.Context(), chi.URLParam(r, "id"), in)
	respond(w, r, http.StatusOK, "chip", c, err)
}

func (h *AdminHandler) DeleteChip(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.Chips.Delete(r.Context(), chi.URLParam(r, "id")))
}

func (h *AdminHandler) RecoverChip(w http.ResponseWriter, r *http.Request) {
	c, err := h.Chips.Recover(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, "chip", c, err)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Users.List(r.Context(), limit, offset)
	respond(w, r, http.StatusOK, "", page, err)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.Users.Create(r.Context(), in)
	respond(w, r, http.StatusCreated, "user", u, err)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, "user", u, err)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.Users.Update(r.Context(), chi.URLParam(r, "id"), in)
	respond(w, r, http.StatusOK, "user", u, err)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	noContent(w, r, h.Users.Delete(r.Context(), chi.URLParam(r, "id")))
}
