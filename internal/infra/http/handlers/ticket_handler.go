package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

type TicketService interface {
	Create(ctx context.Context, in usecase.CreateTicketInput) (*entity.SupportTicket, error)
	Get(ctx context.Context, id string) (*entity.SupportTicket, error)
	List(ctx context.Context, f entity.TicketFilter) (*usecase.Page[*entity.SupportTicket], error)
	Update(ctx context.Context, id string, in usecase.UpdateTicketInput) (*entity.SupportTicket, error)
	Delete(ctx context.Context, id string) error
}

type TicketHandler struct {
	Tickets TicketService
}

func NewTicketHandler(tickets TicketService) *TicketHandler {
	return &TicketHandler{Tickets: tickets}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	q := r.URL.Query()
	page, err := h.Tickets.List(r.Context(), entity.TicketFilter{
		Status:   entity.TicketStatus(q.Get("status")),
		UserID:   q.Get("userId"),
		ClientID: q.Get("clientId"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateTicketInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.Tickets.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ticket": t})
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tickets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticket": t})
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateTicketInput
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.Tickets.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ticket": t})
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Tickets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
