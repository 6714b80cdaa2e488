package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

type ClientService interface {
	Create(ctx context.Context, in usecase.CreateClientInput) (*entity.Client, error)
	Get(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, f entity.ClientFilter) (*usecase.Page[*entity.Client], error)
	Update(ctx context.Context, id string, in usecase.UpdateClientInput) (*entity.Client, error)
	Delete(ctx context.Context, id string) error
}

type ClientHandler struct {
	Clients ClientService
}

func NewClientHandler(clients ClientService) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Clients.List(r.Context(), entity.ClientFilter{
		UserID: r.URL.Query().Get("userId"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateClientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Clients.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"client": c})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Clients.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"client": c})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateClientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.Clients.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"client": c})
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Clients.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
