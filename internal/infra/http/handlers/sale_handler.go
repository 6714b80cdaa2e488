package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

type SaleService interface {
	Create(ctx context.Context, in usecase.CreateSaleInput) (*entity.Sale, error)
	Get(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f entity.SaleFilter) (*usecase.Page[*entity.Sale], error)
	Update(ctx context.Context, id string, in usecase.UpdateSaleInput) (*entity.Sale, error)
	Delete(ctx context.Context, id string) error
	Metrics(ctx context.Context) (*usecase.SalesMetrics, error)
	Charts(ctx context.Context, days int) ([]usecase.ChartPoint, error)
}

type SaleHandler struct {
	Sales SaleService
}

func NewSaleHandler(sales SaleService) *SaleHandler {
	return &SaleHandler{Sales: sales}
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Sales.List(r.Context(), entity.SaleFilter{
		Status:   entity.SaleStatus(r.URL.Query().Get("status")),
		ClientID: r.URL.Query().Get("clientId"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateSaleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sale, err := h.Sales.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"sale": sale})
}

func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Sales.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sale": sale})
}

func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in usecase.UpdateSaleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sale, err := h.Sales.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sale": sale})
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sales.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaleHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.Sales.Metrics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"metrics": m})
}

func (h *SaleHandler) Charts(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, usecase.ValidationErrors{{Field: "days", Message: "must be a positive integer"}})
			return
		}
		days = n
	}
	points, err := h.Sales.Charts(r.Context(), days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"series": points})
}
