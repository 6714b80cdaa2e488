package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

type SaleClassifier interface {
	Execute(ctx context.Context, input usecase.SalesEventInput) (*usecase.ClassifySaleOutput, error)
}

// WebhookHandler receives payment-provider callbacks. Providers retry on non-2xx, so only
// malformed input (400) and storage failures (500) answer with an error status.
type WebhookHandler struct {
	Classifier SaleClassifier
	Token      string
}

func NewWebhookHandler(classifier SaleClassifier, token string) *WebhookHandler {
	return &WebhookHandler{Classifier: classifier, Token: token}
}

type WebhookResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Errors  []usecase.ValidationError `json:"errors,omitempty"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		middleware.RecordWebhookRejected("unauthorized")
		writeJSON(w, http.StatusUnauthorized, WebhookResponse{Message: "invalid webhook token"})
		return
	}

	var input usecase.SalesEventInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RecordWebhookRejected("invalid_payload")
		writeJSON(w, http.StatusBadRequest, WebhookResponse{Message: "invalid JSON body"})
		return
	}

	out, err := h.Classifier.Execute(r.Context(), input)
	if err != nil {
		var (
			verrs usecase.ValidationErrors
			perr  *usecase.ParseError
		)
		switch {
		case errors.As(err, &verrs):
			middleware.RecordWebhookRejected("invalid_payload")
			writeJSON(w, http.StatusBadRequest, WebhookResponse{Message: "invalid event", Errors: verrs})
		case errors.As(err, &perr):
			middleware.RecordWebhookRejected("parse_error")
			writeJSON(w, http.StatusBadRequest, WebhookResponse{
				Message: perr.Error(),
				Errors:  []usecase.ValidationError{{Field: "total_price", Message: perr.Reason}},
			})
		default:
			middleware.RecordWebhookRejected("persistence_error")
			log.Printf("❌ [WEBHOOK] %s não processado: %v", input.Event, err)
			writeJSON(w, http.StatusInternalServerError, WebhookResponse{Message: "event could not be stored, retry later"})
		}
		return
	}

	if !out.Success {
		middleware.RecordWebhookRejected("unknown_event")
	} else {
		middleware.RecordSaleClassified(input.Event, string(out.Status))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.Token == "" {
		return true
	}
	got := r.Header.Get("X-Webhook-Token")
	if got == "" {
		got = r.URL.Query().Get("token")
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.Token)) == 1
}
