package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Errors  []usecase.ValidationError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ erro ao serializar resposta: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps the use case error taxonomy to a status code and envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs  usecase.ValidationErrors
		parse  *usecase.ParseError
		nf     *usecase.NotFoundError
		domain *usecase.DomainError
	)
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: "invalid request",
			Errors:  verrs,
		})
	case errors.As(err, &parse):
		writeErrorResponse(w, http.StatusBadRequest, "PARSE_ERROR", parse.Error())
	case errors.As(err, &nf):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.Is(err, entity.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.As(err, &domain):
		writeErrorResponse(w, domainStatus(domain.Code), domain.Code, domain.Message)
	default:
		log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func domainStatus(code string) int {
	switch code {
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	case "EMAIL_TAKEN", "PHONE_TAKEN", "PLAN_IN_USE":
		return http.StatusConflict
	case "WRONG_PASSWORD":
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}
	return true
}

// pageParams reads limit/offset; the use cases clamp them.
func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, offset
}
