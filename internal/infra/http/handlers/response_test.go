package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", usecase.ValidationErrors{{Field: "name", Message: "is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"parse", &usecase.ParseError{Input: "x", Reason: "no digits"}, http.StatusBadRequest, "PARSE_ERROR"},
		{"not found", &usecase.NotFoundError{Resource: "sale", ID: "s1"}, http.StatusNotFound, "NOT_FOUND"},
		{"bare not found", fmt.Errorf("lookup: %w", entity.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"phone taken", &usecase.DomainError{Code: "PHONE_TAKEN", Message: "taken"}, http.StatusConflict, "PHONE_TAKEN"},
		{"plan in use", &usecase.DomainError{Code: "PLAN_IN_USE", Message: "in use"}, http.StatusConflict, "PLAN_IN_USE"},
		{"bad credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"wrong password", usecase.ErrWrongPassword, http.StatusBadRequest, "WRONG_PASSWORD"},
		{"persistence", &usecase.PersistenceError{Op: "list", Err: errors.New("pq: password authentication failed")}, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/api/sales", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.NotContains(t, resp.Message, "pq:")
		})
	}
}

func TestWriteError_ListsFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodPost, "/api/clients", nil), usecase.ValidationErrors{
		{Field: "name", Message: "is required"},
		{Field: "phone", Message: "must be a valid phone number"},
	})

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "phone", resp.Errors[1].Field)
}

func TestPageParams(t *testing.T) {
	limit, offset := pageParams(httptest.NewRequest(http.MethodGet, "/api/sales?limit=50&offset=10", nil))
	assert.Equal(t, 50, limit)
	assert.Equal(t, 10, offset)

	limit, offset = pageParams(httptest.NewRequest(http.MethodGet, "/api/sales?limit=abc", nil))
	assert.Zero(t, limit)
	assert.Zero(t, offset)
}
