package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-salesdesk/internal/usecase"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.LoginOutput), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID string, in usecase.ChangePasswordInput) error {
	return m.Called(ctx, userID, in).Error(0)
}

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, usecase.LoginInput{Email: "ana@example.com", Password: "s3cret-pass"}).
		Return(&usecase.LoginOutput{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), User: &entity.User{ID: "u1"}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com","password":"s3cret-pass"}`))
	rec := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestAuthHandler_LoginRejected(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, usecase.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com","password":"nope"}`))
	rec := httptest.NewRecorder()
	NewAuthHandler(svc).Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_LogoutUsesBearerToken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Logout", mock.Anything, "tok").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	NewAuthHandler(svc).Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("ChangePassword", mock.Anything, "u1", mock.Anything).Return(usecase.ErrWrongPassword)

	req := httptest.NewRequest(http.MethodPut, "/api/password", strings.NewReader(`{"currentPassword":"a","newPassword":"bbbbbbbb"}`))
	req = req.WithContext(middleware.WithUser(req.Context(), &entity.User{ID: "u1"}))
	rec := httptest.NewRecorder()
	NewAuthHandler(svc).ChangePassword(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "WRONG_PASSWORD")
}

func TestAuthHandler_ChangePasswordWithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAuthHandler(new(MockAuthService)).ChangePassword(rec, httptest.NewRequest(http.MethodPut, "/api/password", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeBroker struct{ closed bool }

func (b fakeBroker) IsClosed() bool { return b.closed }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		broker BrokerStatus
		want   int
	}{
		{"all healthy", fakePinger{}, fakeBroker{}, http.StatusOK},
		{"no broker configured", fakePinger{}, nil, http.StatusOK},
		{"database down", fakePinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable},
		{"broker closed", fakePinger{}, fakeBroker{closed: true}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.db, tt.broker, "test").Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
