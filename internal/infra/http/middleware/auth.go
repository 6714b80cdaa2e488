package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const SessionCookie = "session"

type ctxKey int

const userKey ctxKey = iota

// Authenticator is implemented by usecase.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// domainCoder matches usecase.DomainError without importing the use case layer.
type domainCoder interface {
	error
	DomainCode() string
}

// RequireSession resolves the bearer token (or session cookie) and stores the user in the
// request context. Anything else gets 401.
func RequireSession(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), TokenFromRequest(r))
			if err != nil {
				var dc domainCoder
				if !errors.As(err, &dc) {
					log.Printf("❌ [AUTH] falha ao validar sessão: %v", err)
					writeAuthError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
			return
		}
		if !user.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func WithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userKey).(*entity.User)
	return u, ok && u != nil
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}
