package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const DefaultSessionTTL = 24 * time.Hour

var (
	ErrUnauthorized       = &DomainError{Code: "UNAUTHORIZED", Message: "missing or invalid session"}
	ErrInvalidCredentials = &DomainError{Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	ErrWrongPassword      = &DomainError{Code: "WRONG_PASSWORD", Message: "current password is incorrect"}
)

type AuthUseCase struct {
	Users      entity.UserRepositoryInterface
	Sessions   entity.SessionRepositoryInterface
	Cache      SessionCache
	SessionTTL time.Duration
	HashCost   int
}

func NewAuthUseCase(users entity.UserRepositoryInterface, sessions entity.SessionRepositoryInterface, cache SessionCache, ttl time.Duration) *AuthUseCase {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthUseCase{
		Users:      users,
		Sessions:   sessions,
		Cache:      cache,
		SessionTTL: ttl,
		HashCost:   bcrypt.DefaultCost,
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	user, err := uc.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, entity.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, persistence("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &entity.Session{
		TokenHash: HashToken(token),
		UserID:    user.ID,
		ExpiresAt: now.Add(uc.SessionTTL),
		CreatedAt: now,
	}
	if err := uc.Sessions.Create(ctx, session); err != nil {
		return nil, persistence("create session", err)
	}

	log.Printf("🔐 [AUTH] login de %s", user.Email)
	return &LoginOutput{
		Token:                 token,
		ExpiresAt:             session.ExpiresAt,
		User:                  user,
		RequirePasswordChange: user.RequirePasswordChange,
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, token string) error {
	hash := HashToken(token)
	if uc.Cache != nil {
		uc.Cache.Delete(hash)
	}
	if err := uc.Sessions.Delete(ctx, hash); err != nil && !errors.Is(err, entity.ErrNotFound) {
		return persistence("delete session", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. The user is always reloaded so deleted
// users and role changes take effect on the next request.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	hash := HashToken(token)

	var (
		session *entity.Session
		ok      bool
	)
	if uc.Cache != nil {
		session, ok = uc.Cache.Get(hash)
	}
	if !ok {
		var err error
		session, err = uc.Sessions.FindByTokenHash(ctx, hash)
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		if err != nil {
			return nil, persistence("find session", err)
		}
	}

	if !session.ExpiresAt.After(time.Now()) {
		if uc.Cache != nil {
			uc.Cache.Delete(hash)
		}
		if err := uc.Sessions.Delete(ctx, hash); err != nil && !errors.Is(err, entity.ErrNotFound) {
			log.Printf("⚠️ [AUTH] sessão expirada não removida: %v", err)
		}
		return nil, ErrUnauthorized
	}
	if !ok && uc.Cache != nil {
		uc.Cache.Set(hash, session)
	}

	user, err := uc.Users.FindByID(ctx, session.UserID)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, persistence("find user", err)
	}
	return user, nil
}

func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	user, err := uc.Users.FindByID(ctx, userID)
	if err != nil {
		return notFoundOr("user", userID, "find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	if in.NewPassword == in.CurrentPassword {
		return fieldError("newPassword", "must differ from the current password")
	}

	hash, err := uc.hash(in.NewPassword)
	if err != nil {
		return err
	}
	if err := uc.Users.UpdatePassword(ctx, userID, hash, false); err != nil {
		return notFoundOr("user", userID, "update password", err)
	}
	return nil
}

func (uc *AuthUseCase) hash(password string) (string, error) {
	cost := uc.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return HashPassword(password, cost)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fieldError("password", err.Error())
	}
	return string(h), nil
}

// HashToken is the value stored for a session token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
