package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Client is a customer of the sales desk. Phone (digits only) is the identity key used to match
// payment-provider events.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   *string   `json:"company,omitempty"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewClient builds a client, normalizing the phone. A missing email is replaced by a placeholder
// derived from the phone so the unique email constraint still holds.
func NewClient(name, email, phone string) (*Client, error) {
	phone = NormalizePhone(phone)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = PlaceholderEmail(phone)
	}

	now := time.Now()
	c := &Client{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Phone == "" {
		return errors.New("phone is required")
	}
	if c.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

func PlaceholderEmail(phone string) string {
	return fmt.Sprintf("sem-email+%s@salesdesk.local", phone)
}

type ClientFilter struct {
	UserID string
	Limit  int
	Offset int
}

type ClientRepositoryInterface interface {
	Create(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	FindByPhone(ctx context.Context, phone string) (*Client, error)
	List(ctx context.Context, f ClientFilter) ([]*Client, int, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
