package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

// Payment provider event types accepted by the sales webhook.
const (
	EventPixGenerated  = "PIX_GENERATED"
	EventSaleApproved  = "SALE_APPROVED"
	EventAbandonedCart = "ABANDONED_CART"
)

type CustomerInput struct {
	Name  string `json:"name" validate:"required,notblank"`
	Phone string `json:"phone" validate:"required,phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ProductInput struct {
	Name string `json:"name" validate:"required,notblank"`
}

// SalesEventInput is the normalized payment-provider callback.
type SalesEventInput struct {
	Event         string         `json:"event" validate:"required"`
	Customer      CustomerInput  `json:"customer"`
	SaleID        string         `json:"sale_id"`
	PaymentMethod string         `json:"payment_method"`
	TotalPrice    string         `json:"total_price" validate:"required"`
	Products      []ProductInput `json:"products" validate:"min=1,dive"`
}

type ClassifySaleOutput struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	SaleID   string            `json:"saleId,omitempty"`
	ClientID string            `json:"clientId,omitempty"`
	Status   entity.SaleStatus `json:"status,omitempty"`
}

type CreateSaleInput struct {
	ClientID       string  `json:"clientId" validate:"required"`
	Product        string  `json:"product" validate:"required,notblank"`
	Value          string  `json:"value" validate:"required"`
	Status         string  `json:"status" validate:"omitempty,oneof=pending realized recovered lost"`
	Notes          *string `json:"notes"`
	ExternalSaleID *string `json:"externalSaleId"`
	PaymentMethod  *string `json:"paymentMethod"`
}

type UpdateSaleInput struct {
	Product        *string `json:"product" validate:"omitempty,min=1,notblank"`
	Value          *string `json:"value"`
	Status         *string `json:"status" validate:"omitempty,oneof=pending realized recovered lost"`
	Notes          *string `json:"notes"`
	ExternalSaleID *string `json:"externalSaleId"`
	PaymentMethod  *string `json:"paymentMethod"`
}

type SalesMetrics struct {
	ByStatus       []entity.StatusTotal `json:"byStatus"`
	TotalSales     int                  `json:"totalSales"`
	TotalRevenue   decimal.Decimal      `json:"totalRevenue"`
	RecoveredValue decimal.Decimal      `json:"recoveredValue"`
	LostValue      decimal.Decimal      `json:"lostValue"`
	RecoveryRate   float64              `json:"recoveryRate"` // recovered / (recovered + lost), 0..1
	TotalClients   int                  `json:"totalClients"`
}

// ChartPoint is one day of the chart series, every status present even when zero.
type ChartPoint struct {
	Day    string                                `json:"day"` // YYYY-MM-DD
	Counts map[entity.SaleStatus]int             `json:"counts"`
	Values map[entity.SaleStatus]decimal.Decimal `json:"values"`
}

type CreateClientInput struct {
	Name    string  `json:"name" validate:"required,notblank"`
	Email   string  `json:"email" validate:"omitempty,email"`
	Phone   string  `json:"phone" validate:"required,phone"`
	Company *string `json:"company"`
	UserID  *string `json:"userId"`
}

type UpdateClientInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1,notblank"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,phone"`
	Company *string `json:"company"`
	UserID  *string `json:"userId"`
}

type CreateTicketInput struct {
	ClientID    string  `json:"clientId" validate:"required"`
	UserID      *string `json:"userId"`
	Subject     string  `json:"subject" validate:"required,notblank,max=200"`
	Description string  `json:"description" validate:"required,notblank"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

type UpdateTicketInput struct {
	UserID      *string `json:"userId"`
	Subject     *string `json:"subject" validate:"omitempty,min=1,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,min=1,notblank"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      *string `json:"status" validate:"omitempty,oneof=open in_progress closed"`
}

type PlanInput struct {
	Name        string  `json:"name" validate:"required,notblank"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required"`
	MaxChips    int     `json:"maxChips" validate:"gte=0"`
	Active      *bool   `json:"active"`
}

type WebhookInput struct {
	Name   string   `json:"name" validate:"required,notblank"`
	URL    string   `json:"url" validate:"required,httpurl"`
	Events []string `json:"events" validate:"min=1,dive,webhookevent"`
	Secret string   `json:"secret"`
	Active *bool    `json:"active"`
}

type ChipInput struct {
	PhoneNumber string  `json:"phoneNumber" validate:"required,phone"`
	Label       string  `json:"label" validate:"required,notblank"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive recovery"`
	UserID      *string `json:"userId"`
	Notes       *string `json:"notes"`
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
	PlanID   string `json:"planId"`
}

type UpdateUserInput struct {
	Name   *string `json:"name" validate:"omitempty,min=1,notblank"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin user"`
	PlanID *string `json:"planId"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	Token                 string       `json:"token"`
	ExpiresAt             time.Time    `json:"expiresAt"`
	User                  *entity.User `json:"user"`
	RequirePasswordChange bool         `json:"requirePasswordChange"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// UserView is a user plus its active plan, as returned by the admin API.
type UserView struct {
	*entity.User
	Plan *entity.UserPlan `json:"plan,omitempty"`
}
