package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusRealized  SaleStatus = "realized"
	SaleStatusRecovered SaleStatus = "recovered"
	SaleStatusLost      SaleStatus = "lost"
)

var SaleStatuses = []SaleStatus{SaleStatusPending, SaleStatusRealized, SaleStatusRecovered, SaleStatusLost}

func (s SaleStatus) Valid() bool {
	for _, v := range SaleStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Open reports whether a sale can still be closed by a payment approval.
func (s SaleStatus) Open() bool {
	return s == SaleStatusPending || s == SaleStatusLost
}

// Paid reports whether the status counts as revenue.
func (s SaleStatus) Paid() bool {
	return s == SaleStatusRealized || s == SaleStatusRecovered
}

type Sale struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"clientId"`
	Product        string          `json:"product"`
	Value          decimal.Decimal `json:"value"`
	Status         SaleStatus      `json:"status"`
	Date           time.Time       `json:"date"`
	Notes          *string         `json:"notes,omitempty"`
	ExternalSaleID *string         `json:"externalSaleId,omitempty"`
	PaymentMethod  *string         `json:"paymentMethod,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func NewSale(clientID, product string, value decimal.Decimal, status SaleStatus) *Sale {
	now := time.Now()
	return &Sale{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Product:   product,
		Value:     value,
		Status:    status,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type SaleFilter struct {
	Status   SaleStatus
	ClientID string
	Limit    int
	Offset   int
}

// StatusTotal is one row of the sales-by-status aggregate.
type StatusTotal struct {
	Status SaleStatus      `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// DailyTotal is one (day, status) bucket of the chart series.
type DailyTotal struct {
	Day    time.Time       `json:"day"`
	Status SaleStatus      `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

type SaleRepositoryInterface interface {
	Create(ctx context.Context, s *Sale) error
	FindByID(ctx context.Context, id string) (*Sale, error)
	FindLatestOpenByClientID(ctx context.Context, clientID string) (*Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*Sale, int, error)
	Update(ctx context.Context, s *Sale) error
	Delete(ctx context.Context, id string) error
	TotalsByStatus(ctx context.Context) ([]StatusTotal, error)
	DailyTotals(ctx context.Context, since time.Time) ([]DailyTotal, error)
	// ExpirePending marks pending sales created before cutoff as lost and returns them.
	ExpirePending(ctx context.Context, cutoff time.Time) ([]*Sale, error)
}
