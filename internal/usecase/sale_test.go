package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
	"github.com/xavierca1/ligue-salesdesk/internal/infra/queue"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBuildMetrics(t *testing.T) {
	m := buildMetrics([]entity.StatusTotal{
		{Status: entity.SaleStatusRealized, Count: 3, Total: dec("300")},
		{Status: entity.SaleStatusRecovered, Count: 1, Total: dec("50.50")},
		{Status: entity.SaleStatusLost, Count: 3, Total: dec("120")},
	}, 4)

	require.Len(t, m.ByStatus, 4)
	assert.Equal(t, entity.SaleStatusPending, m.ByStatus[0].Status)
	assert.Zero(t, m.ByStatus[0].Count)
	assert.Equal(t, 7, m.TotalSales)
	assert.True(t, dec("350.50").Equal(m.TotalRevenue))
	assert.True(t, dec("50.50").Equal(m.RecoveredValue))
	assert.True(t, dec("120").Equal(m.LostValue))
	assert.InDelta(t, 0.25, m.RecoveryRate, 1e-9)
	assert.Equal(t, 4, m.TotalClients)
}

func TestBuildMetrics_Empty(t *testing.T) {
	m := buildMetrics(nil, 0)
	assert.Len(t, m.ByStatus, 4)
	assert.Zero(t, m.TotalSales)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Zero(t, m.RecoveryRate)
}

func TestBuildChart_FillsMissingDays(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []entity.DailyTotal{
		{Day: since.AddDate(0, 0, 2), Status: entity.SaleStatusRealized, Count: 2, Total: dec("99.90")},
		{Day: since, Status: entity.SaleStatusLost, Count: 1, Total: dec("10")},
		{Day: since.AddDate(0, 0, -5), Status: entity.SaleStatusLost, Count: 9, Total: dec("1")},
	}

	points := buildChart(rows, since, 3)
	require.Len(t, points, 3)
	assert.Equal(t, "2026-03-01", points[0].Day)
	assert.Equal(t, "2026-03-03", points[2].Day)

	assert.Equal(t, 1, points[0].Counts[entity.SaleStatusLost])
	assert.Equal(t, 0, points[1].Counts[entity.SaleStatusLost])
	assert.Equal(t, 2, points[2].Counts[entity.SaleStatusRealized])
	assert.True(t, dec("99.90").Equal(points[2].Values[entity.SaleStatusRealized]))
	for _, p := range points {
		assert.Len(t, p.Counts, 4)
		assert.Len(t, p.Values, 4)
	}
}

func TestSaleUseCase_ChartsRejectsLongRange(t *testing.T) {
	uc := NewSaleUseCase(new(MockSaleRepository), new(MockClientRepository), nil)
	_, err := uc.Charts(context.Background(), 400)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "days", verrs[0].Field)
}

func TestSaleUseCase_ChartsDefaultsToThirtyDays(t *testing.T) {
	sales := new(MockSaleRepository)
	sales.On("DailyTotals", mock.Anything, mock.Anything).Return([]entity.DailyTotal{}, nil)
	uc := NewSaleUseCase(sales, new(MockClientRepository), nil)

	points, err := uc.Charts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, points, 30)
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), points[29].Day)
}

func TestParseMoney(t *testing.T) {
	v, err := parseMoney("value", "R$ 1.234,56")
	require.NoError(t, err)
	assert.True(t, dec("1234.56").Equal(v))

	v, err = parseMoney("value", "1234.56")
	require.NoError(t, err)
	assert.True(t, dec("1234.56").Equal(v))

	for _, raw := range []string{"-10", "1e3", "1E3", "10.5555", ".5", "0x10", "R$ 0,001"} {
		_, err := parseMoney("value", raw)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs, raw)
		assert.Equal(t, "value", verrs[0].Field)
	}
}

func TestSaleUseCase_CreateDefaultsToPendingAndPublishes(t *testing.T) {
	ctx := context.Background()
	sales := new(MockSaleRepository)
	clients := new(MockClientRepository)
	producer := new(mockProducer)

	client := &entity.Client{ID: "c1", Name: "Ana", Phone: anaPhone, Email: "ana@example.com"}
	clients.On("FindByID", ctx, "c1").Return(client, nil)
	sales.On("Create", ctx, mock.AnythingOfType("*entity.Sale")).Return(nil)
	producer.On("PublishSaleEvent", ctx, mock.MatchedBy(func(p queue.SaleEventPayload) bool {
		return p.Event == "sale.pending" && p.Origin == "DASHBOARD" && p.ClientPhone == anaPhone
	})).Return(nil)

	uc := NewSaleUseCase(sales, clients, producer)
	sale, err := uc.Create(ctx, CreateSaleInput{ClientID: "c1", Product: "Plan A", Value: "R$ 50,00"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, sale.Status)
	assert.True(t, dec("50").Equal(sale.Value))
	producer.AssertExpectations(t)
}

func TestSaleUseCase_CreateUnknownClient(t *testing.T) {
	ctx := context.Background()
	clients := new(MockClientRepository)
	clients.On("FindByID", ctx, "missing").Return(nil, entity.ErrNotFound)

	uc := NewSaleUseCase(new(MockSaleRepository), clients, nil)
	_, err := uc.Create(ctx, CreateSaleInput{ClientID: "missing", Product: "Plan A", Value: "10"})

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "client", nf.Resource)
}

func TestSaleUseCase_UpdatePublishesOnlyOnStatusChange(t *testing.T) {
	ctx := context.Background()
	sales := new(MockSaleRepository)
	clients := new(MockClientRepository)
	producer := new(mockProducer)
	uc := NewSaleUseCase(sales, clients, producer)

	sales.On("FindByID", ctx, "s1").Return(&entity.Sale{ID: "s1", ClientID: "c1", Status: entity.SaleStatusPending, Value: dec("10")}, nil).Once()
	sales.On("Update", ctx, mock.Anything).Return(nil)

	notes := "called back"
	_, err := uc.Update(ctx, "s1", UpdateSaleInput{Notes: &notes})
	require.NoError(t, err)
	producer.AssertNotCalled(t, "PublishSaleEvent", mock.Anything, mock.Anything)

	sales.On("FindByID", ctx, "s1").Return(&entity.Sale{ID: "s1", ClientID: "c1", Status: entity.SaleStatusPending, Value: dec("10")}, nil).Once()
	clients.On("FindByID", ctx, "c1").Return(&entity.Client{ID: "c1"}, nil)
	producer.On("PublishSaleEvent", ctx, mock.MatchedBy(func(p queue.SaleEventPayload) bool {
		return p.Event == "sale.lost" && p.PreviousStatus == "pending"
	})).Return(nil)

	status := "lost"
	sale, err := uc.Update(ctx, "s1", UpdateSaleInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusLost, sale.Status)
	producer.AssertExpectations(t)
}

func TestSaleUseCase_ListRejectsUnknownStatus(t *testing.T) {
	uc := NewSaleUseCase(new(MockSaleRepository), new(MockClientRepository), nil)
	_, err := uc.List(context.Background(), entity.SaleFilter{Status: "paid"})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestSaleUseCase_ListClampsPage(t *testing.T) {
	ctx := context.Background()
	sales := new(MockSaleRepository)
	sales.On("List", ctx, entity.SaleFilter{Limit: 100, Offset: 0}).Return([]*entity.Sale{}, 0, nil)

	uc := NewSaleUseCase(sales, new(MockClientRepository), nil)
	page, err := uc.List(ctx, entity.SaleFilter{Limit: 1000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.NotNil(t, page.Items)
}
