package usecase

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const (
	originManual     = "DASHBOARD"
	defaultChartDays = 30
	maxChartDays     = 365
)

type SaleUseCase struct {
	Sales    entity.SaleRepositoryInterface
	Clients  entity.ClientRepositoryInterface
	Producer QueueProducerInterface
}

func NewSaleUseCase(sales entity.SaleRepositoryInterface, clients entity.ClientRepositoryInterface, producer QueueProducerInterface) *SaleUseCase {
	return &SaleUseCase{Sales: sales, Clients: clients, Producer: producer}
}

func (uc *SaleUseCase) Create(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	value, err := parseMoney("value", in.Value)
	if err != nil {
		return nil, err
	}

	client, err := uc.Clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, notFoundOr("client", in.ClientID, "find client", err)
	}

	status := entity.SaleStatus(in.Status)
	if status == "" {
		status = entity.SaleStatusPending
	}

	sale := entity.NewSale(client.ID, in.Product, value, status)
	sale.Notes = in.Notes
	sale.ExternalSaleID = in.ExternalSaleID
	sale.PaymentMethod = in.PaymentMethod

	if err := uc.Sales.Create(ctx, sale); err != nil {
		return nil, persistence("create sale", err)
	}
	uc.publish(ctx, client, sale, "")
	return sale, nil
}

func (uc *SaleUseCase) Get(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.Sales.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("sale", id, "find sale", err)
	}
	return sale, nil
}

func (uc *SaleUseCase) List(ctx context.Context, f entity.SaleFilter) (*Page[*entity.Sale], error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fieldError("status", "must be one of: pending, realized, recovered, lost")
	}
	f.Limit, f.Offset = Paginate(f.Limit, f.Offset)

	items, total, err := uc.Sales.List(ctx, f)
	if err != nil {
		return nil, persistence("list sales", err)
	}
	return newPage(items, total, f.Limit, f.Offset), nil
}

func (uc *SaleUseCase) Update(ctx context.Context, id string, in UpdateSaleInput) (*entity.Sale, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	sale, err := uc.Sales.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("sale", id, "find sale", err)
	}
	previous := sale.Status

	if in.Value != nil {
		value, err := parseMoney("value", *in.Value)
		if err != nil {
			return nil, err
		}
		sale.Value = value
	}
	if in.Product != nil {
		sale.Product = *in.Product
	}
	if in.Status != nil {
		sale.Status = entity.SaleStatus(*in.Status)
	}
	if in.Notes != nil {
		sale.Notes = in.Notes
	}
	if in.ExternalSaleID != nil {
		sale.ExternalSaleID = in.ExternalSaleID
	}
	if in.PaymentMethod != nil {
		sale.PaymentMethod = in.PaymentMethod
	}
	sale.UpdatedAt = time.Now()

	if err := uc.Sales.Update(ctx, sale); err != nil {
		return nil, notFoundOr("sale", id, "update sale", err)
	}

	if sale.Status != previous {
		client, err := uc.Clients.FindByID(ctx, sale.ClientID)
		if err != nil {
			log.Printf("⚠️ [SALES] cliente %s da venda %s não carregado: %v", sale.ClientID, sale.ID, err)
		}
		uc.publish(ctx, client, sale, previous)
	}
	return sale, nil
}

func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Sales.Delete(ctx, id); err != nil {
		return notFoundOr("sale", id, "delete sale", err)
	}
	return nil
}

// Metrics aggregates value by status. Revenue counts realized and recovered sales.
func (uc *SaleUseCase) Metrics(ctx context.Context) (*SalesMetrics, error) {
	totals, err := uc.Sales.TotalsByStatus(ctx)
	if err != nil {
		return nil, persistence("sales totals", err)
	}
	clients, err := uc.Clients.Count(ctx)
	if err != nil {
		return nil, persistence("count clients", err)
	}
	return buildMetrics(totals, clients), nil
}

func buildMetrics(totals []entity.StatusTotal, clients int) *SalesMetrics {
	byStatus := make(map[entity.SaleStatus]entity.StatusTotal, len(totals))
	for _, t := range totals {
		byStatus[t.Status] = t
	}

	m := &SalesMetrics{
		ByStatus:     make([]entity.StatusTotal, 0, len(entity.SaleStatuses)),
		TotalRevenue: decimal.Zero,
		TotalClients: clients,
	}
	for _, s := range entity.SaleStatuses {
		t, ok := byStatus[s]
		if !ok {
			t = entity.StatusTotal{Status: s, Total: decimal.Zero}
		}
		m.ByStatus = append(m.ByStatus, t)
		m.TotalSales += t.Count
		if s.Paid() {
			m.TotalRevenue = m.TotalRevenue.Add(t.Total)
		}
	}

	recovered := byStatus[entity.SaleStatusRecovered]
	lost := byStatus[entity.SaleStatusLost]
	m.RecoveredValue = recovered.Total
	m.LostValue = lost.Total
	if n := recovered.Count + lost.Count; n > 0 {
		m.RecoveryRate = float64(recovered.Count) / float64(n)
	}
	return m
}

// Charts returns one point per day for the last days days, oldest first.
func (uc *SaleUseCase) Charts(ctx context.Context, days int) ([]ChartPoint, error) {
	if days <= 0 {
		days = defaultChartDays
	}
	if days > maxChartDays {
		return nil, fieldError("days", "must not exceed 365")
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))

	rows, err := uc.Sales.DailyTotals(ctx, since)
	if err != nil {
		return nil, persistence("daily totals", err)
	}
	return buildChart(rows, since, days), nil
}

func buildChart(rows []entity.DailyTotal, since time.Time, days int) []ChartPoint {
	index := make(map[string]int, days)
	points := make([]ChartPoint, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format(time.DateOnly)
		index[day] = i
		p := ChartPoint{
			Day:    day,
			Counts: make(map[entity.SaleStatus]int, len(entity.SaleStatuses)),
			Values: make(map[entity.SaleStatus]decimal.Decimal, len(entity.SaleStatuses)),
		}
		for _, s := range entity.SaleStatuses {
			p.Counts[s] = 0
			p.Values[s] = decimal.Zero
		}
		points[i] = p
	}

	for _, r := range rows {
		i, ok := index[r.Day.UTC().Format(time.DateOnly)]
		if !ok {
			continue
		}
		points[i].Counts[r.Status] += r.Count
		points[i].Values[r.Status] = points[i].Values[r.Status].Add(r.Total)
	}

	sort.Slice(points, func(a, b int) bool { return points[a].Day < points[b].Day })
	return points
}

func (uc *SaleUseCase) publish(ctx context.Context, client *entity.Client, sale *entity.Sale, previous entity.SaleStatus) {
	if uc.Producer == nil {
		return
	}
	if err := uc.Producer.PublishSaleEvent(ctx, saleEventPayload(client, sale, previous, originManual)); err != nil {
		log.Printf("⚠️ [SALES] evento da venda %s não publicado: %v", sale.ID, err)
	}
}

// plainDecimal is the dot-separated form accepted for manual values besides BRL text.
var plainDecimal = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// parseMoney accepts BRL formatting ("R$ 1.234,56") or a plain decimal ("1234.56") and
// reports failures against field. BRL wins when both readings are possible.
func parseMoney(field, raw string) (decimal.Decimal, error) {
	v, err := ParseBRL(raw)
	if err == nil {
		return v, nil
	}
	if plain := strings.TrimSpace(raw); plainDecimal.MatchString(plain) {
		return decimal.RequireFromString(plain), nil
	}
	return decimal.Zero, fieldError(field, err.Error())
}
