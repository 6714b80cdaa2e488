package database

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

const saleColumns = `id, client_id, product, value, status, date, notes, external_sale_id, payment_method, created_at, updated_at`

type SaleRepository struct {
	DB DBTX
}

func NewSaleRepository(db DBTX) *SaleRepository {
	return &SaleRepository{DB: db}
}

func (r *SaleRepository) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		s.ID,
		s.ClientID,
		s.Product,
		s.Value,
		s.Status,
		s.Date,
		s.Notes,
		s.ExternalSaleID,
		s.PaymentMethod,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return mapError(err)
}

func (r *SaleRepository) FindByID(ctx context.Context, id string) (*entity.Sale, error) {
	return scanSale(r.DB.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
}

// FindLatestOpenByClientID returns the newest pending or lost sale and locks its row until
// the surrounding transaction ends.
func (r *SaleRepository) FindLatestOpenByClientID(ctx context.Context, clientID string) (*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE client_id = $1 AND status IN ('pending', 'lost')
		ORDER BY created_at DESC, id DESC
		LIMIT 1
		FOR UPDATE
	`
	return scanSale(r.DB.QueryRowContext(ctx, query, clientID))
}

func (r *SaleRepository) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.ClientID != "" {
		w.add("client_id = $%d", f.ClientID)
	}

	total, err := count(ctx, r.DB, `SELECT COUNT(*) FROM sales`+w.String(), w.args...)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f.Limit, f.Offset)
	rows, err := r.DB.QueryContext(ctx, `SELECT `+saleColumns+` FROM sales`+w.String()+` ORDER BY date DESC, id`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *SaleRepository) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales
		SET product = $2, value = $3, status = $4, notes = $5, external_sale_id = $6,
		    payment_method = $7, updated_at = $8
		WHERE id = $1
	`
	return expectOne(r.DB.ExecContext(ctx, query,
		s.ID, s.Product, s.Value, s.Status, s.Notes, s.ExternalSaleID, s.PaymentMethod, s.UpdatedAt))
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	return expectOne(r.DB.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id))
}

func (r *SaleRepository) TotalsByStatus(ctx context.Context) ([]entity.StatusTotal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(value), 0)
		FROM sales
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.StatusTotal
	for rows.Next() {
		var t entity.StatusTotal
		if err := rows.Scan(&t.Status, &t.Count, &t.Total); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SaleRepository) DailyTotals(ctx context.Context, since time.Time) ([]entity.DailyTotal, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT date_trunc('day', date AT TIME ZONE 'UTC') AS day, status, COUNT(*), COALESCE(SUM(value), 0)
		FROM sales
		WHERE date >= $1
		GROUP BY 1, 2
		ORDER BY 1
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.DailyTotal
	for rows.Next() {
		var d entity.DailyTotal
		if err := rows.Scan(&d.Day, &d.Status, &d.Count, &d.Total); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ExpirePending marks every pending sale created before cutoff as lost and returns them.
func (r *SaleRepository) ExpirePending(ctx context.Context, cutoff time.Time) ([]*entity.Sale, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE sales
		SET status = 'lost', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
		RETURNING `+saleColumns, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSale(s rowScanner) (*entity.Sale, error) {
	var sale entity.Sale
	err := s.Scan(
		&sale.ID,
		&sale.ClientID,
		&sale.Product,
		&sale.Value,
		&sale.Status,
		&sale.Date,
		&sale.Notes,
		&sale.ExternalSaleID,
		&sale.PaymentMethod,
		&sale.CreatedAt,
		&sale.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &sale, nil
}
