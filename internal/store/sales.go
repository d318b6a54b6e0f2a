package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
)

const saleSelect = `SELECT s.id, s.medicine_id, s.quantity, s.unit_price, s.total_amount, s.sale_date, s.customer_name,
                COALESCE(m.name, '') AS medicine_name
                FROM sales s
                LEFT JOIN medicines m ON m.id = s.medicine_id`

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (int64, error) {
	return s.insert(ctx, `INSERT INTO sales (medicine_id, quantity, unit_price, total_amount, sale_date, customer_name)
                VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sale.MedicineID, sale.Quantity, sale.UnitPrice, sale.TotalAmount, sale.SaleDate, sale.CustomerName)
}

func (s *Store) GetSale(ctx context.Context, id int64) (domain.Sale, error) {
	var sale domain.Sale
	err := s.get(ctx, &sale, saleSelect+` WHERE s.id = $1`, id)
	return sale, err
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := s.q.SelectContext(ctx, &sales, saleSelect+` ORDER BY s.sale_date DESC, s.id DESC`)
	return sales, err
}

// SalesForMedicine returns the most recent sales of one medicine.
func (s *Store) SalesForMedicine(ctx context.Context, medicineID int64, limit int) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := s.q.SelectContext(ctx, &sales, saleSelect+` WHERE s.medicine_id = $1 ORDER BY s.sale_date DESC, s.id DESC LIMIT $2`, medicineID, limit)
	return sales, err
}

func (s *Store) SalesBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := s.q.SelectContext(ctx, &sales, saleSelect+` WHERE s.sale_date >= $1 AND s.sale_date <= $2 ORDER BY s.sale_date ASC, s.id ASC`, from, to)
	return sales, err
}

// SalesTotals returns the revenue and number of sales within [from, to].
// Amounts are added as decimals so REAL storage does not leak float error.
func (s *Store) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var amounts []decimal.Decimal
	if err := s.q.SelectContext(ctx, &amounts, `SELECT total_amount FROM sales WHERE sale_date >= $1 AND sale_date <= $2`, from, to); err != nil {
		return decimal.Zero, 0, err
	}
	revenue := decimal.Zero
	for _, a := range amounts {
		revenue = revenue.Add(a)
	}
	return revenue, int64(len(amounts)), nil
}

// TopSellers ranks medicines by quantity sold within [from, to]; equal
// quantities are ordered by medicine id. Revenue is summed per medicine in Go.
func (s *Store) TopSellers(ctx context.Context, from, to time.Time, limit int) ([]domain.TopSeller, error) {
	rows := []domain.TopSeller{}
	err := s.q.SelectContext(ctx, &rows, `SELECT m.id AS medicine_id, m.name, SUM(s.quantity) AS quantity
                FROM sales s
                JOIN medicines m ON m.id = s.medicine_id
                WHERE s.sale_date >= $1 AND s.sale_date <= $2
                GROUP BY m.id, m.name
                ORDER BY SUM(s.quantity) DESC, m.id ASC
                LIMIT $3`, from, to, limit)
	if err != nil || len(rows) == 0 {
		return rows, err
	}

	var lines []struct {
		MedicineID  int64           `db:"medicine_id"`
		TotalAmount decimal.Decimal `db:"total_amount"`
	}
	err = s.q.SelectContext(ctx, &lines, `SELECT medicine_id, total_amount FROM sales
                WHERE medicine_id IS NOT NULL AND sale_date >= $1 AND sale_date <= $2`, from, to)
	if err != nil {
		return nil, err
	}
	revenue := make(map[int64]decimal.Decimal, len(rows))
	for _, l := range lines {
		revenue[l.MedicineID] = revenue[l.MedicineID].Add(l.TotalAmount)
	}
	for i := range rows {
		rows[i].Revenue = revenue[rows[i].MedicineID]
	}
	return rows, nil
}
