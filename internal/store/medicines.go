package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
)

const medicineColumns = `id, name, generic_name, category, manufacturer, quantity, price, expiry_date,
        batch_number, description, location, reorder_level, created_at, updated_at`

// ListMedicines returns the catalog entries matching f. today is the first
// instant of the current day and drives the "expired" filter.
func (s *Store) ListMedicines(ctx context.Context, f domain.MedicineFilter, today time.Time) ([]domain.Medicine, error) {
	var (
		args    []any
		clauses []string
	)

	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, "(LOWER(name) LIKE "+p+" OR LOWER(generic_name) LIKE "+p+" OR LOWER(manufacturer) LIKE "+p+")")
	}

	if f.Category != "" && f.Category != "all" {
		args = append(args, f.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}

	switch f.Stock {
	case domain.StockLow:
		clauses = append(clauses, "quantity <= reorder_level")
	case domain.StockOut:
		clauses = append(clauses, "quantity = 0")
	case domain.StockExpired:
		args = append(args, today)
		clauses = append(clauses, fmt.Sprintf("expiry_date IS NOT NULL AND expiry_date < $%d", len(args)))
	}

	query := `SELECT ` + medicineColumns + ` FROM medicines`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY " + medicineOrder(f.Sort)

	medicines := []domain.Medicine{}
	if err := s.q.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, err
	}
	return medicines, nil
}

func medicineOrder(sort string) string {
	switch sort {
	case domain.SortQuantity:
		return "quantity DESC, id ASC"
	case domain.SortPrice:
		return "price DESC, id ASC"
	case domain.SortExpiry:
		return "expiry_date IS NULL, expiry_date ASC, id ASC"
	default:
		return "name ASC, id ASC"
	}
}

func (s *Store) GetMedicine(ctx context.Context, id int64) (domain.Medicine, error) {
	var m domain.Medicine
	err := s.get(ctx, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id)
	return m, err
}

// CreateMedicine inserts m and returns its id.
func (s *Store) CreateMedicine(ctx context.Context, m domain.Medicine) (int64, error) {
	return s.insert(ctx, `INSERT INTO medicines (name, generic_name, category, manufacturer, quantity, price, expiry_date,
                batch_number, description, location, reorder_level, created_at, updated_at)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
		m.Name, m.GenericName, m.Category, m.Manufacturer, m.Quantity, m.Price, m.ExpiryDate,
		m.BatchNumber, m.Description, m.Location, m.ReorderLevel, m.CreatedAt, m.UpdatedAt)
}

// UpdateMedicine overwrites every editable column of m.
func (s *Store) UpdateMedicine(ctx context.Context, m domain.Medicine) error {
	n, err := s.execAffected(ctx, `UPDATE medicines SET name = $1, generic_name = $2, category = $3, manufacturer = $4,
                quantity = $5, price = $6, expiry_date = $7, batch_number = $8, description = $9, location = $10,
                reorder_level = $11, updated_at = $12 WHERE id = $13`,
		m.Name, m.GenericName, m.Category, m.Manufacturer, m.Quantity, m.Price, m.ExpiryDate,
		m.BatchNumber, m.Description, m.Location, m.ReorderLevel, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DetachMedicine clears the medicine reference of dependent orders and sales.
func (s *Store) DetachMedicine(ctx context.Context, id int64) error {
	if _, err := s.q.ExecContext(ctx, `UPDATE purchase_orders SET medicine_id = NULL WHERE medicine_id = $1`, id); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `UPDATE sales SET medicine_id = NULL WHERE medicine_id = $1`, id)
	return err
}

func (s *Store) DeleteMedicine(ctx context.Context, id int64) error {
	n, err := s.execAffected(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock removes qty units if at least qty are on hand. It reports
// false, without changing anything, when stock is insufficient.
func (s *Store) DecrementStock(ctx context.Context, id, qty int64, now time.Time) (bool, error) {
	n, err := s.execAffected(ctx, `UPDATE medicines SET quantity = quantity - $1, updated_at = $2 WHERE id = $3 AND quantity >= $1`, qty, now, id)
	return n == 1, err
}

func (s *Store) IncrementStock(ctx context.Context, id, qty int64, now time.Time) error {
	n, err := s.execAffected(ctx, `UPDATE medicines SET quantity = quantity + $1, updated_at = $2 WHERE id = $3`, qty, now, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories lists the distinct non-empty categories.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.q.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM medicines WHERE category <> '' ORDER BY category`)
	return categories, err
}

func (s *Store) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	counts := []domain.CategoryCount{}
	err := s.q.SelectContext(ctx, &counts, `SELECT category, COUNT(*) AS count FROM medicines GROUP BY category ORDER BY category`)
	return counts, err
}

func (s *Store) CountMedicines(ctx context.Context) (int64, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM medicines`)
	return n, err
}

func (s *Store) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM medicines WHERE quantity <= reorder_level`)
	return n, err
}

func (s *Store) CountExpired(ctx context.Context, today time.Time) (int64, error) {
	var n int64
	err := s.q.GetContext(ctx, &n, `SELECT COUNT(*) FROM medicines WHERE expiry_date IS NOT NULL AND expiry_date < $1`, today)
	return n, err
}

// LowStockMedicines returns up to limit low-stock entries, emptiest first.
func (s *Store) LowStockMedicines(ctx context.Context, limit int) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.q.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines
                WHERE quantity <= reorder_level ORDER BY quantity ASC, id ASC LIMIT $1`, limit)
	return medicines, err
}

// ExpiringBetween returns up to limit entries whose expiry date is in [from, to].
func (s *Store) ExpiringBetween(ctx context.Context, from, to time.Time, limit int) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.q.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines
                WHERE expiry_date IS NOT NULL AND expiry_date >= $1 AND expiry_date <= $2
                ORDER BY expiry_date ASC, id ASC LIMIT $3`, from, to, limit)
	return medicines, err
}

func (s *Store) InStockMedicines(ctx context.Context) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.q.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines WHERE quantity > 0 ORDER BY name ASC, id ASC`)
	return medicines, err
}

// StockValue sums quantity × price over the whole catalog.
func (s *Store) StockValue(ctx context.Context) (decimal.Decimal, error) {
	var rows []struct {
		Quantity int64           `db:"quantity"`
		Price    decimal.Decimal `db:"price"`
	}
	if err := s.q.SelectContext(ctx, &rows, `SELECT quantity, price FROM medicines`); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(domain.LineTotal(r.Quantity, r.Price))
	}
	return total, nil
}
