package store

import (
	"context"
	"time"

	"pharmasync/m/domain"
)

const orderSelect = `SELECT po.id, po.supplier_id, po.medicine_id, po.quantity, po.unit_price, po.total_amount, po.status,
                po.order_date, po.delivery_date, po.notes,
                COALESCE(sp.name, '') AS supplier_name, COALESCE(m.name, '') AS medicine_name
                FROM purchase_orders po
                LEFT JOIN suppliers sp ON sp.id = po.supplier_id
                LEFT JOIN medicines m ON m.id = po.medicine_id`

func (s *Store) CreatePurchaseOrder(ctx context.Context, o domain.PurchaseOrder) (int64, error) {
	return s.insert(ctx, `INSERT INTO purchase_orders (supplier_id, medicine_id, quantity, unit_price, total_amount, status, order_date, notes)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		o.SupplierID, o.MedicineID, o.Quantity, o.UnitPrice, o.TotalAmount, o.Status, o.OrderDate, o.Notes)
}

func (s *Store) GetPurchaseOrder(ctx context.Context, id int64) (domain.PurchaseOrder, error) {
	var o domain.PurchaseOrder
	err := s.get(ctx, &o, orderSelect+` WHERE po.id = $1`, id)
	return o, err
}

// ListPurchaseOrders returns orders newest first, optionally limited to one status.
func (s *Store) ListPurchaseOrders(ctx context.Context, status string) ([]domain.PurchaseOrder, error) {
	orders := []domain.PurchaseOrder{}
	var err error
	if status == "" {
		err = s.q.SelectContext(ctx, &orders, orderSelect+` ORDER BY po.order_date DESC, po.id DESC`)
	} else {
		err = s.q.SelectContext(ctx, &orders, orderSelect+` WHERE po.status = $1 ORDER BY po.order_date DESC, po.id DESC`, status)
	}
	return orders, err
}

// PurchaseOrdersForMedicine returns the most recent orders of one medicine.
func (s *Store) PurchaseOrdersForMedicine(ctx context.Context, medicineID int64, limit int) ([]domain.PurchaseOrder, error) {
	orders := []domain.PurchaseOrder{}
	err := s.q.SelectContext(ctx, &orders, orderSelect+` WHERE po.medicine_id = $1 ORDER BY po.order_date DESC, po.id DESC LIMIT $2`, medicineID, limit)
	return orders, err
}

// TransitionPurchaseOrder moves an order from one status to another. It
// reports false when the order is not currently in the from status.
func (s *Store) TransitionPurchaseOrder(ctx context.Context, id int64, from, to string, deliveredAt *time.Time) (bool, error) {
	n, err := s.execAffected(ctx, `UPDATE purchase_orders SET status = $1, delivery_date = COALESCE($2, delivery_date) WHERE id = $3 AND status = $4`,
		to, deliveredAt, id, from)
	return n == 1, err
}

// CompletedPurchasesBetween returns completed orders placed within [from, to].
func (s *Store) CompletedPurchasesBetween(ctx context.Context, from, to time.Time) ([]domain.PurchaseOrder, error) {
	orders := []domain.PurchaseOrder{}
	err := s.q.SelectContext(ctx, &orders, orderSelect+` WHERE po.status = $1 AND po.order_date >= $2 AND po.order_date <= $3
                ORDER BY po.order_date ASC, po.id ASC`, domain.OrderCompleted, from, to)
	return orders, err
}
