package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the purchase order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type PurchaseOrder struct {
	ID           int64           `db:"id" json:"id"`
	SupplierID   *int64          `db:"supplier_id" json:"supplier_id"`
	MedicineID   *int64          `db:"medicine_id" json:"medicine_id"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status       string          `db:"status" json:"status"`
	OrderDate    time.Time       `db:"order_date" json:"order_date"`
	DeliveryDate *time.Time      `db:"delivery_date" json:"delivery_date,omitempty"`
	Notes        string          `db:"notes" json:"notes"`

	SupplierName string `db:"supplier_name" json:"supplier_name,omitempty"`
	MedicineName string `db:"medicine_name" json:"medicine_name,omitempty"`
}

// Pending reports whether the order can still be completed or cancelled.
func (o PurchaseOrder) Pending() bool { return o.Status == OrderPending }
