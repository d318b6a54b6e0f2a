package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReorderLevel is used when a medicine is created without a threshold.
const DefaultReorderLevel = 10

type Medicine struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	GenericName  string          `db:"generic_name" json:"generic_name"`
	Category     string          `db:"category" json:"category"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
	ExpiryDate   *time.Time      `db:"expiry_date" json:"expiry_date,omitempty"`
	BatchNumber  string          `db:"batch_number" json:"batch_number"`
	Description  string          `db:"description" json:"description"`
	Location     string          `db:"location" json:"location"`
	ReorderLevel int64           `db:"reorder_level" json:"reorder_level"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// LowStock reports whether the quantity is at or below the reorder level.
func (m Medicine) LowStock() bool { return m.Quantity <= m.ReorderLevel }

func (m Medicine) OutOfStock() bool { return m.Quantity == 0 }

// Expired reports whether the expiry date lies strictly before the day of now.
func (m Medicine) Expired(now time.Time) bool {
	if m.ExpiryDate == nil {
		return false
	}
	return m.ExpiryDate.Before(StartOfDay(now))
}

// ExpiringWithin reports whether the expiry date falls in [today, today+days].
func (m Medicine) ExpiringWithin(now time.Time, days int) bool {
	if m.ExpiryDate == nil {
		return false
	}
	today := StartOfDay(now)
	return !m.ExpiryDate.Before(today) && !m.ExpiryDate.After(today.AddDate(0, 0, days))
}

// StockValue is quantity × price.
func (m Medicine) StockValue() decimal.Decimal {
	return m.Price.Mul(decimal.NewFromInt(m.Quantity))
}

// MedicineStatus is the derived stock state shown next to a catalog entry.
type MedicineStatus struct {
	LowStock     bool `json:"low_stock"`
	OutOfStock   bool `json:"out_of_stock"`
	Expired      bool `json:"expired"`
	ExpiringSoon bool `json:"expiring_soon"`
}

// ExpiringSoonDays is the look-ahead window for expiry alerts.
const ExpiringSoonDays = 30

// MedicineEntry is a catalog entry together with its derived status.
type MedicineEntry struct {
	Medicine
	Status MedicineStatus `json:"status"`
}

func (m Medicine) Status(now time.Time) MedicineStatus {
	return MedicineStatus{
		LowStock:     m.LowStock(),
		OutOfStock:   m.OutOfStock(),
		Expired:      m.Expired(now),
		ExpiringSoon: m.ExpiringWithin(now, ExpiringSoonDays),
	}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Inventory filter and sort keys.
const (
	StockLow     = "low"
	StockOut     = "out"
	StockExpired = "expired"

	SortName     = "name"
	SortQuantity = "quantity"
	SortExpiry   = "expiry"
	SortPrice    = "price"
)

// MedicineFilter selects and orders catalog entries. Zero values mean no filter.
type MedicineFilter struct {
	Search   string
	Category string
	Stock    string
	Sort     string
}
