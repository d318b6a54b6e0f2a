package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID           int64           `db:"id" json:"id"`
	MedicineID   *int64          `db:"medicine_id" json:"medicine_id"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	SaleDate     time.Time       `db:"sale_date" json:"sale_date"`
	CustomerName string          `db:"customer_name" json:"customer_name"`

	MedicineName string `db:"medicine_name" json:"medicine_name,omitempty"`
}

// MoneyPlaces is the number of decimal places stored for prices and totals.
const MoneyPlaces = 2

// WholeCents reports whether d fits in MoneyPlaces decimal places.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// LineTotal is quantity × unit price.
func LineTotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
