package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an inclusive range of whole UTC days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// From is the first instant of the range.
func (r DateRange) From() time.Time { return StartOfDay(r.Start) }

// Until is the last instant of the range: the end day at 23:59:59.999999999.
func (r DateRange) Until() time.Time {
	return StartOfDay(r.End).Add(24*time.Hour - time.Nanosecond)
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From()) && !t.After(r.Until())
}

type TopSeller struct {
	MedicineID int64           `db:"medicine_id" json:"medicine_id"`
	Name       string          `db:"name" json:"name"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	Revenue    decimal.Decimal `db:"revenue" json:"revenue"`
}

type SalesSummary struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalRevenue decimal.Decimal `json:"total_sales"`
	SalesCount   int64           `json:"sales_count"`
	TopMedicines []TopSeller     `json:"top_medicines"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// Ledger pairs sales (credit) with completed purchases (debit) over a range.
type Ledger struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Sales       []Sale          `json:"sales"`
	Purchases   []PurchaseOrder `json:"purchases"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	NetBalance  decimal.Decimal `json:"net_balance"`
}

type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int64  `db:"count" json:"count"`
}

type Dashboard struct {
	TotalMedicines    int64           `json:"total_medicines"`
	LowStockCount     int64           `json:"low_stock_count"`
	ExpiredCount      int64           `json:"expired_count"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
	LowStockMedicines []Medicine      `json:"low_stock_medicines"`
	ExpiringSoon      []Medicine      `json:"expiring_soon"`
	Categories        []CategoryCount `json:"categories"`
}
