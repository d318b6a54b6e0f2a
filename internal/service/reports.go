package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
)

const (
	dateLayout        = "2006-01-02"
	defaultReportDays = 30
	topSellerLimit    = 10
)

// ParseRange builds an inclusive day range from YYYY-MM-DD strings. A
// missing start defaults to 30 days ago and a missing end to today.
func (s *Service) ParseRange(start, end string) (domain.DateRange, error) {
	today := s.today()
	r := domain.DateRange{Start: today.AddDate(0, 0, -defaultReportDays), End: today}

	if start = strings.TrimSpace(start); start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return r, domain.Validation("start_date must be in YYYY-MM-DD format")
		}
		r.Start = t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return r, domain.Validation("end_date must be in YYYY-MM-DD format")
		}
		r.End = t
	}
	if r.Start.After(r.End) {
		return r, domain.Validation("start_date must not be after end_date")
	}
	return r, nil
}

// SalesSummary reports revenue, sale count and top sellers within r, and
// the current valuation of the whole stock.
func (s *Service) SalesSummary(ctx context.Context, r domain.DateRange) (domain.SalesSummary, error) {
	summary := domain.SalesSummary{
		StartDate: r.Start.Format(dateLayout),
		EndDate:   r.End.Format(dateLayout),
	}
	var err error
	if summary.TotalRevenue, summary.SalesCount, err = s.store.SalesTotals(ctx, r.From(), r.Until()); err != nil {
		return summary, domain.Persistence("unable to total sales", err)
	}
	if summary.TopMedicines, err = s.store.TopSellers(ctx, r.From(), r.Until(), topSellerLimit); err != nil {
		return summary, domain.Persistence("unable to rank medicines", err)
	}
	if summary.StockValue, err = s.store.StockValue(ctx); err != nil {
		return summary, domain.Persistence("unable to value stock", err)
	}
	return summary, nil
}

// Ledger credits the sales and debits the completed purchase orders placed within r.
func (s *Service) Ledger(ctx context.Context, r domain.DateRange) (domain.Ledger, error) {
	l := domain.Ledger{
		StartDate:   r.Start.Format(dateLayout),
		EndDate:     r.End.Format(dateLayout),
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
	}
	var err error
	if l.Sales, err = s.store.SalesBetween(ctx, r.From(), r.Until()); err != nil {
		return l, domain.Persistence("unable to load sales", err)
	}
	if l.Purchases, err = s.store.CompletedPurchasesBetween(ctx, r.From(), r.Until()); err != nil {
		return l, domain.Persistence("unable to load purchases", err)
	}
	for _, sale := range l.Sales {
		l.TotalCredit = l.TotalCredit.Add(sale.TotalAmount)
	}
	for _, po := range l.Purchases {
		l.TotalDebit = l.TotalDebit.Add(po.TotalAmount)
	}
	l.NetBalance = l.TotalCredit.Sub(l.TotalDebit)
	return l, nil
}

// ExportLedger renders the ledger for r into a document.
func (s *Service) ExportLedger(ctx context.Context, r domain.DateRange) ([]byte, error) {
	l, err := s.Ledger(ctx, r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.renderer.RenderLedger(&buf, l); err != nil {
		return nil, domain.Export("error generating PDF", err)
	}
	return buf.Bytes(), nil
}
