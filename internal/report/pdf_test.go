package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
)

func sampleLedger() domain.Ledger {
	medID := int64(1)
	when := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	return domain.Ledger{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
		Sales: []domain.Sale{{
			ID: 1, MedicineID: &medID, Quantity: 3,
			UnitPrice: decimal.NewFromInt(10), TotalAmount: decimal.NewFromInt(30),
			SaleDate: when, CustomerName: "Zoë Müller", MedicineName: "Paracetamol 500mg",
		}},
		Purchases: []domain.PurchaseOrder{{
			ID: 1, MedicineID: &medID, Quantity: 20,
			UnitPrice: decimal.NewFromInt(2), TotalAmount: decimal.NewFromInt(40),
			Status: domain.OrderCompleted, OrderDate: when,
			SupplierName: "Acme Pharma Distribution and Logistics Incorporated", MedicineName: "Paracetamol 500mg",
		}},
		TotalCredit: decimal.NewFromInt(30),
		TotalDebit:  decimal.NewFromInt(40),
		NetBalance:  decimal.NewFromInt(-10),
	}
}

func TestRenderLedger(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPDF("PharmaSync Ledger Report").RenderLedger(&buf, sampleLedger()); err != nil {
		t.Fatalf("RenderLedger: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output does not look like a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestRenderEmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	l := domain.Ledger{StartDate: "2026-01-01", EndDate: "2026-01-31"}
	if err := NewPDF("Empty").RenderLedger(&buf, l); err != nil {
		t.Fatalf("RenderLedger: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderLedgerWriteFailure(t *testing.T) {
	err := NewPDF("PharmaSync").RenderLedger(failingWriter{}, sampleLedger())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("err = %v, want write failure", err)
	}
}

func TestFitTruncates(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 10)
	long := strings.Repeat("W", 80)
	got := fit(doc, long, 30)
	if !strings.HasSuffix(got, "...") || len(got) >= len(long) {
		t.Fatalf("fit = %q", got)
	}
	if doc.GetStringWidth(got) > 30 {
		t.Fatalf("fit result too wide: %v", doc.GetStringWidth(got))
	}
	if fit(doc, "short", 30) != "short" {
		t.Fatal("short strings must be kept")
	}
}
