package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
)

const (
	pageMargin = 15.0
	rowHeight  = 7.0
)

type column struct {
	title string
	width float64
	align string
}

var (
	creditColumns = []column{
		{"Date", 32, "L"},
		{"Medicine", 58, "L"},
		{"Customer", 46, "L"},
		{"Qty", 16, "R"},
		{"Amount", 28, "R"},
	}
	debitColumns = []column{
		{"Date", 32, "L"},
		{"Supplier", 50, "L"},
		{"Medicine", 54, "L"},
		{"Qty", 16, "R"},
		{"Amount", 28, "R"},
	}
)

// PDF renders ledgers as A4 documents using the core Helvetica font.
type PDF struct {
	Title string
}

// NewPDF constructs a renderer whose documents carry title in their header.
func NewPDF(title string) *PDF {
	return &PDF{Title: title}
}

// RenderLedger writes l to w as a PDF.
func (p *PDF) RenderLedger(w io.Writer, l domain.Ledger) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle(p.Title, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFooterFunc(func() {
		doc.SetY(-pageMargin)
		doc.SetFont("Helvetica", "I", 8)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, tr(p.Title), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, rowHeight, fmt.Sprintf("Period: %s to %s", l.StartDate, l.EndDate), "", 1, "L", false, 0, "")
	doc.Ln(4)

	summary := [][2]string{
		{"Total credit (sales)", money(l.TotalCredit)},
		{"Total debit (completed purchases)", money(l.TotalDebit)},
		{"Net balance", money(l.NetBalance)},
	}
	for i, row := range summary {
		style := ""
		if i == len(summary)-1 {
			style = "B"
		}
		doc.SetFont("Helvetica", style, 11)
		doc.CellFormat(120, rowHeight, row[0], "1", 0, "L", false, 0, "")
		doc.CellFormat(60, rowHeight, row[1], "1", 1, "R", false, 0, "")
	}
	doc.Ln(6)

	section(doc, "Credits", creditColumns)
	for _, s := range l.Sales {
		tableRow(doc, creditColumns, []string{
			s.SaleDate.UTC().Format("2006-01-02 15:04"),
			tr(orDash(s.MedicineName)),
			tr(orDash(s.CustomerName)),
			strconv.FormatInt(s.Quantity, 10),
			money(s.TotalAmount),
		})
	}
	if len(l.Sales) == 0 {
		emptyRow(doc, creditColumns, "No sales in this period")
	}
	doc.Ln(6)

	section(doc, "Debits", debitColumns)
	for _, po := range l.Purchases {
		tableRow(doc, debitColumns, []string{
			po.OrderDate.UTC().Format("2006-01-02 15:04"),
			tr(orDash(po.SupplierName)),
			tr(orDash(po.MedicineName)),
			strconv.FormatInt(po.Quantity, 10),
			money(po.TotalAmount),
		})
	}
	if len(l.Purchases) == 0 {
		emptyRow(doc, debitColumns, "No completed purchases in this period")
	}

	if doc.Err() {
		return doc.Error()
	}
	return doc.Output(w)
}

func section(doc *fpdf.Fpdf, title string, cols []column) {
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 236, 242)
	for _, c := range cols {
		doc.CellFormat(c.width, rowHeight, c.title, "1", 0, c.align, true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 10)
}

func tableRow(doc *fpdf.Fpdf, cols []column, values []string) {
	for i, c := range cols {
		doc.CellFormat(c.width, rowHeight, fit(doc, values[i], c.width), "1", 0, c.align, false, 0, "")
	}
	doc.Ln(-1)
}

func emptyRow(doc *fpdf.Fpdf, cols []column, text string) {
	var width float64
	for _, c := range cols {
		width += c.width
	}
	doc.SetFont("Helvetica", "I", 10)
	doc.CellFormat(width, rowHeight, text, "1", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
}

// fit shortens s with an ellipsis until it fits a cell of the given width.
// s is already single-byte encoded, so it is cut bytewise.
func fit(doc *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2*doc.GetCellMargin()
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && doc.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
