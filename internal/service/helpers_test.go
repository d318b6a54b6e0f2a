package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
	"pharmasync/m/internal/database"
	"pharmasync/m/internal/migrations"
	"pharmasync/m/internal/report"
	"pharmasync/m/internal/store"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time      { return c.t }
func (c *testClock) Set(t time.Time)     { c.t = t }
func (c *testClock) Add(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	svc, clock, _ := openTestService(t, report.NewPDF("PharmaSync Ledger Report"))
	return svc, clock
}

func newTestServiceWithRenderer(t *testing.T, renderer LedgerRenderer) (*Service, *testClock) {
	t.Helper()
	svc, clock, _ := openTestService(t, renderer)
	return svc, clock
}

func openTestService(t *testing.T, renderer LedgerRenderer) (*Service, *testClock, *sqlx.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	clock := &testClock{t: testNow}
	return New(store.New(db), renderer, "test-secret", time.Hour, WithClock(clock.Now)), clock, db
}

func staffCtx() context.Context {
	return WithActor(context.Background(), domain.Identity{UserID: 2, Username: "staff", Role: domain.RoleStaff})
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Identity{UserID: 1, Username: "admin", Role: domain.RoleAdmin})
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustMedicine(t *testing.T, svc *Service, in MedicineInput) domain.Medicine {
	t.Helper()
	if in.Price == nil {
		in.Price = dec("1")
	}
	m, err := svc.CreateMedicine(staffCtx(), in)
	if err != nil {
		t.Fatalf("CreateMedicine(%s): %v", in.Name, err)
	}
	return m
}

func mustSupplier(t *testing.T, svc *Service, name string) domain.Supplier {
	t.Helper()
	sp, err := svc.CreateSupplier(staffCtx(), SupplierInput{Name: name})
	if err != nil {
		t.Fatalf("CreateSupplier(%s): %v", name, err)
	}
	return sp
}

func quantityOf(t *testing.T, svc *Service, id int64) int64 {
	t.Helper()
	m, err := svc.store.GetMedicine(context.Background(), id)
	if err != nil {
		t.Fatalf("GetMedicine(%d): %v", id, err)
	}
	return m.Quantity
}

func assertKind(t *testing.T, err error, want domain.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *domain.Error, got %T: %v", err, err)
	}
	if de.Kind != want {
		t.Fatalf("error kind = %s (%v), want %s", de.Kind, err, want)
	}
}

type failingRenderer struct{}

func (failingRenderer) RenderLedger(io.Writer, domain.Ledger) error {
	return errors.New("font table corrupt")
}
