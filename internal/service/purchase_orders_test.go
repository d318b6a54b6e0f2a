package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
)

func TestPurchaseOrderLifecycle(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := staffCtx()
	sp := mustSupplier(t, svc, "Acme Pharma")
	m := mustMedicine(t, svc, MedicineInput{Name: "Amoxicillin", Quantity: 2})

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 20, UnitPrice: dec("2"), Notes: " urgent "})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if po.Status != domain.OrderPending {
		t.Fatalf("status = %q, want pending", po.Status)
	}
	if !po.TotalAmount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("total = %s, want 40", po.TotalAmount)
	}
	if po.Notes != "urgent" || po.SupplierName != "Acme Pharma" || po.MedicineName != "Amoxicillin" {
		t.Fatalf("order = %+v", po)
	}
	if got := quantityOf(t, svc, m.ID); got != 2 {
		t.Fatalf("pending order changed stock to %d", got)
	}

	clock.Add(48 * time.Hour)
	done, err := svc.CompletePurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("CompletePurchaseOrder: %v", err)
	}
	if done.Status != domain.OrderCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.DeliveryDate == nil || !done.DeliveryDate.Equal(clock.Now()) {
		t.Fatalf("delivery date = %v, want %v", done.DeliveryDate, clock.Now())
	}
	if !done.OrderDate.Equal(testNow) {
		t.Fatalf("order date = %v, want %v", done.OrderDate, testNow)
	}
	if got := quantityOf(t, svc, m.ID); got != 22 {
		t.Fatalf("quantity = %d, want 22", got)
	}

	_, err = svc.CompletePurchaseOrder(ctx, po.ID)
	assertKind(t, err, domain.KindConflict)
	_, err = svc.CancelPurchaseOrder(ctx, po.ID)
	assertKind(t, err, domain.KindConflict)
	if got := quantityOf(t, svc, m.ID); got != 22 {
		t.Fatalf("stock received twice: quantity = %d, want 22", got)
	}
}

func TestCancelPurchaseOrderLeavesStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := staffCtx()
	sp := mustSupplier(t, svc, "Acme Pharma")
	m := mustMedicine(t, svc, MedicineInput{Name: "Amoxicillin", Quantity: 7})

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 20, UnitPrice: dec("2")})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	cancelled, err := svc.CancelPurchaseOrder(ctx, po.ID)
	if err != nil {
		t.Fatalf("CancelPurchaseOrder: %v", err)
	}
	if cancelled.Status != domain.OrderCancelled || cancelled.DeliveryDate != nil {
		t.Fatalf("cancelled order = %+v", cancelled)
	}
	if got := quantityOf(t, svc, m.ID); got != 7 {
		t.Fatalf("quantity = %d, want 7", got)
	}

	_, err = svc.CompletePurchaseOrder(ctx, po.ID)
	assertKind(t, err, domain.KindConflict)
	if got := quantityOf(t, svc, m.ID); got != 7 {
		t.Fatalf("quantity = %d after completing a cancelled order", got)
	}
}

func TestPurchaseOrderMissing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CompletePurchaseOrder(staffCtx(), 42)
	assertKind(t, err, domain.KindNotFound)
	_, err = svc.CancelPurchaseOrder(staffCtx(), 42)
	assertKind(t, err, domain.KindNotFound)
	_, err = svc.PurchaseOrder(context.Background(), 42)
	assertKind(t, err, domain.KindNotFound)
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	svc, _ := newTestService(t)
	sp := mustSupplier(t, svc, "Acme Pharma")
	m := mustMedicine(t, svc, MedicineInput{Name: "Amoxicillin"})

	tests := []struct {
		name string
		ctx  context.Context
		in   PurchaseOrderInput
		want domain.Kind
	}{
		{"anonymous", context.Background(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 1, UnitPrice: dec("1")}, domain.KindUnauthorized},
		{"missing supplier", staffCtx(), PurchaseOrderInput{MedicineID: m.ID, Quantity: 1, UnitPrice: dec("1")}, domain.KindValidation},
		{"missing medicine", staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, Quantity: 1, UnitPrice: dec("1")}, domain.KindValidation},
		{"zero quantity", staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, UnitPrice: dec("1")}, domain.KindValidation},
		{"missing price", staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 1}, domain.KindValidation},
		{"negative price", staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 1, UnitPrice: dec("-1")}, domain.KindValidation},
		{"sub-cent price", staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 8, UnitPrice: dec("0.125")}, domain.KindValidation},
		{"unknown supplier", staffCtx(), PurchaseOrderInput{SupplierID: 99, MedicineID: m.ID, Quantity: 1, UnitPrice: dec("1")}, domain.KindNotFound},
		{"unknown medicine", staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: 99, Quantity: 1, UnitPrice: dec("1")}, domain.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePurchaseOrder(tt.ctx, tt.in)
			assertKind(t, err, tt.want)
		})
	}

	orders, err := svc.ListPurchaseOrders(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPurchaseOrders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("rejected orders were stored: %+v", orders)
	}
}

func TestListPurchaseOrdersByStatus(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := staffCtx()
	sp := mustSupplier(t, svc, "Acme Pharma")
	m := mustMedicine(t, svc, MedicineInput{Name: "Amoxicillin"})

	var ids []int64
	for i := 0; i < 3; i++ {
		po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 1, UnitPrice: dec("1")})
		if err != nil {
			t.Fatalf("CreatePurchaseOrder: %v", err)
		}
		ids = append(ids, po.ID)
		clock.Add(time.Hour)
	}
	if _, err := svc.CompletePurchaseOrder(ctx, ids[0]); err != nil {
		t.Fatalf("CompletePurchaseOrder: %v", err)
	}
	if _, err := svc.CancelPurchaseOrder(ctx, ids[1]); err != nil {
		t.Fatalf("CancelPurchaseOrder: %v", err)
	}

	all, err := svc.ListPurchaseOrders(context.Background(), "all")
	if err != nil {
		t.Fatalf("ListPurchaseOrders(all): %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] {
		t.Fatalf("all orders = %+v, want newest first", all)
	}

	for status, want := range map[string]int64{
		domain.OrderCompleted: ids[0],
		domain.OrderCancelled: ids[1],
		domain.OrderPending:   ids[2],
	} {
		orders, err := svc.ListPurchaseOrders(context.Background(), status)
		if err != nil {
			t.Fatalf("ListPurchaseOrders(%s): %v", status, err)
		}
		if len(orders) != 1 || orders[0].ID != want {
			t.Fatalf("%s orders = %+v, want only %d", status, orders, want)
		}
	}

	_, err = svc.ListPurchaseOrders(context.Background(), "shipped")
	assertKind(t, err, domain.KindValidation)
}

func TestCompleteDetachedPurchaseOrder(t *testing.T) {
	svc, _ := newTestService(t)
	sp := mustSupplier(t, svc, "Acme Pharma")
	m := mustMedicine(t, svc, MedicineInput{Name: "Discontinued"})

	po, err := svc.CreatePurchaseOrder(staffCtx(), PurchaseOrderInput{SupplierID: sp.ID, MedicineID: m.ID, Quantity: 5, UnitPrice: dec("1")})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if err := svc.DeleteMedicine(adminCtx(), m.ID); err != nil {
		t.Fatalf("DeleteMedicine: %v", err)
	}

	done, err := svc.CompletePurchaseOrder(staffCtx(), po.ID)
	if err != nil {
		t.Fatalf("CompletePurchaseOrder: %v", err)
	}
	if done.Status != domain.OrderCompleted || done.MedicineID != nil {
		t.Fatalf("detached order = %+v", done)
	}
}
