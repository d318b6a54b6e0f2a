package service

import (
	"context"
	"testing"

	"pharmasync/m/domain"
)

func TestSupplierCRUD(t *testing.T) {
	svc, _ := newTestService(t)

	sp, err := svc.CreateSupplier(staffCtx(), SupplierInput{Name: " Acme Pharma ", ContactPerson: "Nadia", Email: "orders@acme.test", Phone: "+880 1700"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	if sp.ID == 0 || sp.Name != "Acme Pharma" || !sp.CreatedAt.Equal(testNow) {
		t.Fatalf("supplier = %+v", sp)
	}

	updated, err := svc.UpdateSupplier(staffCtx(), sp.ID, SupplierInput{Name: "Acme Pharmaceuticals", Address: "Dhaka"})
	if err != nil {
		t.Fatalf("UpdateSupplier: %v", err)
	}
	if updated.Name != "Acme Pharmaceuticals" || updated.Email != "" || updated.Address != "Dhaka" {
		t.Fatalf("updated = %+v", updated)
	}

	got, err := svc.Supplier(context.Background(), sp.ID)
	if err != nil {
		t.Fatalf("Supplier: %v", err)
	}
	if got.Name != "Acme Pharmaceuticals" || !got.CreatedAt.Equal(testNow) {
		t.Fatalf("stored = %+v", got)
	}

	mustSupplier(t, svc, "Beta Labs")
	all, err := svc.ListSuppliers(context.Background())
	if err != nil {
		t.Fatalf("ListSuppliers: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("suppliers = %+v", all)
	}
}

func TestSupplierValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSupplier(context.Background(), SupplierInput{Name: "Acme"})
	assertKind(t, err, domain.KindUnauthorized)
	_, err = svc.CreateSupplier(staffCtx(), SupplierInput{Name: "  "})
	assertKind(t, err, domain.KindValidation)
	_, err = svc.CreateSupplier(staffCtx(), SupplierInput{Name: "Acme", Email: "not an email"})
	assertKind(t, err, domain.KindValidation)
	_, err = svc.UpdateSupplier(staffCtx(), 77, SupplierInput{Name: "Acme"})
	assertKind(t, err, domain.KindNotFound)
	_, err = svc.Supplier(context.Background(), 77)
	assertKind(t, err, domain.KindNotFound)
}
