package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
	"pharmasync/m/internal/store"
)

type PurchaseOrderInput struct {
	SupplierID int64            `json:"supplier_id"`
	MedicineID int64            `json:"medicine_id"`
	Quantity   int64            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	Notes      string           `json:"notes"`
}

// CreatePurchaseOrder records a pending restock order. Its total is fixed
// at quantity × unit price.
func (s *Service) CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (domain.PurchaseOrder, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.PurchaseOrder{}, err
	}
	switch {
	case in.SupplierID <= 0:
		return domain.PurchaseOrder{}, domain.Validation("supplier_id is required")
	case in.MedicineID <= 0:
		return domain.PurchaseOrder{}, domain.Validation("medicine_id is required")
	case in.Quantity <= 0:
		return domain.PurchaseOrder{}, domain.Validation("quantity must be a positive integer")
	case in.UnitPrice == nil:
		return domain.PurchaseOrder{}, domain.Validation("unit_price is required")
	case in.UnitPrice.IsNegative():
		return domain.PurchaseOrder{}, domain.Validation("unit_price must not be negative")
	case !domain.WholeCents(*in.UnitPrice):
		return domain.PurchaseOrder{}, domain.Validation("unit_price must have at most %d decimal places", domain.MoneyPlaces)
	}

	var order domain.PurchaseOrder
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		sp, err := tx.GetSupplier(ctx, in.SupplierID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("supplier %d not found", in.SupplierID)
		}
		if err != nil {
			return err
		}
		m, err := s.loadMedicine(ctx, tx, in.MedicineID)
		if err != nil {
			return err
		}

		order = domain.PurchaseOrder{
			SupplierID:   &sp.ID,
			MedicineID:   &m.ID,
			Quantity:     in.Quantity,
			UnitPrice:    *in.UnitPrice,
			TotalAmount:  domain.LineTotal(in.Quantity, *in.UnitPrice),
			Status:       domain.OrderPending,
			OrderDate:    s.clock(),
			Notes:        strings.TrimSpace(in.Notes),
			SupplierName: sp.Name,
			MedicineName: m.Name,
		}
		order.ID, err = tx.CreatePurchaseOrder(ctx, order)
		return err
	})
	if err != nil {
		return domain.PurchaseOrder{}, persistence("unable to create purchase order", err)
	}
	return order, nil
}

// CompletePurchaseOrder marks a pending order delivered and adds its
// quantity to the medicine's stock exactly once.
func (s *Service) CompletePurchaseOrder(ctx context.Context, id int64) (domain.PurchaseOrder, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.PurchaseOrder{}, err
	}
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		order, err := s.transition(ctx, tx, id, domain.OrderCompleted)
		if err != nil {
			return err
		}
		if order.MedicineID == nil {
			return nil
		}
		err = tx.IncrementStock(ctx, *order.MedicineID, order.Quantity, s.clock())
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("medicine %d not found", *order.MedicineID)
		}
		return err
	})
	if err != nil {
		return domain.PurchaseOrder{}, persistence("unable to complete purchase order", err)
	}
	return s.PurchaseOrder(ctx, id)
}

// CancelPurchaseOrder marks a pending order cancelled; stock is untouched.
func (s *Service) CancelPurchaseOrder(ctx context.Context, id int64) (domain.PurchaseOrder, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.PurchaseOrder{}, err
	}
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		_, err := s.transition(ctx, tx, id, domain.OrderCancelled)
		return err
	})
	if err != nil {
		return domain.PurchaseOrder{}, persistence("unable to cancel purchase order", err)
	}
	return s.PurchaseOrder(ctx, id)
}

// transition moves a pending order to status to. Orders that are no longer
// pending yield a conflict.
func (s *Service) transition(ctx context.Context, tx *store.Store, id int64, to string) (domain.PurchaseOrder, error) {
	order, err := tx.GetPurchaseOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return order, domain.NotFound("purchase order %d not found", id)
	}
	if err != nil {
		return order, err
	}
	if !order.Pending() {
		return order, domain.Conflict("purchase order %d is already %s", id, order.Status)
	}

	var deliveredAt *time.Time
	if to == domain.OrderCompleted {
		now := s.clock()
		deliveredAt = &now
	}
	ok, err := tx.TransitionPurchaseOrder(ctx, id, domain.OrderPending, to, deliveredAt)
	if err != nil {
		return order, err
	}
	if !ok {
		return order, domain.Conflict("purchase order %d is no longer pending", id)
	}
	order.Status = to
	order.DeliveryDate = deliveredAt
	return order, nil
}

func (s *Service) PurchaseOrder(ctx context.Context, id int64) (domain.PurchaseOrder, error) {
	order, err := s.store.GetPurchaseOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return order, domain.NotFound("purchase order %d not found", id)
	}
	if err != nil {
		return order, domain.Persistence("unable to load purchase order", err)
	}
	return order, nil
}

// ListPurchaseOrders lists orders newest first; status "" or "all" lists every order.
func (s *Service) ListPurchaseOrders(ctx context.Context, status string) ([]domain.PurchaseOrder, error) {
	if status == "all" {
		status = ""
	}
	if status != "" && !domain.ValidOrderStatus(status) {
		return nil, domain.Validation("unknown status %q", status)
	}
	orders, err := s.store.ListPurchaseOrders(ctx, status)
	if err != nil {
		return nil, domain.Persistence("unable to list purchase orders", err)
	}
	return orders, nil
}
