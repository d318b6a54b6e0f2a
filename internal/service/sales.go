package service

import (
	"context"
	"errors"
	"strings"

	"pharmasync/m/domain"
	"pharmasync/m/internal/store"
)

type SaleInput struct {
	MedicineID   int64  `json:"medicine_id"`
	Quantity     int64  `json:"quantity"`
	CustomerName string `json:"customer_name"`
}

// CreateSale sells quantity units of a medicine at its current price. The
// sale record and the stock decrement are committed together or not at all.
func (s *Service) CreateSale(ctx context.Context, in SaleInput) (domain.Sale, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.Sale{}, err
	}
	if in.MedicineID <= 0 {
		return domain.Sale{}, domain.Validation("medicine_id is required")
	}
	if in.Quantity <= 0 {
		return domain.Sale{}, domain.Validation("quantity must be a positive integer")
	}

	var sale domain.Sale
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		m, err := s.loadMedicine(ctx, tx, in.MedicineID)
		if err != nil {
			return err
		}
		if m.Quantity < in.Quantity {
			return domain.Rule("insufficient stock: only %d left", m.Quantity)
		}

		now := s.clock()
		sale = domain.Sale{
			MedicineID:   &m.ID,
			Quantity:     in.Quantity,
			UnitPrice:    m.Price,
			TotalAmount:  domain.LineTotal(in.Quantity, m.Price),
			SaleDate:     now,
			CustomerName: strings.TrimSpace(in.CustomerName),
			MedicineName: m.Name,
		}
		if sale.ID, err = tx.CreateSale(ctx, sale); err != nil {
			return err
		}

		ok, err := tx.DecrementStock(ctx, m.ID, in.Quantity, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Rule("insufficient stock: only %d left", m.Quantity)
		}
		return nil
	})
	if err != nil {
		return domain.Sale{}, persistence("unable to process sale", err)
	}
	return sale, nil
}

func (s *Service) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, domain.Persistence("unable to list sales", err)
	}
	return sales, nil
}

func (s *Service) Sale(ctx context.Context, id int64) (domain.Sale, error) {
	sale, err := s.store.GetSale(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return sale, domain.NotFound("sale %d not found", id)
	}
	if err != nil {
		return sale, domain.Persistence("unable to load sale", err)
	}
	return sale, nil
}
