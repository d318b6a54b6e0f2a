package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"pharmasync/m/domain"
	"pharmasync/m/internal/store"
)

type SupplierInput struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

func (in SupplierInput) apply(sp *domain.Supplier) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Validation("name is required")
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return domain.Validation("email is not valid")
		}
	}
	sp.Name = name
	sp.ContactPerson = strings.TrimSpace(in.ContactPerson)
	sp.Email = email
	sp.Phone = strings.TrimSpace(in.Phone)
	sp.Address = strings.TrimSpace(in.Address)
	return nil
}

func (s *Service) CreateSupplier(ctx context.Context, in SupplierInput) (domain.Supplier, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.Supplier{}, err
	}
	sp := domain.Supplier{CreatedAt: s.clock()}
	if err := in.apply(&sp); err != nil {
		return domain.Supplier{}, err
	}
	id, err := s.store.CreateSupplier(ctx, sp)
	if err != nil {
		return domain.Supplier{}, domain.Persistence("unable to add supplier", err)
	}
	sp.ID = id
	return sp, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, in SupplierInput) (domain.Supplier, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.Supplier{}, err
	}
	sp, err := s.Supplier(ctx, id)
	if err != nil {
		return sp, err
	}
	if err := in.apply(&sp); err != nil {
		return domain.Supplier{}, err
	}
	err = s.store.UpdateSupplier(ctx, sp)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Supplier{}, domain.NotFound("supplier %d not found", id)
	}
	if err != nil {
		return domain.Supplier{}, domain.Persistence("unable to update supplier", err)
	}
	return sp, nil
}

func (s *Service) Supplier(ctx context.Context, id int64) (domain.Supplier, error) {
	sp, err := s.store.GetSupplier(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return sp, domain.NotFound("supplier %d not found", id)
	}
	if err != nil {
		return sp, domain.Persistence("unable to load supplier", err)
	}
	return sp, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return nil, domain.Persistence("unable to list suppliers", err)
	}
	return suppliers, nil
}
