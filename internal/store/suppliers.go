package store

import (
	"context"

	"pharmasync/m/domain"
)

const supplierColumns = `id, name, contact_person, email, phone, address, created_at`

func (s *Store) CreateSupplier(ctx context.Context, sp domain.Supplier) (int64, error) {
	return s.insert(ctx, `INSERT INTO suppliers (name, contact_person, email, phone, address, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sp.Name, sp.ContactPerson, sp.Email, sp.Phone, sp.Address, sp.CreatedAt)
}

func (s *Store) UpdateSupplier(ctx context.Context, sp domain.Supplier) error {
	n, err := s.execAffected(ctx, `UPDATE suppliers SET name = $1, contact_person = $2, email = $3, phone = $4, address = $5 WHERE id = $6`,
		sp.Name, sp.ContactPerson, sp.Email, sp.Phone, sp.Address, sp.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetSupplier(ctx context.Context, id int64) (domain.Supplier, error) {
	var sp domain.Supplier
	err := s.get(ctx, &sp, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	return sp, err
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := s.q.SelectContext(ctx, &suppliers, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name ASC, id ASC`)
	return suppliers, err
}
