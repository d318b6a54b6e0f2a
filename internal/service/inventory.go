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

const (
	dashboardListSize  = 5
	recentActivitySize = 5
)

// MedicineInput is the editable part of a catalog entry.
type MedicineInput struct {
	Name         string           `json:"name"`
	GenericName  string           `json:"generic_name"`
	Category     string           `json:"category"`
	Manufacturer string           `json:"manufacturer"`
	Quantity     int64            `json:"quantity"`
	Price        *decimal.Decimal `json:"price"`
	ExpiryDate   string           `json:"expiry_date"`
	BatchNumber  string           `json:"batch_number"`
	Description  string           `json:"description"`
	Location     string           `json:"location"`
	ReorderLevel *int64           `json:"reorder_level"`
}

// MedicineDetail is a catalog entry with its latest stock movements.
type MedicineDetail struct {
	domain.MedicineEntry
	RecentPurchases []domain.PurchaseOrder `json:"recent_purchases"`
	RecentSales     []domain.Sale          `json:"recent_sales"`
}

// ListMedicines runs the inventory query engine. Unknown stock filters are
// ignored and unknown sort keys fall back to name order.
func (s *Service) ListMedicines(ctx context.Context, f domain.MedicineFilter) ([]domain.MedicineEntry, error) {
	f.Search = strings.TrimSpace(f.Search)
	if f.Category == "all" {
		f.Category = ""
	}
	switch f.Stock {
	case domain.StockLow, domain.StockOut, domain.StockExpired:
	default:
		f.Stock = ""
	}
	switch f.Sort {
	case domain.SortName, domain.SortQuantity, domain.SortExpiry, domain.SortPrice:
	default:
		f.Sort = domain.SortName
	}

	now := s.clock()
	medicines, err := s.store.ListMedicines(ctx, f, domain.StartOfDay(now))
	if err != nil {
		return nil, domain.Persistence("unable to list medicines", err)
	}
	return s.entries(medicines, now), nil
}

func (s *Service) entries(medicines []domain.Medicine, now time.Time) []domain.MedicineEntry {
	out := make([]domain.MedicineEntry, len(medicines))
	for i, m := range medicines {
		out[i] = domain.MedicineEntry{Medicine: m, Status: m.Status(now)}
	}
	return out
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, domain.Persistence("unable to list categories", err)
	}
	return categories, nil
}

// InStockMedicines lists the medicines that can currently be sold.
func (s *Service) InStockMedicines(ctx context.Context) ([]domain.MedicineEntry, error) {
	medicines, err := s.store.InStockMedicines(ctx)
	if err != nil {
		return nil, domain.Persistence("unable to list medicines", err)
	}
	return s.entries(medicines, s.clock()), nil
}

func (s *Service) Medicine(ctx context.Context, id int64) (MedicineDetail, error) {
	m, err := s.loadMedicine(ctx, s.store, id)
	if err != nil {
		return MedicineDetail{}, err
	}
	purchases, err := s.store.PurchaseOrdersForMedicine(ctx, id, recentActivitySize)
	if err != nil {
		return MedicineDetail{}, domain.Persistence("unable to load purchase orders", err)
	}
	sales, err := s.store.SalesForMedicine(ctx, id, recentActivitySize)
	if err != nil {
		return MedicineDetail{}, domain.Persistence("unable to load sales", err)
	}
	return MedicineDetail{
		MedicineEntry:   domain.MedicineEntry{Medicine: m, Status: m.Status(s.clock())},
		RecentPurchases: purchases,
		RecentSales:     sales,
	}, nil
}

func (s *Service) loadMedicine(ctx context.Context, st *store.Store, id int64) (domain.Medicine, error) {
	m, err := st.GetMedicine(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return m, domain.NotFound("medicine %d not found", id)
	}
	if err != nil {
		return m, domain.Persistence("unable to load medicine", err)
	}
	return m, nil
}

// apply validates in and copies it onto m. keepExpiry leaves the stored
// expiry date in place when none is supplied.
func (in MedicineInput) apply(m *domain.Medicine, keepExpiry bool) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Validation("name is required")
	}
	if in.Price == nil {
		return domain.Validation("price is required")
	}
	if in.Price.IsNegative() {
		return domain.Validation("price must not be negative")
	}
	if !domain.WholeCents(*in.Price) {
		return domain.Validation("price must have at most %d decimal places", domain.MoneyPlaces)
	}
	if in.Quantity < 0 {
		return domain.Validation("quantity must not be negative")
	}
	level := int64(domain.DefaultReorderLevel)
	if in.ReorderLevel != nil {
		level = *in.ReorderLevel
	}
	if level < 0 {
		return domain.Validation("reorder_level must not be negative")
	}

	if expiry := strings.TrimSpace(in.ExpiryDate); expiry != "" {
		t, err := time.Parse("2006-01-02", expiry)
		if err != nil {
			return domain.Validation("expiry_date must be in YYYY-MM-DD format")
		}
		m.ExpiryDate = &t
	} else if !keepExpiry {
		m.ExpiryDate = nil
	}

	m.Name = name
	m.GenericName = strings.TrimSpace(in.GenericName)
	m.Category = strings.TrimSpace(in.Category)
	m.Manufacturer = strings.TrimSpace(in.Manufacturer)
	m.Quantity = in.Quantity
	m.Price = *in.Price
	m.BatchNumber = strings.TrimSpace(in.BatchNumber)
	m.Description = in.Description
	m.Location = strings.TrimSpace(in.Location)
	m.ReorderLevel = level
	return nil
}

func (s *Service) CreateMedicine(ctx context.Context, in MedicineInput) (domain.Medicine, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.Medicine{}, err
	}
	var m domain.Medicine
	if err := in.apply(&m, false); err != nil {
		return domain.Medicine{}, err
	}
	now := s.clock()
	m.CreatedAt, m.UpdatedAt = now, now

	id, err := s.store.CreateMedicine(ctx, m)
	if err != nil {
		return domain.Medicine{}, domain.Persistence("unable to add medicine", err)
	}
	m.ID = id
	return m, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, id int64, in MedicineInput) (domain.Medicine, error) {
	if _, err := requireActor(ctx); err != nil {
		return domain.Medicine{}, err
	}
	var m domain.Medicine
	err := s.store.InTx(ctx, func(tx *store.Store) error {
		var err error
		if m, err = s.loadMedicine(ctx, tx, id); err != nil {
			return err
		}
		if err := in.apply(&m, true); err != nil {
			return err
		}
		m.UpdatedAt = s.clock()
		return tx.UpdateMedicine(ctx, m)
	})
	if err != nil {
		return domain.Medicine{}, persistence("unable to update medicine", err)
	}
	return m, nil
}

// DeleteMedicine removes a catalog entry after detaching its orders and
// sales. Only administrators may delete.
func (s *Service) DeleteMedicine(ctx context.Context, id int64) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.Forbidden("only administrators can delete medicines")
	}
	err = s.store.InTx(ctx, func(tx *store.Store) error {
		if _, err := s.loadMedicine(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.DetachMedicine(ctx, id); err != nil {
			return err
		}
		return tx.DeleteMedicine(ctx, id)
	})
	if err != nil {
		return persistence("unable to delete medicine", err)
	}
	return nil
}

// Dashboard summarises stock health and the current month's revenue.
func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	now := s.clock()
	today := domain.StartOfDay(now)
	var (
		d   domain.Dashboard
		err error
	)

	if d.TotalMedicines, err = s.store.CountMedicines(ctx); err != nil {
		return d, domain.Persistence("unable to count medicines", err)
	}
	if d.LowStockCount, err = s.store.CountLowStock(ctx); err != nil {
		return d, domain.Persistence("unable to count low stock", err)
	}
	if d.ExpiredCount, err = s.store.CountExpired(ctx, today); err != nil {
		return d, domain.Persistence("unable to count expired medicines", err)
	}
	if d.LowStockMedicines, err = s.store.LowStockMedicines(ctx, dashboardListSize); err != nil {
		return d, domain.Persistence("unable to load low stock medicines", err)
	}
	soon := today.AddDate(0, 0, domain.ExpiringSoonDays)
	if d.ExpiringSoon, err = s.store.ExpiringBetween(ctx, today, soon, dashboardListSize); err != nil {
		return d, domain.Persistence("unable to load expiring medicines", err)
	}
	if d.Categories, err = s.store.CategoryCounts(ctx); err != nil {
		return d, domain.Persistence("unable to count categories", err)
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if d.MonthlyRevenue, _, err = s.store.SalesTotals(ctx, monthStart, now); err != nil {
		return d, domain.Persistence("unable to total monthly sales", err)
	}
	return d, nil
}
