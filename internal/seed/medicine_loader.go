package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pharmasync/m/domain"
	"pharmasync/m/internal/store"
)

// Catalog CSV columns, after a header row:
// name, generic_name, category, manufacturer, quantity, price, expiry_date,
// batch_number, location, reorder_level
const catalogColumns = 10

// LoadMedicines imports the catalog CSV at csvPath in one transaction. Rows
// that cannot be parsed are logged and skipped. An empty catalog table is
// required; otherwise the import is skipped so restarts do not duplicate stock.
func LoadMedicines(ctx context.Context, st *store.Store, csvPath string) (int, error) {
	existing, err := st.CountMedicines(ctx)
	if err != nil {
		return 0, fmt.Errorf("count medicines: %w", err)
	}
	if existing > 0 {
		log.Printf("medicine catalog already has %d rows, skipping %s", existing, csvPath)
		return 0, nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open medicine catalog %s: %w", csvPath, err)
	}
	defer file.Close()

	return importMedicines(ctx, st, file, time.Now().UTC())
}

func importMedicines(ctx context.Context, st *store.Store, r io.Reader, now time.Time) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read medicine header: %w", err)
	}

	rows := 0
	err := st.InTx(ctx, func(tx *store.Store) error {
		for line := 2; ; line++ {
			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				log.Printf("unable to read medicine row %d: %v", line, err)
				continue
			}
			m, err := parseMedicine(record, now)
			if err != nil {
				log.Printf("skipping medicine row %d: %v", line, err)
				continue
			}
			if _, err := tx.CreateMedicine(ctx, m); err != nil {
				return fmt.Errorf("insert medicine %s: %w", m.Name, err)
			}
			rows++
		}
	})
	if err != nil {
		return 0, err
	}
	log.Printf("seeded medicine catalog with %d rows", rows)
	return rows, nil
}

func parseMedicine(record []string, now time.Time) (domain.Medicine, error) {
	if len(record) < catalogColumns {
		return domain.Medicine{}, fmt.Errorf("expected %d columns, got %d", catalogColumns, len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	m := domain.Medicine{
		Name:         record[0],
		GenericName:  record[1],
		Category:     record[2],
		Manufacturer: record[3],
		BatchNumber:  record[7],
		Location:     record[8],
		ReorderLevel: domain.DefaultReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if m.Name == "" {
		return m, fmt.Errorf("name is empty")
	}

	qty, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil || qty < 0 {
		return m, fmt.Errorf("invalid quantity %q", record[4])
	}
	m.Quantity = qty

	price, err := decimal.NewFromString(record[5])
	if err != nil || price.IsNegative() || !domain.WholeCents(price) {
		return m, fmt.Errorf("invalid price %q", record[5])
	}
	m.Price = price

	if record[6] != "" {
		expiry, err := time.Parse("2006-01-02", record[6])
		if err != nil {
			return m, fmt.Errorf("invalid expiry_date %q", record[6])
		}
		m.ExpiryDate = &expiry
	}

	if record[9] != "" {
		level, err := strconv.ParseInt(record[9], 10, 64)
		if err != nil || level < 0 {
			return m, fmt.Errorf("invalid reorder_level %q", record[9])
		}
		m.ReorderLevel = level
	}
	return m, nil
}
