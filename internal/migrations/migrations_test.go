package migrations

import (
	"testing"

	"pharmasync/m/internal/database"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if err := Run(db); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}

	var tables []string
	if err := db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`); err != nil {
		t.Fatalf("list tables: %v", err)
	}
	want := []string{"medicines", "purchase_orders", "revoked_tokens", "sales", "suppliers", "users"}
	if len(tables) != len(want) {
		t.Fatalf("tables = %v, want %v", tables, want)
	}
	for i := range want {
		if tables[i] != want[i] {
			t.Fatalf("tables = %v, want %v", tables, want)
		}
	}
}

func TestMedicineDefaults(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := Run(db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO medicines (name, price, created_at, updated_at) VALUES ('Napa', 1, '2026-01-01', '2026-01-01')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var row struct {
		Quantity     int64  `db:"quantity"`
		ReorderLevel int64  `db:"reorder_level"`
		Category     string `db:"category"`
	}
	if err := db.Get(&row, `SELECT quantity, reorder_level, category FROM medicines`); err != nil {
		t.Fatalf("select: %v", err)
	}
	if row.Quantity != 0 || row.ReorderLevel != 10 || row.Category != "" {
		t.Fatalf("defaults = %+v", row)
	}
}
