package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"pharmasync/m/internal/database"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'staff',
            created_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            generic_name TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            manufacturer TEXT NOT NULL DEFAULT '',
            quantity INTEGER NOT NULL DEFAULT 0,
            price REAL NOT NULL,
            expiry_date DATE,
            batch_number TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            reorder_level INTEGER NOT NULL DEFAULT 10,
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS suppliers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            contact_person TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            supplier_id INTEGER,
            medicine_id INTEGER,
            quantity INTEGER NOT NULL,
            unit_price REAL NOT NULL,
            total_amount REAL NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            order_date DATETIME NOT NULL,
            delivery_date DATETIME,
            notes TEXT NOT NULL DEFAULT '',
            FOREIGN KEY(supplier_id) REFERENCES suppliers(id),
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
	`CREATE TABLE IF NOT EXISTS sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER,
            quantity INTEGER NOT NULL,
            unit_price REAL NOT NULL,
            total_amount REAL NOT NULL,
            sale_date DATETIME NOT NULL,
            customer_name TEXT NOT NULL DEFAULT '',
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
            token_id TEXT PRIMARY KEY,
            expires_at DATETIME NOT NULL
        );`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'staff',
            created_at TIMESTAMPTZ NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS medicines (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            generic_name TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            manufacturer TEXT NOT NULL DEFAULT '',
            quantity INTEGER NOT NULL DEFAULT 0,
            price NUMERIC(12,2) NOT NULL,
            expiry_date DATE,
            batch_number TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            reorder_level INTEGER NOT NULL DEFAULT 10,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS suppliers (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            contact_person TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS purchase_orders (
            id SERIAL PRIMARY KEY,
            supplier_id INTEGER REFERENCES suppliers(id),
            medicine_id INTEGER REFERENCES medicines(id),
            quantity INTEGER NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL,
            total_amount NUMERIC(14,2) NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            order_date TIMESTAMPTZ NOT NULL,
            delivery_date TIMESTAMPTZ,
            notes TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS sales (
            id SERIAL PRIMARY KEY,
            medicine_id INTEGER REFERENCES medicines(id),
            quantity INTEGER NOT NULL,
            unit_price NUMERIC(12,2) NOT NULL,
            total_amount NUMERIC(14,2) NOT NULL,
            sale_date TIMESTAMPTZ NOT NULL,
            customer_name TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
            token_id TEXT PRIMARY KEY,
            expires_at TIMESTAMPTZ NOT NULL
        );`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_medicines_name ON medicines(name);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);`,
	`CREATE INDEX IF NOT EXISTS idx_sales_medicine ON sales(medicine_id);`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_orders_order_date ON purchase_orders(order_date);`,
	`CREATE INDEX IF NOT EXISTS idx_purchase_orders_medicine ON purchase_orders(medicine_id);`,
}

// Run creates the database schema for the driver db was opened with.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == database.DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range append(schema, indexes...) {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
