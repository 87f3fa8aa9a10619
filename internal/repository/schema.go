package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tables (
		table_no   TEXT PRIMARY KEY,
		is_active  BOOLEAN NOT NULL DEFAULT FALSE,
		session_id BIGINT NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id         BIGSERIAL PRIMARY KEY,
		table_no   TEXT NOT NULL,
		session_id BIGINT NOT NULL DEFAULT 1,
		total      BIGINT NOT NULL DEFAULT 0,
		status     TEXT NOT NULL DEFAULT 'received',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id       BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		name     TEXT NOT NULL,
		price    BIGINT NOT NULL DEFAULT 0,
		qty      INT NOT NULL DEFAULT 1 CHECK (qty >= 1),
		subtotal BIGINT NOT NULL DEFAULT 0,
		size     TEXT,
		spice    TEXT,
		juice    TEXT,
		addons   JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id          BIGSERIAL PRIMARY KEY,
		table_no    TEXT NOT NULL,
		session_id  BIGINT NOT NULL,
		total_price BIGINT NOT NULL DEFAULT 0,
		total_items INT NOT NULL DEFAULT 0,
		items       JSONB NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_table_session ON orders (table_no, session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
}

// EnsureSchema provisions all tables at startup. Idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
