package database

// Schema setup runs exactly once at startup. Request handlers never touch
// the schema.

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are idempotent DDL statements applied in order at boot.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS shops (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		address    TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		shop_id       BIGINT REFERENCES shops(id),
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		revoked_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_hash ON refresh_tokens(token_hash)`,
	`CREATE TABLE IF NOT EXISTS menu_sections (
		id       BIGSERIAL PRIMARY KEY,
		shop_id  BIGINT NOT NULL REFERENCES shops(id),
		name     TEXT NOT NULL,
		position INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id           BIGSERIAL PRIMARY KEY,
		shop_id      BIGINT NOT NULL REFERENCES shops(id),
		section_id   BIGINT NOT NULL REFERENCES menu_sections(id),
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		price_cents  INT NOT NULL,
		is_veg       BOOLEAN NOT NULL DEFAULT FALSE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		image_url    TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS offers (
		id               BIGSERIAL PRIMARY KEY,
		shop_id          BIGINT NOT NULL REFERENCES shops(id),
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		discount_percent SMALLINT NOT NULL DEFAULT 0,
		is_active        BOOLEAN NOT NULL DEFAULT TRUE,
		starts_on        DATE NOT NULL,
		ends_on          DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                 BIGSERIAL PRIMARY KEY,
		shop_id            BIGINT NOT NULL REFERENCES shops(id),
		token              TEXT NOT NULL UNIQUE,
		customer_name      TEXT NOT NULL,
		customer_phone     TEXT NOT NULL,
		address            TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL DEFAULT 'pending',
		subtotal_cents     INT NOT NULL,
		delivery_fee_cents INT NOT NULL DEFAULT 0,
		total_cents        INT NOT NULL,
		note               TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_shop_created ON orders(shop_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGSERIAL PRIMARY KEY,
		order_id     BIGINT NOT NULL REFERENCES orders(id),
		menu_item_id BIGINT NOT NULL,
		name         TEXT NOT NULL,
		price_cents  INT NOT NULL,
		quantity     INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_tiers (
		id                 BIGSERIAL PRIMARY KEY,
		shop_id            BIGINT NOT NULL REFERENCES shops(id),
		min_subtotal_cents INT NOT NULL DEFAULT 0,
		fee_cents          INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS availability_configs (
		shop_id         BIGINT PRIMARY KEY REFERENCES shops(id),
		opening_time    TEXT NOT NULL DEFAULT '09:00',
		closing_time    TEXT NOT NULL DEFAULT '22:00',
		timezone        TEXT NOT NULL DEFAULT 'Asia/Kolkata',
		manual_override TEXT NOT NULL DEFAULT 'none',
		override_reason TEXT,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id           BIGSERIAL PRIMARY KEY,
		shop_id      BIGINT NOT NULL REFERENCES shops(id),
		holiday_date DATE NOT NULL,
		name         TEXT NOT NULL,
		UNIQUE (shop_id, holiday_date)
	)`,
}

// Migrate applies all idempotent migrations in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
