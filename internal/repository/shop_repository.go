// This file defines the Shop model and repository methods for shop
// provisioning and lookup. A Shop is a tenant: one storefront, one admin
// console, one availability calendar. Shops are created by the super
// admin; the public storefront addresses them by slug.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Shop represents a shop row. Slug is the unique public storefront key.
type Shop struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ErrShopNotFound is returned when a shop cannot be found in the DB.
var ErrShopNotFound = errors.New("shop not found")

// ErrSlugExists is returned when creating a shop with a taken slug.
var ErrSlugExists = errors.New("shop slug already exists")

// ShopRepo encapsulates all database queries related to shops.
type ShopRepo struct {
	db *sql.DB
}

// NewShopRepo constructs a ShopRepo with the provided DB handle.
func NewShopRepo(db *sql.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

const shopCols = "id, name, slug, address, phone, is_active, created_at, updated_at"

func scanShop(row *sql.Row) (*Shop, error) {
	var s Shop
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Address, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new shop. On success the ID field is populated.
func (r *ShopRepo) Create(ctx context.Context, s *Shop) error {
	const q = `INSERT INTO shops (name, slug, address, phone, is_active)
	           VALUES ($1, $2, $3, $4, TRUE) RETURNING id, created_at, updated_at`
	s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
	err := r.db.QueryRowContext(ctx, q, s.Name, s.Slug, s.Address, s.Phone).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugExists
		}
		return err
	}
	s.IsActive = true
	return nil
}

// GetByID fetches a shop by its ID.
func (r *ShopRepo) GetByID(ctx context.Context, id uint64) (*Shop, error) {
	return scanShop(r.db.QueryRowContext(ctx,
		"SELECT "+shopCols+" FROM shops WHERE id = $1", id))
}

// GetBySlug fetches an active shop by its public slug. Deactivated shops
// are invisible to the storefront.
func (r *ShopRepo) GetBySlug(ctx context.Context, slug string) (*Shop, error) {
	return scanShop(r.db.QueryRowContext(ctx,
		"SELECT "+shopCols+" FROM shops WHERE slug = $1 AND is_active", strings.ToLower(strings.TrimSpace(slug))))
}

// ListAll returns every shop, newest first. Super-admin console only.
func (r *ShopRepo) ListAll(ctx context.Context) ([]*Shop, error) {
	return r.list(ctx, "SELECT "+shopCols+" FROM shops ORDER BY id DESC")
}

// ListActiveIDs returns the IDs of all active shops, used by bulk
// operations that iterate shops independently.
func (r *ShopRepo) ListActiveIDs(ctx context.Context) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM shops WHERE is_active ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateInfo updates the shop's display fields.
func (r *ShopRepo) UpdateInfo(ctx context.Context, id uint64, name, address, phone string) error {
	const q = `UPDATE shops SET name = $1, address = $2, phone = $3, updated_at = NOW()
	           WHERE id = $4`
	res, err := r.db.ExecContext(ctx, q, name, address, phone, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShopNotFound
	}
	return nil
}

// SetActive toggles whether the shop is visible and can receive orders.
func (r *ShopRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE shops SET is_active = $1, updated_at = NOW() WHERE id = $2", active, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *ShopRepo) list(ctx context.Context, q string, args ...any) ([]*Shop, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Shop
	for rows.Next() {
		s := new(Shop)
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.Address, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
