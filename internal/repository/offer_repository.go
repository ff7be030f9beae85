// This file defines the Offer model and repository. Offers are promotional
// banners managed from the super-admin console and shown on the public
// storefront while active and within their date window.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Offer represents a promotional offer attached to a shop.
type Offer struct {
	ID              uint64 `json:"id"`
	ShopID          uint64 `json:"shop_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DiscountPercent uint8  `json:"discount_percent"`
	IsActive        bool   `json:"is_active"`
	StartsOn        string `json:"starts_on"` // "YYYY-MM-DD"
	EndsOn          string `json:"ends_on"`   // "YYYY-MM-DD"
}

// ErrOfferNotFound is returned when an offer cannot be found.
var ErrOfferNotFound = errors.New("offer not found")

// OfferRepo encapsulates all database queries related to offers.
type OfferRepo struct {
	db *sql.DB
}

// NewOfferRepo constructs an OfferRepo with the provided DB handle.
func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

const offerCols = `id, shop_id, title, description, discount_percent, is_active,
                   to_char(starts_on, 'YYYY-MM-DD'), to_char(ends_on, 'YYYY-MM-DD')`

// Create inserts an offer.
func (r *OfferRepo) Create(ctx context.Context, o *Offer) error {
	const q = `INSERT INTO offers (shop_id, title, description, discount_percent, is_active, starts_on, ends_on)
	           VALUES ($1, $2, $3, $4, $5, $6::date, $7::date) RETURNING id`
	return r.db.QueryRowContext(ctx, q,
		o.ShopID, o.Title, o.Description, o.DiscountPercent, o.IsActive, o.StartsOn, o.EndsOn).Scan(&o.ID)
}

// Update overwrites an offer's fields.
func (r *OfferRepo) Update(ctx context.Context, o *Offer) error {
	const q = `UPDATE offers SET title = $1, description = $2, discount_percent = $3,
	             is_active = $4, starts_on = $5::date, ends_on = $6::date
	           WHERE id = $7`
	res, err := r.db.ExecContext(ctx, q,
		o.Title, o.Description, o.DiscountPercent, o.IsActive, o.StartsOn, o.EndsOn, o.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// Delete removes an offer.
func (r *OfferRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// ListByShop returns all offers of a shop for the admin console.
func (r *OfferRepo) ListByShop(ctx context.Context, shopID uint64) ([]*Offer, error) {
	return r.list(ctx,
		"SELECT "+offerCols+" FROM offers WHERE shop_id = $1 ORDER BY id DESC", shopID)
}

// ListActive returns the shop's offers currently running: active flag set
// and today inside the date window.
func (r *OfferRepo) ListActive(ctx context.Context, shopID uint64) ([]*Offer, error) {
	return r.list(ctx,
		"SELECT "+offerCols+` FROM offers
		 WHERE shop_id = $1 AND is_active AND starts_on <= CURRENT_DATE AND ends_on >= CURRENT_DATE
		 ORDER BY id DESC`, shopID)
}

func (r *OfferRepo) list(ctx context.Context, q string, args ...any) ([]*Offer, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Offer
	for rows.Next() {
		o := new(Offer)
		if err := rows.Scan(&o.ID, &o.ShopID, &o.Title, &o.Description,
			&o.DiscountPercent, &o.IsActive, &o.StartsOn, &o.EndsOn); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
