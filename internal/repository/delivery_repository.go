// This file defines delivery pricing tiers and their repository. A tier
// maps a minimum order subtotal to a flat delivery fee; the applicable fee
// is the tier with the highest threshold not exceeding the subtotal.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// DeliveryTier is one row of a shop's delivery price table.
type DeliveryTier struct {
	ID               uint64 `json:"id"`
	ShopID           uint64 `json:"shop_id"`
	MinSubtotalCents uint32 `json:"min_subtotal_cents"`
	FeeCents         uint32 `json:"fee_cents"`
}

// ErrTierNotFound is returned when a delivery tier cannot be found.
var ErrTierNotFound = errors.New("delivery tier not found")

// DeliveryRepo encapsulates all database queries related to delivery tiers.
type DeliveryRepo struct {
	db *sql.DB
}

// NewDeliveryRepo constructs a DeliveryRepo with the provided DB handle.
func NewDeliveryRepo(db *sql.DB) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// List returns the shop's tiers ordered by threshold.
func (r *DeliveryRepo) List(ctx context.Context, shopID uint64) ([]*DeliveryTier, error) {
	const q = `SELECT id, shop_id, min_subtotal_cents, fee_cents
	           FROM delivery_tiers WHERE shop_id = $1 ORDER BY min_subtotal_cents`
	rows, err := r.db.QueryContext(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DeliveryTier
	for rows.Next() {
		t := new(DeliveryTier)
		if err := rows.Scan(&t.ID, &t.ShopID, &t.MinSubtotalCents, &t.FeeCents); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a tier for the shop.
func (r *DeliveryRepo) Create(ctx context.Context, t *DeliveryTier) error {
	const q = `INSERT INTO delivery_tiers (shop_id, min_subtotal_cents, fee_cents)
	           VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, q, t.ShopID, t.MinSubtotalCents, t.FeeCents).Scan(&t.ID)
}

// Delete removes a tier owned by the shop.
func (r *DeliveryRepo) Delete(ctx context.Context, shopID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM delivery_tiers WHERE id = $1 AND shop_id = $2`, id, shopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTierNotFound
	}
	return nil
}

// FeeFor returns the delivery fee for a subtotal: the fee of the tier with
// the highest min_subtotal at or below it, or 0 when no tier applies.
func (r *DeliveryRepo) FeeFor(ctx context.Context, shopID uint64, subtotalCents uint32) (uint32, error) {
	const q = `SELECT fee_cents FROM delivery_tiers
	           WHERE shop_id = $1 AND min_subtotal_cents <= $2
	           ORDER BY min_subtotal_cents DESC LIMIT 1`
	var fee uint32
	err := r.db.QueryRowContext(ctx, q, shopID, subtotalCents).Scan(&fee)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return fee, nil
}
