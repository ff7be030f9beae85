// This file defines the AnalyticsRepo: read-only aggregation queries
// backing the super-admin dashboard. Cancelled orders are excluded from
// revenue figures.
package repository

import (
	"context"
	"database/sql"
)

// ShopSummary aggregates a shop's orders and revenue over a date range.
type ShopSummary struct {
	ShopID       uint64 `json:"shop_id"`
	ShopName     string `json:"shop_name"`
	OrderCount   uint64 `json:"order_count"`
	RevenueCents uint64 `json:"revenue_cents"`
}

// DailyCount is one day's platform-wide order volume.
type DailyCount struct {
	Date         string `json:"date"` // "YYYY-MM-DD"
	OrderCount   uint64 `json:"order_count"`
	RevenueCents uint64 `json:"revenue_cents"`
}

// AnalyticsRepo encapsulates aggregation queries over orders.
type AnalyticsRepo struct {
	db *sql.DB
}

// NewAnalyticsRepo constructs an AnalyticsRepo with the provided DB handle.
func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// nullDate binds an empty date string as SQL NULL so that a missing bound
// leaves that side of the range open instead of failing the ::date cast.
func nullDate(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SummaryByShop returns per-shop order counts and revenue between from and
// to (inclusive "YYYY-MM-DD" dates; either may be empty for an open
// bound). Shops with no orders are included with zeros so the dashboard
// shows every tenant.
func (r *AnalyticsRepo) SummaryByShop(ctx context.Context, from, to string) ([]*ShopSummary, error) {
	const q = `SELECT s.id, s.name,
	             COUNT(o.id) FILTER (WHERE o.status <> 'cancelled'),
	             COALESCE(SUM(o.total_cents) FILTER (WHERE o.status <> 'cancelled'), 0)
	           FROM shops s
	           LEFT JOIN orders o ON o.shop_id = s.id
	             AND ($1::date IS NULL OR o.created_at >= $1::date)
	             AND ($2::date IS NULL OR o.created_at < $2::date + INTERVAL '1 day')
	           GROUP BY s.id, s.name
	           ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, nullDate(from), nullDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ShopSummary
	for rows.Next() {
		s := new(ShopSummary)
		if err := rows.Scan(&s.ShopID, &s.ShopName, &s.OrderCount, &s.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Daily returns platform-wide per-day order counts and revenue between
// from and to (inclusive; either may be empty for an open bound).
func (r *AnalyticsRepo) Daily(ctx context.Context, from, to string) ([]*DailyCount, error) {
	const q = `SELECT to_char(o.created_at::date, 'YYYY-MM-DD'),
	             COUNT(*) FILTER (WHERE o.status <> 'cancelled'),
	             COALESCE(SUM(o.total_cents) FILTER (WHERE o.status <> 'cancelled'), 0)
	           FROM orders o
	           WHERE ($1::date IS NULL OR o.created_at >= $1::date)
	             AND ($2::date IS NULL OR o.created_at < $2::date + INTERVAL '1 day')
	           GROUP BY o.created_at::date
	           ORDER BY o.created_at::date`
	rows, err := r.db.QueryContext(ctx, q, nullDate(from), nullDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DailyCount
	for rows.Next() {
		d := new(DailyCount)
		if err := rows.Scan(&d.Date, &d.OrderCount, &d.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
