// This file defines the AvailabilityRepo, which persists per-shop
// availability configurations and holiday calendars. It is the concrete
// implementation of availability.Store: the resolver only ever sees the two
// read methods, never the query mechanism behind them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dineinbox/shop-ordering/internal/availability"
)

// ErrDuplicateHoliday is returned by AddHoliday when the shop already has a
// holiday on that date. Bulk callers use AddHolidayIfAbsent instead, which
// skips silently and reports the outcome.
var ErrDuplicateHoliday = errors.New("holiday already exists for this date")

// ErrHolidayNotFound is returned when a holiday row cannot be found.
var ErrHolidayNotFound = errors.New("holiday not found")

// HolidayRow is a stored holiday including its row ID, used by the admin
// list/delete endpoints. The resolver only consumes availability.Holiday.
type HolidayRow struct {
	ID   uint64 `json:"id"`
	Date string `json:"date"` // "YYYY-MM-DD"
	Name string `json:"name"`
}

// AvailabilityRepo encapsulates all database queries related to
// availability configs and holidays.
type AvailabilityRepo struct {
	db *sql.DB
}

// NewAvailabilityRepo constructs an AvailabilityRepo with the provided DB
// handle.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

// Config returns the shop's stored availability configuration, or
// (nil, nil) when the shop never saved one. The resolver treats absence as
// "use defaults", so no sentinel error is needed here.
func (r *AvailabilityRepo) Config(ctx context.Context, shopID uint64) (*availability.Config, error) {
	const q = `SELECT opening_time, closing_time, timezone, manual_override, override_reason
	           FROM availability_configs WHERE shop_id = $1`
	var (
		c      availability.Config
		reason sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, shopID).
		Scan(&c.OpeningTime, &c.ClosingTime, &c.Timezone, &c.ManualOverride, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		c.OverrideReason = &reason.String
	}
	return &c, nil
}

// HolidayOn returns the shop's holiday on the given local calendar date, or
// (nil, nil) when the date is not a holiday.
func (r *AvailabilityRepo) HolidayOn(ctx context.Context, shopID uint64, date string) (*availability.Holiday, error) {
	const q = `SELECT to_char(holiday_date, 'YYYY-MM-DD'), name
	           FROM holidays WHERE shop_id = $1 AND holiday_date = $2::date`
	var h availability.Holiday
	err := r.db.QueryRowContext(ctx, q, shopID, date).Scan(&h.Date, &h.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// UpsertConfig writes the shop's availability configuration, creating the
// row lazily on first write. A shop has at most one config row; the row is
// never deleted.
func (r *AvailabilityRepo) UpsertConfig(ctx context.Context, shopID uint64, cfg availability.Config) error {
	const q = `INSERT INTO availability_configs
	             (shop_id, opening_time, closing_time, timezone, manual_override, override_reason, updated_at)
	           VALUES ($1, $2, $3, $4, $5, $6, NOW())
	           ON CONFLICT (shop_id) DO UPDATE SET
	             opening_time = EXCLUDED.opening_time,
	             closing_time = EXCLUDED.closing_time,
	             timezone = EXCLUDED.timezone,
	             manual_override = EXCLUDED.manual_override,
	             override_reason = EXCLUDED.override_reason,
	             updated_at = NOW()`
	var reason sql.NullString
	if cfg.OverrideReason != nil {
		reason = sql.NullString{String: *cfg.OverrideReason, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		shopID, cfg.OpeningTime, cfg.ClosingTime, cfg.Timezone, cfg.ManualOverride, reason)
	return err
}

// ListHolidays returns all of the shop's holidays ordered by date. Past
// holidays are retained; only "is today a holiday" matters for the live
// decision, but admins see the full calendar.
func (r *AvailabilityRepo) ListHolidays(ctx context.Context, shopID uint64) ([]*HolidayRow, error) {
	const q = `SELECT id, to_char(holiday_date, 'YYYY-MM-DD'), name
	           FROM holidays WHERE shop_id = $1 ORDER BY holiday_date`
	rows, err := r.db.QueryContext(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*HolidayRow
	for rows.Next() {
		h := new(HolidayRow)
		if err := rows.Scan(&h.ID, &h.Date, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddHoliday inserts a single holiday and returns its ID. Duplicate
// (shop, date) pairs are rejected with ErrDuplicateHoliday; the unique
// index guarantees a second row is never created.
func (r *AvailabilityRepo) AddHoliday(ctx context.Context, shopID uint64, date, name string) (uint64, error) {
	const q = `INSERT INTO holidays (shop_id, holiday_date, name)
	           VALUES ($1, $2::date, $3) RETURNING id`
	var id uint64
	if err := r.db.QueryRowContext(ctx, q, shopID, date, name).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateHoliday
		}
		return 0, err
	}
	return id, nil
}

// AddHolidayIfAbsent inserts a holiday unless the shop already has one on
// that date. It reports whether a row was actually created, letting bulk
// callers count created vs skipped shops.
func (r *AvailabilityRepo) AddHolidayIfAbsent(ctx context.Context, shopID uint64, date, name string) (bool, error) {
	const q = `INSERT INTO holidays (shop_id, holiday_date, name)
	           VALUES ($1, $2::date, $3)
	           ON CONFLICT (shop_id, holiday_date) DO NOTHING`
	res, err := r.db.ExecContext(ctx, q, shopID, date, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteHoliday removes a single holiday belonging to the shop. It returns
// ErrHolidayNotFound when no row matches.
func (r *AvailabilityRepo) DeleteHoliday(ctx context.Context, shopID, holidayID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM holidays WHERE id = $1 AND shop_id = $2`, holidayID, shopID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHolidayNotFound
	}
	return nil
}
