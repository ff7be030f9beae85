// Package availability decides whether a shop is currently accepting orders.
// The verdict is derived from a layered precedence of manual overrides,
// holiday dates and timezone-aware opening hours.  It is recomputed fresh on
// every call; nothing in this package is cached or persisted.
package availability

import (
	"context"
	"fmt"
	"time"
)

// Status values, in precedence order.  Exactly one of these is set on every
// resolved verdict.
const (
	StatusForceClose = "force_close"
	StatusForceOpen  = "force_open"
	StatusHoliday    = "holiday"
	StatusOpensLater = "opens_later"
	StatusClosed     = "closed"
	StatusOpen       = "open"
)

// Manual override values stored on a shop's availability config.
const (
	OverrideNone       = "none"
	OverrideForceOpen  = "force_open"
	OverrideForceClose = "force_close"
)

// Config is a shop's stored availability configuration.  A nil Config from
// the store means the shop never saved one and defaults apply.
type Config struct {
	OpeningTime    string  // wall-clock "HH:MM" in Timezone
	ClosingTime    string  // wall-clock "HH:MM" in Timezone
	Timezone       string  // IANA zone name, e.g. "Asia/Kolkata"
	ManualOverride string  // none | force_open | force_close
	OverrideReason *string // customer-facing text shown while an override is active
}

// Holiday is a single calendar date on which a shop is closed regardless of
// its normal hours.
type Holiday struct {
	Date string // "YYYY-MM-DD"
	Name string
}

// Status is the derived verdict returned to the storefront and the order
// gate.  It is never persisted.
type Status struct {
	IsOpen       bool   `json:"isOpen"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	HolidayName  string `json:"holidayName,omitempty"`
	NextOpenTime string `json:"nextOpenTime,omitempty"` // "HH:MM"
	OpeningTime  string `json:"openingTime"`
	ClosingTime  string `json:"closingTime"`
	Timezone     string `json:"timezone"`
}

// Store abstracts the two reads the resolver depends on.  Both methods
// return (nil, nil) when no row exists; any non-nil error is a real
// database failure and is propagated to the caller.
type Store interface {
	Config(ctx context.Context, shopID uint64) (*Config, error)
	HolidayOn(ctx context.Context, shopID uint64, date string) (*Holiday, error)
}

// Defaults are the values assumed for shops without a saved config and the
// fallback for malformed stored times.  Injected once at startup so tests
// can override them.
type Defaults struct {
	Opening  string
	Closing  string
	Timezone string
}

// DefaultHours is the platform-wide default schedule.
var DefaultHours = Defaults{Opening: "09:00", Closing: "22:00", Timezone: "Asia/Kolkata"}

// Resolver computes the live Status for a shop.  It is stateless and safe
// for concurrent use.
type Resolver struct {
	store    Store
	defaults Defaults
	now      func() time.Time
}

// NewResolver builds a Resolver over the given store.  Zero-value Defaults
// fields are filled in from DefaultHours.
func NewResolver(store Store, defaults Defaults) *Resolver {
	if store == nil {
		panic("nil store passed to NewResolver")
	}
	if defaults.Opening == "" {
		defaults.Opening = DefaultHours.Opening
	}
	if defaults.Closing == "" {
		defaults.Closing = DefaultHours.Closing
	}
	if defaults.Timezone == "" {
		defaults.Timezone = DefaultHours.Timezone
	}
	return &Resolver{store: store, defaults: defaults, now: time.Now}
}

// Defaults returns the schedule assumed for shops without a saved config.
func (r *Resolver) Defaults() Defaults { return r.defaults }

// Resolve computes the current Status for a shop.  It only errors when a
// store read fails; missing config, malformed stored times and unknown
// timezones all degrade to defaults so that an availability check always
// produces an answer.
func (r *Resolver) Resolve(ctx context.Context, shopID uint64) (Status, error) {
	cfg, err := r.store.Config(ctx, shopID)
	if err != nil {
		return Status{}, fmt.Errorf("load availability config: %w", err)
	}
	if cfg == nil {
		cfg = &Config{
			OpeningTime:    r.defaults.Opening,
			ClosingTime:    r.defaults.Closing,
			Timezone:       r.defaults.Timezone,
			ManualOverride: OverrideNone,
		}
	}

	opening := cfg.OpeningTime
	openMin, ok := parseClock(opening)
	if !ok {
		opening = r.defaults.Opening
		openMin, _ = parseClock(opening)
	}
	closing := cfg.ClosingTime
	closeMin, ok := parseClock(closing)
	if !ok {
		closing = r.defaults.Closing
		closeMin, _ = parseClock(closing)
	}

	st := Status{
		OpeningTime: opening,
		ClosingTime: closing,
		Timezone:    cfg.Timezone,
	}
	if st.Timezone == "" {
		st.Timezone = r.defaults.Timezone
	}

	// Overrides win over everything, including holidays.  force_open is the
	// escape hatch for admins taking orders on a scheduled holiday or
	// outside normal hours.
	switch cfg.ManualOverride {
	case OverrideForceClose:
		st.IsOpen = false
		st.Status = StatusForceClose
		st.Message = reasonOr(cfg.OverrideReason, "Temporarily Closed")
		return st, nil
	case OverrideForceOpen:
		st.IsOpen = true
		st.Status = StatusForceOpen
		st.Message = reasonOr(cfg.OverrideReason, "Open (Manually Opened)")
		return st, nil
	}

	// "Now" in the shop's own zone.  The same instant can fall on a
	// different calendar date in different zones, so the holiday key must
	// be built from the local date, not the server's.
	local := localTime(r.now(), st.Timezone)

	hol, err := r.store.HolidayOn(ctx, shopID, dateKey(local))
	if err != nil {
		return Status{}, fmt.Errorf("load holiday: %w", err)
	}
	if hol != nil {
		st.IsOpen = false
		st.Status = StatusHoliday
		st.Message = "Closed (" + hol.Name + ")"
		st.HolidayName = hol.Name
		return st, nil
	}

	// Same-day minute range: inclusive at opening, exclusive at closing.
	// Hours configured to span midnight (open >= close) always evaluate
	// closed; see DESIGN.md.
	nowMin := local.Hour()*60 + local.Minute()
	switch {
	case nowMin < openMin:
		st.IsOpen = false
		st.Status = StatusOpensLater
		st.Message = "Opens at " + opening
		st.NextOpenTime = opening
	case nowMin >= closeMin:
		st.IsOpen = false
		st.Status = StatusClosed
		st.Message = "Closed"
	default:
		st.IsOpen = true
		st.Status = StatusOpen
		st.Message = "Open"
	}
	return st, nil
}

func reasonOr(reason *string, fallback string) string {
	if reason != nil && *reason != "" {
		return *reason
	}
	return fallback
}
