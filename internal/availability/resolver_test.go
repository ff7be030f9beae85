package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves a single shop's config and holidays from memory.
type fakeStore struct {
	cfg      *Config
	holidays map[string]string // date -> name
	cfgErr   error
	holErr   error
}

func (f *fakeStore) Config(_ context.Context, _ uint64) (*Config, error) {
	return f.cfg, f.cfgErr
}

func (f *fakeStore) HolidayOn(_ context.Context, _ uint64, date string) (*Holiday, error) {
	if f.holErr != nil {
		return nil, f.holErr
	}
	if name, ok := f.holidays[date]; ok {
		return &Holiday{Date: date, Name: name}, nil
	}
	return nil, nil
}

// kolkata builds an instant whose wall-clock time in Asia/Kolkata is the
// given hour and minute on 2026-03-10 (a Tuesday, no DST in that zone).
func kolkata(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return time.Date(2026, 3, 10, hour, min, 0, 0, loc)
}

func resolverAt(store Store, now time.Time) *Resolver {
	r := NewResolver(store, Defaults{})
	r.now = func() time.Time { return now }
	return r
}

func strPtr(s string) *string { return &s }

func defaultConfig() *Config {
	return &Config{
		OpeningTime:    "09:00",
		ClosingTime:    "22:00",
		Timezone:       "Asia/Kolkata",
		ManualOverride: OverrideNone,
	}
}

func TestResolve_HoursBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		hour, min  int
		wantOpen   bool
		wantStatus string
	}{
		{"one minute before opening", 8, 59, false, StatusOpensLater},
		{"exactly at opening", 9, 0, true, StatusOpen},
		{"mid-day", 13, 30, true, StatusOpen},
		{"one minute before closing", 21, 59, true, StatusOpen},
		{"exactly at closing", 22, 0, false, StatusClosed},
		{"after closing", 23, 15, false, StatusClosed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := resolverAt(&fakeStore{cfg: defaultConfig()}, kolkata(t, tc.hour, tc.min))
			st, err := r.Resolve(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOpen, st.IsOpen)
			assert.Equal(t, tc.wantStatus, st.Status)
		})
	}
}

func TestResolve_OpensLaterFields(t *testing.T) {
	r := resolverAt(&fakeStore{cfg: defaultConfig()}, kolkata(t, 8, 59))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, st.IsOpen)
	assert.Equal(t, StatusOpensLater, st.Status)
	assert.Equal(t, "09:00", st.NextOpenTime)
	assert.Equal(t, "Opens at 09:00", st.Message)
}

func TestResolve_ForceCloseWinsOverEverything(t *testing.T) {
	// Today is a holiday AND within normal hours; force_close still wins.
	cfg := defaultConfig()
	cfg.ManualOverride = OverrideForceClose
	cfg.OverrideReason = strPtr("Kitchen renovation")
	store := &fakeStore{cfg: cfg, holidays: map[string]string{"2026-03-10": "Festival"}}

	r := resolverAt(store, kolkata(t, 12, 0))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, st.IsOpen)
	assert.Equal(t, StatusForceClose, st.Status)
	assert.Equal(t, "Kitchen renovation", st.Message)
}

func TestResolve_ForceCloseDefaultMessage(t *testing.T) {
	cfg := defaultConfig()
	cfg.ManualOverride = OverrideForceClose
	r := resolverAt(&fakeStore{cfg: cfg}, kolkata(t, 12, 0))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Temporarily Closed", st.Message)
}

func TestResolve_ForceOpenWinsOverHolidayAndHours(t *testing.T) {
	cfg := defaultConfig()
	cfg.ManualOverride = OverrideForceOpen
	store := &fakeStore{cfg: cfg, holidays: map[string]string{"2026-03-10": "Festival"}}

	// 03:00 local: outside hours, on a holiday. force_open still opens.
	r := resolverAt(store, kolkata(t, 3, 0))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, st.IsOpen)
	assert.Equal(t, StatusForceOpen, st.Status)
	assert.Equal(t, "Open (Manually Opened)", st.Message)
}

func TestResolve_Holiday(t *testing.T) {
	store := &fakeStore{cfg: defaultConfig(), holidays: map[string]string{"2026-03-10": "Holi"}}
	r := resolverAt(store, kolkata(t, 12, 0))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, st.IsOpen)
	assert.Equal(t, StatusHoliday, st.Status)
	assert.Equal(t, "Holi", st.HolidayName)
	assert.Equal(t, "Closed (Holi)", st.Message)
}

func TestResolve_HolidayDateUsesShopTimezone(t *testing.T) {
	// 2026-03-10 20:30 UTC is already 2026-03-11 02:00 in Asia/Kolkata.
	// The holiday lookup must use the shop-local date, not the server date.
	now := time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC)
	store := &fakeStore{cfg: defaultConfig(), holidays: map[string]string{"2026-03-11": "Festival"}}
	r := resolverAt(store, now)
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, StatusHoliday, st.Status)
	assert.Equal(t, "Festival", st.HolidayName)
}

func TestResolve_MissingConfigUsesDefaults(t *testing.T) {
	withCfg := resolverAt(&fakeStore{cfg: defaultConfig()}, kolkata(t, 10, 0))
	without := resolverAt(&fakeStore{cfg: nil}, kolkata(t, 10, 0))

	a, err := withCfg.Resolve(context.Background(), 1)
	require.NoError(t, err)
	b, err := without.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "09:00", b.OpeningTime)
	assert.Equal(t, "22:00", b.ClosingTime)
	assert.Equal(t, "Asia/Kolkata", b.Timezone)
}

func TestResolve_InvalidTimezoneStillResolves(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timezone = "Mars/Olympus_Mons"
	r := resolverAt(&fakeStore{cfg: cfg}, time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	// Server-local fallback: 12:00 local is within 09:00-22:00.
	assert.Equal(t, StatusOpen, st.Status)
	assert.True(t, st.IsOpen)
	assert.Equal(t, "Mars/Olympus_Mons", st.Timezone)
}

func TestResolve_MalformedTimesFallBackToDefaults(t *testing.T) {
	cfg := defaultConfig()
	cfg.OpeningTime = "9 o'clock"
	cfg.ClosingTime = "25:99"
	r := resolverAt(&fakeStore{cfg: cfg}, kolkata(t, 10, 0))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "09:00", st.OpeningTime)
	assert.Equal(t, "22:00", st.ClosingTime)
	assert.Equal(t, StatusOpen, st.Status)
}

func TestResolve_MidnightSpanningHoursEvaluateClosed(t *testing.T) {
	// Known limitation: open >= close is a same-day range and never matches.
	cfg := defaultConfig()
	cfg.OpeningTime = "22:00"
	cfg.ClosingTime = "09:00"
	r := resolverAt(&fakeStore{cfg: cfg}, kolkata(t, 23, 0))
	st, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, st.IsOpen)
	assert.Equal(t, StatusClosed, st.Status)
}

func TestResolve_ExactlyOneStatus(t *testing.T) {
	known := map[string]bool{
		StatusForceClose: true, StatusForceOpen: true, StatusHoliday: true,
		StatusOpensLater: true, StatusClosed: true, StatusOpen: true,
	}
	configs := []*Config{
		nil,
		defaultConfig(),
		{ManualOverride: OverrideForceOpen},
		{ManualOverride: OverrideForceClose},
		{OpeningTime: "bad", ClosingTime: "worse", Timezone: "nope", ManualOverride: "garbage"},
	}
	for _, cfg := range configs {
		for _, hour := range []int{0, 8, 9, 15, 22, 23} {
			r := resolverAt(&fakeStore{cfg: cfg, holidays: map[string]string{"2026-03-10": "X"}}, kolkata(t, hour, 0))
			st, err := r.Resolve(context.Background(), 1)
			require.NoError(t, err)
			assert.True(t, known[st.Status], "unknown status %q", st.Status)
			assert.Equal(t, st.Status == StatusOpen || st.Status == StatusForceOpen, st.IsOpen)
		}
	}
}

func TestResolve_StoreErrorsPropagate(t *testing.T) {
	dbErr := errors.New("connection reset")
	r := resolverAt(&fakeStore{cfgErr: dbErr}, kolkata(t, 12, 0))
	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, dbErr)

	r = resolverAt(&fakeStore{cfg: defaultConfig(), holErr: dbErr}, kolkata(t, 12, 0))
	_, err = r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, dbErr)
}

func TestGate(t *testing.T) {
	require.NoError(t, Gate(Status{IsOpen: true, Status: StatusOpen}))

	err := Gate(Status{IsOpen: false, Status: StatusHoliday, Message: "Closed (Holi)"})
	var closed *ClosedError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, StatusHoliday, closed.Status)
	assert.Equal(t, "Closed (Holi)", closed.Message)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in  string
		min int
		ok  bool
	}{
		{"09:00", 540, true},
		{"9:05", 545, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := parseClock(tc.in)
		assert.Equal(t, tc.ok, ok, "parseClock(%q) ok", tc.in)
		if tc.ok {
			assert.Equal(t, tc.min, got, "parseClock(%q)", tc.in)
		}
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidClock("09:00"))
	assert.True(t, ValidClock("9:00"))
	assert.False(t, ValidClock("24:00"))
	assert.False(t, ValidClock("09:0"))

	assert.True(t, ValidDate("2026-01-26"))
	assert.False(t, ValidDate("2026-13-01"))
	assert.False(t, ValidDate("26-01-2026"))

	assert.True(t, ValidOverride(OverrideNone))
	assert.True(t, ValidOverride(OverrideForceOpen))
	assert.True(t, ValidOverride(OverrideForceClose))
	assert.False(t, ValidOverride("open"))
	assert.False(t, ValidOverride(""))
}
