package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/repository"
)

// fakeShops serves a fixed set of active shop IDs.
type fakeShops struct {
	activeIDs []uint64
	listErr   error
}

func (f *fakeShops) Create(ctx context.Context, s *repository.Shop) error { return nil }
func (f *fakeShops) GetByID(ctx context.Context, id uint64) (*repository.Shop, error) {
	return nil, repository.ErrShopNotFound
}
func (f *fakeShops) ListAll(ctx context.Context) ([]*repository.Shop, error) { return nil, nil }
func (f *fakeShops) ListActiveIDs(ctx context.Context) ([]uint64, error) {
	return f.activeIDs, f.listErr
}
func (f *fakeShops) UpdateInfo(ctx context.Context, id uint64, name, address, phone string) error {
	return nil
}
func (f *fakeShops) SetActive(ctx context.Context, id uint64, active bool) error { return nil }

// fakeAvailabilityWriter records writes, failing or skipping per shop.
type fakeAvailabilityWriter struct {
	failOn   map[uint64]bool // shops whose writes error
	hasDate  map[uint64]bool // shops that already hold the holiday
	upserted []uint64
	added    []uint64
}

func (f *fakeAvailabilityWriter) UpsertConfig(ctx context.Context, shopID uint64, cfg availability.Config) error {
	if f.failOn[shopID] {
		return errors.New("db down")
	}
	f.upserted = append(f.upserted, shopID)
	return nil
}

func (f *fakeAvailabilityWriter) AddHolidayIfAbsent(ctx context.Context, shopID uint64, date, name string) (bool, error) {
	if f.failOn[shopID] {
		return false, errors.New("db down")
	}
	if f.hasDate[shopID] {
		return false, nil
	}
	f.added = append(f.added, shopID)
	return true, nil
}

func superHandlerWith(shops *fakeShops, avail *fakeAvailabilityWriter) *SuperAdminHandler {
	return &SuperAdminHandler{ShopRepo: shops, AvailabilityRepo: avail, Log: zerolog.Nop()}
}

func postJSON(t *testing.T, h echo.HandlerFunc, method, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestBulkUpdateAvailabilityCountsFailures(t *testing.T) {
	shops := &fakeShops{activeIDs: []uint64{1, 2, 3}}
	avail := &fakeAvailabilityWriter{failOn: map[uint64]bool{2: true}}
	h := superHandlerWith(shops, avail)

	rec, out := postJSON(t, h.BulkUpdateAvailability, http.MethodPut,
		`{"opening_time":"10:00","closing_time":"21:00","timezone":"Asia/Kolkata"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), out["updated"])
	assert.Equal(t, []any{float64(2)}, out["failed"])
	// the failing shop must not stop the rest
	assert.Equal(t, []uint64{1, 3}, avail.upserted)
}

func TestBulkUpdateAvailabilityRejectsBadConfig(t *testing.T) {
	h := superHandlerWith(&fakeShops{activeIDs: []uint64{1}}, &fakeAvailabilityWriter{})

	rec, _ := postJSON(t, h.BulkUpdateAvailability, http.MethodPut,
		`{"opening_time":"25:00","closing_time":"21:00","timezone":"Asia/Kolkata"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkAddHolidayCountsCreatedSkippedFailed(t *testing.T) {
	shops := &fakeShops{activeIDs: []uint64{1, 2, 3, 4}}
	avail := &fakeAvailabilityWriter{
		hasDate: map[uint64]bool{2: true}, // already has the holiday
		failOn:  map[uint64]bool{3: true},
	}
	h := superHandlerWith(shops, avail)

	rec, out := postJSON(t, h.BulkAddHoliday, http.MethodPost,
		`{"date":"2026-10-20","name":"Diwali"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), out["created"])
	assert.Equal(t, float64(1), out["skipped"])
	assert.Equal(t, []any{float64(3)}, out["failed"])
	assert.Equal(t, []uint64{1, 4}, avail.added)
}

func TestBulkAddHolidayValidatesInput(t *testing.T) {
	h := superHandlerWith(&fakeShops{activeIDs: []uint64{1}}, &fakeAvailabilityWriter{})

	rec, _ := postJSON(t, h.BulkAddHoliday, http.MethodPost, `{"date":"20-10-2026","name":"Diwali"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postJSON(t, h.BulkAddHoliday, http.MethodPost, `{"date":"2026-10-20","name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsRangeAcceptsOpenBounds(t *testing.T) {
	e := echo.New()

	newCtx := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	from, to, ok := analyticsRange(newCtx("/"))
	assert.True(t, ok)
	assert.Empty(t, from)
	assert.Empty(t, to)

	from, to, ok = analyticsRange(newCtx("/?from=2026-08-01"))
	assert.True(t, ok)
	assert.Equal(t, "2026-08-01", from)
	assert.Empty(t, to)

	_, _, ok = analyticsRange(newCtx("/?from=01-08-2026"))
	assert.False(t, ok)
}

func TestBulkAddHolidayListErrorIs500(t *testing.T) {
	h := superHandlerWith(&fakeShops{listErr: errors.New("db down")}, &fakeAvailabilityWriter{})

	rec, _ := postJSON(t, h.BulkAddHoliday, http.MethodPost, `{"date":"2026-10-20","name":"Diwali"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
