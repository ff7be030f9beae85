package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityBodyValidate(t *testing.T) {
	good := availabilityBody{OpeningTime: "09:00", ClosingTime: "22:00", Timezone: "Asia/Kolkata"}
	assert.Equal(t, "", good.validate())
	// empty override normalizes to none
	assert.Equal(t, "none", good.ManualOverride)

	cases := []struct {
		name string
		body availabilityBody
	}{
		{"bad opening", availabilityBody{OpeningTime: "9am", ClosingTime: "22:00", Timezone: "Asia/Kolkata"}},
		{"bad closing", availabilityBody{OpeningTime: "09:00", ClosingTime: "24:00", Timezone: "Asia/Kolkata"}},
		{"unknown zone", availabilityBody{OpeningTime: "09:00", ClosingTime: "22:00", Timezone: "Mars/Olympus"}},
		{"empty zone", availabilityBody{OpeningTime: "09:00", ClosingTime: "22:00"}},
		{"bad override", availabilityBody{OpeningTime: "09:00", ClosingTime: "22:00", Timezone: "UTC", ManualOverride: "closed"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, "", tc.body.validate())
		})
	}

	force := availabilityBody{OpeningTime: "09:00", ClosingTime: "22:00", Timezone: "UTC", ManualOverride: "force_close"}
	assert.Equal(t, "", force.validate())
}

func TestOfferBodyValidate(t *testing.T) {
	good := offerBody{Title: " Diwali Special ", DiscountPercent: 20, StartsOn: "2026-10-01", EndsOn: "2026-10-31"}
	assert.Equal(t, "", good.validate())
	assert.Equal(t, "Diwali Special", good.Title)

	assert.NotEqual(t, "", (&offerBody{Title: "", StartsOn: "2026-10-01", EndsOn: "2026-10-31"}).validate())
	assert.NotEqual(t, "", (&offerBody{Title: "x", DiscountPercent: 101, StartsOn: "2026-10-01", EndsOn: "2026-10-31"}).validate())
	assert.NotEqual(t, "", (&offerBody{Title: "x", StartsOn: "01-10-2026", EndsOn: "2026-10-31"}).validate())
	// window must not be inverted
	assert.NotEqual(t, "", (&offerBody{Title: "x", StartsOn: "2026-10-31", EndsOn: "2026-10-01"}).validate())
}

func TestItemBodyValidate(t *testing.T) {
	good := itemBody{SectionID: 3, Name: "Paneer Tikka", PriceCents: 24900}
	assert.Equal(t, "", good.validate())

	assert.NotEqual(t, "", (&itemBody{Name: "x", PriceCents: 100}).validate())
	assert.NotEqual(t, "", (&itemBody{SectionID: 1, Name: "  ", PriceCents: 100}).validate())
	assert.NotEqual(t, "", (&itemBody{SectionID: 1, Name: "x"}).validate())
}

func TestSlugPattern(t *testing.T) {
	valid := []string{"spice-villa", "cafe9", "a", "a-b-c"}
	invalid := []string{"", "Spice", "spice_villa", "-spice", "spice-", "spice--villa", "spice villa"}
	for _, s := range valid {
		assert.True(t, slugRe.MatchString(s), s)
	}
	for _, s := range invalid {
		assert.False(t, slugRe.MatchString(s), s)
	}
}

func TestCtxUint(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())

	// JWT claims decode as float64
	c.Set("shop_id", float64(42))
	got, err := ctxUint(c, "shop_id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	c.Set("user_id", "17")
	got, err = ctxUint(c, "user_id")
	require.NoError(t, err)
	assert.Equal(t, uint64(17), got)

	_, err = ctxUint(c, "missing")
	assert.Error(t, err)
}
