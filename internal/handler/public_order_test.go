package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineinbox/shop-ordering/internal/repository"
)

func TestPriceCart(t *testing.T) {
	menu := map[uint64]*repository.MenuItem{
		7: {ID: 7, Name: "Paneer Tikka", PriceCents: 24900},
		9: {ID: 9, Name: "Masala Chai", PriceCents: 3500},
	}
	qty := map[uint64]uint32{7: 2, 9: 3}

	subtotal, items, labels, err := priceCart(menu, []uint64{7, 9}, qty)

	require.NoError(t, err)
	assert.Equal(t, uint32(2*24900+3*3500), subtotal)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(7), items[0].MenuItemID)
	assert.Equal(t, uint32(24900), items[0].PriceCents)
	assert.Equal(t, uint32(2), items[0].Quantity)
	assert.Equal(t, []string{"2x Paneer Tikka", "3x Masala Chai"}, labels)
}

func TestPriceCartRejectsOverflow(t *testing.T) {
	// 24900 * 172533 = 4,296,071,700 cents, just past the uint32 range.
	// With 32-bit math this wraps to a tiny charge; it must error instead.
	menu := map[uint64]*repository.MenuItem{
		7: {ID: 7, Name: "Paneer Tikka", PriceCents: 24900},
	}
	qty := map[uint64]uint32{7: 172533}

	_, _, _, err := priceCart(menu, []uint64{7}, qty)
	assert.ErrorIs(t, err, errCartTooLarge)
}

func TestOrderPlacedEvent(t *testing.T) {
	placed := time.Date(2026, 8, 30, 18, 45, 12, 0, time.UTC)
	shop := &repository.Shop{ID: 4, Name: "Spice Garden"}
	order := &repository.Order{
		ID:               91,
		Token:            "tok-91",
		CustomerName:     "Asha",
		CustomerPhone:    "+911234567890",
		SubtotalCents:    53300,
		DeliveryFeeCents: 3000,
		TotalCents:       56300,
		CreatedAt:        placed,
	}

	ev := orderPlacedEvent(shop, order, []string{"2x Paneer Tikka", "3x Masala Chai"})

	assert.Equal(t, uint64(91), ev.OrderID)
	assert.Equal(t, "tok-91", ev.Token)
	assert.Equal(t, uint64(4), ev.ShopID)
	assert.Equal(t, "Spice Garden", ev.ShopName)
	assert.Equal(t, uint32(53300), ev.SubtotalCents)
	assert.Equal(t, uint32(3000), ev.DeliveryCents)
	assert.Equal(t, uint32(56300), ev.TotalCents)
	assert.Equal(t, "2026-08-30T18:45:12Z", ev.PlacedAt)

	parsed, err := time.Parse(time.RFC3339, ev.PlacedAt)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(placed))
}
