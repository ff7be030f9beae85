package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderPreparing, true},
		{OrderPreparing, OrderOutForDelivery, true},
		{OrderOutForDelivery, OrderDelivered, true},
		{OrderPending, OrderDelivered, true}, // skipping forward is allowed
		{OrderPending, OrderCancelled, true},
		{OrderOutForDelivery, OrderCancelled, true},

		{OrderConfirmed, OrderPending, false}, // no backwards moves
		{OrderDelivered, OrderPreparing, false},
		{OrderDelivered, OrderCancelled, false}, // delivered is terminal
		{OrderCancelled, OrderPending, false},   // cancelled is terminal
		{OrderCancelled, OrderCancelled, false},
		{OrderPending, OrderPending, false},
		{OrderPending, "lost", false},
		{"", OrderConfirmed, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderPending, OrderConfirmed, OrderPreparing, OrderOutForDelivery, OrderDelivered, OrderCancelled} {
		assert.True(t, ValidOrderStatus(s), s)
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}
