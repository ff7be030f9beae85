// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedEvent is published when the storefront accepts a new order.
// It carries enough information for downstream consumers to log, notify
// the shop, or feed analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID       uint64   `json:"order_id"`
	Token         string   `json:"token"`
	ShopID        uint64   `json:"shop_id"`
	ShopName      string   `json:"shop_name"`
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
	Items         []string `json:"items"` // "2x Paneer Tikka" style labels
	SubtotalCents uint32   `json:"subtotal_cents"`
	DeliveryCents uint32   `json:"delivery_fee_cents"`
	TotalCents    uint32   `json:"total_cents"`
	PlacedAt      string   `json:"placed_at"`
}
