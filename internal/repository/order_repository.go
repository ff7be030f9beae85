// This file defines the Order model and repository. Orders are created by
// the public checkout (after the availability gate approves) and managed by
// shop admins through a forward-only status pipeline. Customers track their
// order with an opaque uuid token instead of a guessable numeric id.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"
)

// Order statuses form a pipeline; transitions only move forward, and
// cancelled is terminal.
const (
	OrderPending        = "pending"
	OrderConfirmed      = "confirmed"
	OrderPreparing      = "preparing"
	OrderOutForDelivery = "out_for_delivery"
	OrderDelivered      = "delivered"
	OrderCancelled      = "cancelled"
)

// orderRank orders the pipeline states for transition validation.
var orderRank = map[string]int{
	OrderPending:        0,
	OrderConfirmed:      1,
	OrderPreparing:      2,
	OrderOutForDelivery: 3,
	OrderDelivered:      4,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	_, ok := orderRank[s]
	return ok || s == OrderCancelled
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves only; cancelled is reachable from any live state
// and terminal; delivered is terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	if from == OrderCancelled || from == OrderDelivered {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	fromRank, ok1 := orderRank[from]
	toRank, ok2 := orderRank[to]
	return ok1 && ok2 && toRank > fromRank
}

// Order mirrors the 'orders' table plus its line items.
type Order struct {
	ID               uint64       `json:"id"`
	ShopID           uint64       `json:"shop_id"`
	Token            string       `json:"token"`
	CustomerName     string       `json:"customer_name"`
	CustomerPhone    string       `json:"customer_phone"`
	Address          string       `json:"address"`
	Status           string       `json:"status"`
	SubtotalCents    uint32       `json:"subtotal_cents"`
	DeliveryFeeCents uint32       `json:"delivery_fee_cents"`
	TotalCents       uint32       `json:"total_cents"`
	Note             string       `json:"note,omitempty"`
	Items            []*OrderItem `json:"items,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// OrderItem snapshots a menu item at purchase time so later menu edits do
// not rewrite history.
type OrderItem struct {
	ID         uint64 `json:"id"`
	OrderID    uint64 `json:"order_id"`
	MenuItemID uint64 `json:"menu_item_id"`
	Name       string `json:"name"`
	PriceCents uint32 `json:"price_cents"`
	Quantity   uint32 `json:"quantity"`
}

var (
	// ErrOrderNotFound is returned when an order cannot be found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrBadTransition is returned for a disallowed status change.
	ErrBadTransition = errors.New("invalid order status transition")
)

// OrderRepo encapsulates all database queries related to orders.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo with the provided DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserts an order and its items in one transaction. The caller has
// already priced the items from menu rows and computed the totals.
func (r *OrderRepo) Create(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	const q = `INSERT INTO orders
	             (shop_id, token, customer_name, customer_phone, address, status,
	              subtotal_cents, delivery_fee_cents, total_cents, note)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	           RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, q,
		o.ShopID, o.Token, o.CustomerName, o.CustomerPhone, o.Address, o.Status,
		o.SubtotalCents, o.DeliveryFeeCents, o.TotalCents, o.Note).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for _, it := range o.Items {
		it.OrderID = o.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, name, price_cents, quantity)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			it.OrderID, it.MenuItemID, it.Name, it.PriceCents, it.Quantity).Scan(&it.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

const orderCols = `id, shop_id, token, customer_name, customer_phone, address, status,
                   subtotal_cents, delivery_fee_cents, total_cents, note, created_at, updated_at`

func scanOrder(scan func(...any) error) (*Order, error) {
	o := new(Order)
	err := scan(&o.ID, &o.ShopID, &o.Token, &o.CustomerName, &o.CustomerPhone, &o.Address,
		&o.Status, &o.SubtotalCents, &o.DeliveryFeeCents, &o.TotalCents, &o.Note,
		&o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByToken fetches an order with its items by public tracking token.
func (r *OrderRepo) GetByToken(ctx context.Context, token string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE token = $1", token).Scan)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.itemsFor(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByIDAndShop fetches an order with its items, scoped to the owning shop.
func (r *OrderRepo) GetByIDAndShop(ctx context.Context, id, shopID uint64) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		"SELECT "+orderCols+" FROM orders WHERE id = $1 AND shop_id = $2", id, shopID).Scan)
	if err != nil {
		return nil, err
	}
	if o.Items, err = r.itemsFor(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByShop returns the shop's orders, newest first, optionally filtered
// by status and/or creation date ("YYYY-MM-DD"). Items are not loaded for
// the list view.
func (r *OrderRepo) ListByShop(ctx context.Context, shopID uint64, status, date string, limit int) ([]*Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := "SELECT " + orderCols + " FROM orders WHERE shop_id = $1"
	args := []any{shopID}
	if status != "" {
		args = append(args, status)
		q += " AND status = $" + strconv.Itoa(len(args))
	}
	if date != "" {
		args = append(args, date)
		q += " AND created_at::date = $" + strconv.Itoa(len(args)) + "::date"
	}
	q += " ORDER BY id DESC LIMIT " + strconv.Itoa(limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an order through the pipeline, enforcing forward-only
// transitions inside a transaction so concurrent admin clicks cannot race
// past the check.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, shopID uint64, to string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 AND shop_id = $2 FOR UPDATE`, id, shopID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(current, to) {
		return ErrBadTransition
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, to, id)
	return err
}

func (r *OrderRepo) itemsFor(ctx context.Context, orderID uint64) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, menu_item_id, name, price_cents, quantity
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*OrderItem
	for rows.Next() {
		it := new(OrderItem)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.PriceCents, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
