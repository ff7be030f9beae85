package handler

import (
	"context"  // detached context for async publishing
	"errors"   // sentinel error comparisons
	"fmt"      // building item labels for the event payload
	"math"     // subtotal bounds check
	"net/http" // HTTP status codes
	"strings"  // trimming customer fields
	"time"     // publish timeout

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dineinbox/shop-ordering/internal/availability"
	"github.com/dineinbox/shop-ordering/internal/queue"
	"github.com/dineinbox/shop-ordering/internal/repository"
	queue_publisher "github.com/dineinbox/shop-ordering/internal/service"
)

// OrderHandler serves the unauthenticated checkout and order tracking
// endpoints. Checkout is gated on the live store status: a closed store
// rejects the order with 409 regardless of what the storefront displayed
// when the cart was assembled.
type OrderHandler struct {
	ShopRepo     *repository.ShopRepo
	MenuRepo     *repository.MenuRepo
	DeliveryRepo *repository.DeliveryRepo
	OrderRepo    *repository.OrderRepo
	Resolver     *availability.Resolver
	Log          zerolog.Logger
}

// NewOrderHandler constructs an OrderHandler. All repository and resolver
// dependencies must be non-nil.
func NewOrderHandler(shops *repository.ShopRepo, menu *repository.MenuRepo, delivery *repository.DeliveryRepo, orders *repository.OrderRepo, resolver *availability.Resolver, log zerolog.Logger) *OrderHandler {
	if shops == nil || menu == nil || delivery == nil || orders == nil || resolver == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{
		ShopRepo:     shops,
		MenuRepo:     menu,
		DeliveryRepo: delivery,
		OrderRepo:    orders,
		Resolver:     resolver,
		Log:          log,
	}
}

// checkoutLine is one cart entry in the checkout request body.
type checkoutLine struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   uint32 `json:"quantity"`
}

// maxLineQuantity bounds the merged quantity of a single menu item per
// order. Anything larger is a client bug or an attempt to wrap the
// integer math, not a real order.
const maxLineQuantity = 100

// errCartTooLarge is returned by priceCart when the subtotal exceeds what
// the 32-bit cents columns can hold.
var errCartTooLarge = errors.New("cart total too large")

// priceCart snapshots the priced menu rows into order items and builds
// the event labels. The subtotal accumulates in uint64 and is bounds
// checked before narrowing, so an oversized cart fails loudly instead of
// wrapping.
func priceCart(menuItems map[uint64]*repository.MenuItem, ids []uint64, qty map[uint64]uint32) (uint32, []*repository.OrderItem, []string, error) {
	var subtotal uint64
	orderItems := make([]*repository.OrderItem, 0, len(ids))
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		mi := menuItems[id]
		subtotal += uint64(mi.PriceCents) * uint64(qty[id])
		orderItems = append(orderItems, &repository.OrderItem{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			PriceCents: mi.PriceCents,
			Quantity:   qty[id],
		})
		labels = append(labels, fmt.Sprintf("%dx %s", qty[id], mi.Name))
	}
	if subtotal > math.MaxUint32 {
		return 0, nil, nil, errCartTooLarge
	}
	return uint32(subtotal), orderItems, labels, nil
}

// orderPlacedEvent builds the broker payload for an accepted order.
func orderPlacedEvent(shop *repository.Shop, o *repository.Order, labels []string) queue.OrderPlacedEvent {
	return queue.OrderPlacedEvent{
		OrderID:       o.ID,
		Token:         o.Token,
		ShopID:        shop.ID,
		ShopName:      shop.Name,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Items:         labels,
		SubtotalCents: o.SubtotalCents,
		DeliveryCents: o.DeliveryFeeCents,
		TotalCents:    o.TotalCents,
		PlacedAt:      o.CreatedAt.Format(time.RFC3339),
	}
}

// Checkout handles POST /v1/shops/:slug/orders. It resolves the store
// status first and refuses with 409 when the store is not accepting
// orders. Prices are always taken from the menu rows, never from the
// request, and totals are recomputed server side.
func (h *OrderHandler) Checkout(c echo.Context) error {
	shop, err := h.ShopRepo.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	ctx := c.Request().Context()
	st, err := h.Resolver.Resolve(ctx, shop.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status unavailable"})
	}
	if gateErr := availability.Gate(st); gateErr != nil {
		var closed *availability.ClosedError
		if errors.As(gateErr, &closed) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":   "store_closed",
				"status":  closed.Status,
				"message": closed.Message,
			})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "store_closed"})
	}
	var body struct {
		CustomerName  string         `json:"customer_name"`
		CustomerPhone string         `json:"customer_phone"`
		Address       string         `json:"address"`
		Note          string         `json:"note"`
		Items         []checkoutLine `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.CustomerName = strings.TrimSpace(body.CustomerName)
	body.CustomerPhone = strings.TrimSpace(body.CustomerPhone)
	body.Address = strings.TrimSpace(body.Address)
	if body.CustomerName == "" || body.CustomerPhone == "" || body.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_name, customer_phone and address are required"})
	}
	if len(body.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "items is required"})
	}
	// merge duplicate lines so quantities accumulate
	qty := make(map[uint64]uint32)
	ids := make([]uint64, 0, len(body.Items))
	for _, line := range body.Items {
		if line.MenuItemID == 0 || line.Quantity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each item needs a menu_item_id and a positive quantity"})
		}
		if _, seen := qty[line.MenuItemID]; !seen {
			ids = append(ids, line.MenuItemID)
		}
		qty[line.MenuItemID] += line.Quantity
		if line.Quantity > maxLineQuantity || qty[line.MenuItemID] > maxLineQuantity {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("quantity per item is limited to %d", maxLineQuantity)})
		}
	}
	// server-side pricing from current menu rows
	menuItems, err := h.MenuRepo.GetItemsForOrder(ctx, shop.ID, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	unavailable := make([]uint64, 0)
	for _, id := range ids {
		if _, ok := menuItems[id]; !ok {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "some items are unavailable",
			"unavailable": unavailable,
		})
	}
	subtotal, orderItems, labels, err := priceCart(menuItems, ids, qty)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart total too large"})
	}
	fee, err := h.DeliveryRepo.FeeFor(ctx, shop.ID, subtotal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if uint64(subtotal)+uint64(fee) > math.MaxUint32 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart total too large"})
	}
	order := &repository.Order{
		ShopID:           shop.ID,
		Token:            uuid.NewString(),
		CustomerName:     body.CustomerName,
		CustomerPhone:    body.CustomerPhone,
		Address:          body.Address,
		Status:           repository.OrderPending,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + fee,
		Note:             strings.TrimSpace(body.Note),
		Items:            orderItems,
	}
	if err := h.OrderRepo.Create(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	// notify asynchronously; the broker being down must not fail checkout
	event := orderPlacedEvent(shop, order, labels)
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishOrderPlaced(pubCtx, h.Log, event)
	}()
	return c.JSON(http.StatusCreated, echo.Map{
		"token":              order.Token,
		"status":             order.Status,
		"subtotal_cents":     order.SubtotalCents,
		"delivery_fee_cents": order.DeliveryFeeCents,
		"total_cents":        order.TotalCents,
	})
}

// Track handles GET /v1/orders/:token. The opaque token is the only
// credential a customer holds, so the response omits nothing the customer
// did not submit themselves.
func (h *OrderHandler) Track(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	order, err := h.OrderRepo.GetByToken(c.Request().Context(), token)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": order})
}
