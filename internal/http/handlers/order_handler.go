package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tablepos/internal/domain"
	"tablepos/internal/pos"
	"tablepos/internal/services"
	"tablepos/internal/validate"
)

// WalkInCustomer names orders placed without a customer name.
const WalkInCustomer = "Walk-in Customer"

type OrderHandler struct {
	Orders *services.OrderService
	Tables *services.TableService
}

type placeOrderRequest struct {
	CustomerName string `json:"customerName" form:"customerName"`
	PartySize    int    `json:"partySize" form:"partySize"`
	TableID      string `json:"tableId" form:"tableId"`
}

// tableNumber resolves the display number of an order's table; 0 when the
// order has none or the table is gone.
func (h *OrderHandler) tableNumber(c *fiber.Ctx, o domain.Order) int {
	if o.TableID == "" {
		return 0
	}
	t, err := h.Tables.Get(c.UserContext(), o.TableID)
	if err != nil {
		return 0
	}
	return t.Number
}

// POST /api/v1/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "body", "malformed order")
	}
	name, ok := validate.CustomerName(req.CustomerName)
	if !ok {
		return invalid(c, "customerName", "customer name must be up to 40 letters")
	}
	if name == "" {
		name = WalkInCustomer
	}
	if req.PartySize == 0 {
		req.PartySize = 1
	}
	if !validate.PartySize(req.PartySize) {
		return invalid(c, "partySize", "party size must be between 1 and 50")
	}
	info := pos.CustomerInfo{Name: name, PartySize: req.PartySize}
	if req.TableID != "" {
		if info.TableID, ok = validate.ID(req.TableID); !ok {
			return invalid(c, "tableId", "invalid tableId")
		}
	}

	o, err := h.Orders.Place(c.UserContext(), sid, info)
	if err != nil {
		return fail(c, "order.place", err)
	}
	return c.Status(fiber.StatusCreated).JSON(orderView(o, h.tableNumber(c, o)))
}

// GET /api/v1/orders?tab=&q=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	q := services.OrderQuery{Tab: c.Query("tab", services.TabAll)}
	if raw := c.Query("q"); raw != "" {
		needle, ok := validate.Q(raw)
		if !ok {
			return invalid(c, "q", "invalid search query")
		}
		q.Q = needle
	}
	orders, err := h.Orders.List(c.UserContext(), q)
	if err != nil {
		return fail(c, "order.list", err)
	}
	return c.JSON(orderListView(orders))
}

func (h *OrderHandler) orderID(c *fiber.Ctx) (string, bool) {
	return validate.OrderID(c.Params("id"))
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := h.orderID(c)
	if !ok {
		return invalid(c, "id", "invalid order id")
	}
	o, err := h.Orders.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "order.get", err)
	}
	return c.JSON(orderView(o, h.tableNumber(c, o)))
}

// POST /api/v1/orders/:id/advance
func (h *OrderHandler) Advance(c *fiber.Ctx) error {
	id, ok := h.orderID(c)
	if !ok {
		return invalid(c, "id", "invalid order id")
	}
	o, err := h.Orders.Advance(c.UserContext(), id)
	if err != nil {
		return fail(c, "order.advance", err)
	}
	return c.JSON(orderView(o, h.tableNumber(c, o)))
}

// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := h.orderID(c)
	if !ok {
		return invalid(c, "id", "invalid order id")
	}
	o, err := h.Orders.Cancel(c.UserContext(), id)
	if err != nil {
		return fail(c, "order.cancel", err)
	}
	return c.JSON(orderView(o, h.tableNumber(c, o)))
}
