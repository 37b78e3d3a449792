package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tablepos/internal/services"
	"tablepos/internal/validate"
)

type TableHandler struct {
	Tables *services.TableService
}

func tableID(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

// GET /api/v1/tables
func (h *TableHandler) List(c *fiber.Ctx) error {
	tables, err := h.Tables.List(c.UserContext())
	if err != nil {
		return fail(c, "table.list", err)
	}
	out := make([]tableJSON, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableView(t))
	}
	return c.JSON(out)
}

// GET /api/v1/tables/next-number
func (h *TableHandler) NextNumber(c *fiber.Ctx) error {
	n, err := h.Tables.NextNumber(c.UserContext())
	if err != nil {
		return fail(c, "table.next", err)
	}
	return c.JSON(fiber.Map{"number": n, "seats": services.DefaultSeats})
}

// POST /api/v1/tables
func (h *TableHandler) Add(c *fiber.Ctx) error {
	var req struct {
		Number *int `json:"number"`
		Seats  *int `json:"seats"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "body", "malformed table")
	}
	t, err := h.Tables.Add(c.UserContext(), services.NewTable{Number: req.Number, Seats: req.Seats})
	if err != nil {
		return fail(c, "table.add", err)
	}
	return c.Status(fiber.StatusCreated).JSON(tableView(t))
}

// GET /api/v1/tables/:id
func (h *TableHandler) Get(c *fiber.Ctx) error {
	id, ok := tableID(c)
	if !ok {
		return invalid(c, "id", "invalid table id")
	}
	t, err := h.Tables.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "table.get", err)
	}
	return c.JSON(tableView(t))
}

// POST /api/v1/tables/:id/seat
func (h *TableHandler) Seat(c *fiber.Ctx) error {
	id, ok := tableID(c)
	if !ok {
		return invalid(c, "id", "invalid table id")
	}
	var req struct {
		PartySize int    `json:"partySize" form:"partySize"`
		Server    string `json:"server" form:"server"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "body", "malformed request")
	}
	if !validate.PartySize(req.PartySize) {
		return invalid(c, "partySize", "party size must be between 1 and 50")
	}
	server, ok := validate.ServerName(req.Server)
	if !ok {
		return invalid(c, "server", "server name must be 1-20 letters")
	}
	t, err := h.Tables.Seat(c.UserContext(), id, req.PartySize, server)
	if err != nil {
		return fail(c, "table.seat", err)
	}
	return c.JSON(tableView(t))
}

// POST /api/v1/tables/:id/clear
func (h *TableHandler) Clear(c *fiber.Ctx) error {
	id, ok := tableID(c)
	if !ok {
		return invalid(c, "id", "invalid table id")
	}
	t, err := h.Tables.Clear(c.UserContext(), id)
	if err != nil {
		return fail(c, "table.clear", err)
	}
	return c.JSON(tableView(t))
}

// PUT /api/v1/tables/:id/order
func (h *TableHandler) LinkOrder(c *fiber.Ctx) error {
	id, ok := tableID(c)
	if !ok {
		return invalid(c, "id", "invalid table id")
	}
	var req struct {
		OrderID string `json:"orderId" form:"orderId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "body", "malformed request")
	}
	orderID, ok := validate.OrderID(req.OrderID)
	if !ok {
		return invalid(c, "orderId", "invalid order id")
	}
	t, err := h.Tables.LinkOrder(c.UserContext(), id, orderID)
	if err != nil {
		return fail(c, "table.link", err)
	}
	return c.JSON(tableView(t))
}

// GET /api/v1/tables/:id/order
func (h *TableHandler) CurrentOrder(c *fiber.Ctx) error {
	id, ok := tableID(c)
	if !ok {
		return invalid(c, "id", "invalid table id")
	}
	o, err := h.Tables.CurrentOrder(c.UserContext(), id)
	if err != nil {
		return fail(c, "table.order", err)
	}
	t, err := h.Tables.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "table.order", err)
	}
	return c.JSON(orderView(o, t.Number))
}

// DELETE /api/v1/tables/:id
func (h *TableHandler) Delete(c *fiber.Ctx) error {
	id, ok := tableID(c)
	if !ok {
		return invalid(c, "id", "invalid table id")
	}
	if err := h.Tables.Delete(c.UserContext(), id); err != nil {
		return fail(c, "table.delete", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
