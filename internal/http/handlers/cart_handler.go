package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tablepos/internal/services"
	"tablepos/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cartView(cv))
}

// POST /api/v1/cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req struct {
		ItemID string `json:"itemId" form:"itemId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalid(c, "body", "malformed request")
	}
	itemID, ok := validate.ID(req.ItemID)
	if !ok {
		return invalid(c, "itemId", "missing itemId")
	}
	cv, err := h.Cart.Add(c.UserContext(), sid, itemID)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	return c.JSON(cartView(cv))
}

// PATCH /api/v1/cart/items/:itemId
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.Params("itemId"))
	if !ok {
		return invalid(c, "itemId", "invalid itemId")
	}
	var req struct {
		Delta int `json:"delta" form:"delta"`
	}
	if err := c.BodyParser(&req); err != nil || !validate.Delta(req.Delta) {
		return invalid(c, "delta", "delta must be a non-zero step of at most 50")
	}
	cv, err := h.Cart.UpdateQuantity(c.UserContext(), sid, itemID, req.Delta)
	if err != nil {
		return fail(c, "cart.quantity", err)
	}
	return c.JSON(cartView(cv))
}

// DELETE /api/v1/cart/items/:itemId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID, ok := validate.ID(c.Params("itemId"))
	if !ok {
		return invalid(c, "itemId", "invalid itemId")
	}
	cv, err := h.Cart.Remove(c.UserContext(), sid, itemID)
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(cartView(cv))
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext(), ensureSID(c)); err != nil {
		return fail(c, "cart.clear", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
