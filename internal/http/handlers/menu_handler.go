package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"tablepos/internal/domain"
	"tablepos/internal/repos"
	"tablepos/internal/services"
	"tablepos/internal/validate"
)

type MenuHandler struct {
	Menu *services.MenuService
}

type menuItemRequest struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Description     string           `json:"description"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice"`
	DiscountPercent int              `json:"discountPercent"`
	AvailableCount  int              `json:"availableCount"`
	Active          *bool            `json:"active"`
}

func (r menuItemRequest) item() domain.MenuItem {
	it := domain.MenuItem{
		ID:              r.ID,
		Name:            r.Name,
		Category:        r.Category,
		Description:     r.Description,
		UnitPrice:       r.UnitPrice,
		DiscountPercent: r.DiscountPercent,
		AvailableCount:  r.AvailableCount,
		Active:          r.Active == nil || *r.Active,
	}
	if r.OriginalPrice != nil {
		it.OriginalPrice = decimal.NewNullDecimal(*r.OriginalPrice)
	}
	return it
}

// parseItem decodes the request body into it. A non-empty field names the
// offending input.
func parseItem(c *fiber.Ctx, it *domain.MenuItem) (field, msg string) {
	var req menuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return "body", "malformed menu item"
	}
	if !validate.Price(req.UnitPrice) || (req.OriginalPrice != nil && !validate.Price(*req.OriginalPrice)) {
		return "unitPrice", "prices must be between 0 and 10000 with at most two decimals"
	}
	if req.ID != "" {
		if _, ok := validate.ID(req.ID); !ok {
			return "id", "invalid item id"
		}
	}
	*it = req.item()
	return "", ""
}

// GET /api/v1/menu?category=&q=&active=
func (h *MenuHandler) List(c *fiber.Ctx) error {
	f := repos.MenuFilter{Category: c.Query("category"), ActiveOnly: c.QueryBool("active", false)}
	if raw := c.Query("q"); raw != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return invalid(c, "q", "invalid search query")
		}
		f.Q = q
	}
	items, err := h.Menu.List(c.UserContext(), f)
	if err != nil {
		return fail(c, "menu.list", err)
	}
	out := make([]menuItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, menuItemView(it))
	}
	return c.JSON(out)
}

// GET /api/v1/menu/categories
func (h *MenuHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Menu.Categories(c.UserContext())
	if err != nil {
		return fail(c, "menu.categories", err)
	}
	return c.JSON(cats)
}

// GET /api/v1/menu/:id
func (h *MenuHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id", "invalid item id")
	}
	it, err := h.Menu.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "menu.get", err)
	}
	return c.JSON(menuItemView(it))
}

// POST /api/v1/menu
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var it domain.MenuItem
	if field, msg := parseItem(c, &it); field != "" {
		return invalid(c, field, msg)
	}
	created, err := h.Menu.Create(c.UserContext(), it)
	if err != nil {
		return fail(c, "menu.create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(menuItemView(created))
}

// PUT /api/v1/menu/:id
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id", "invalid item id")
	}
	var it domain.MenuItem
	if field, msg := parseItem(c, &it); field != "" {
		return invalid(c, field, msg)
	}
	updated, err := h.Menu.Update(c.UserContext(), id, it)
	if err != nil {
		return fail(c, "menu.update", err)
	}
	return c.JSON(menuItemView(updated))
}

// PATCH /api/v1/menu/:id/availability
func (h *MenuHandler) SetAvailability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id", "invalid item id")
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return invalid(c, "active", "active must be true or false")
	}
	it, err := h.Menu.SetAvailability(c.UserContext(), id, *req.Active)
	if err != nil {
		return fail(c, "menu.availability", err)
	}
	return c.JSON(menuItemView(it))
}

// DELETE /api/v1/menu/:id
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return invalid(c, "id", "invalid item id")
	}
	if err := h.Menu.Delete(c.UserContext(), id); err != nil {
		return fail(c, "menu.delete", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
