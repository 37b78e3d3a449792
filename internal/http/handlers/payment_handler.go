package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"tablepos/internal/pos"
	"tablepos/internal/services"
	"tablepos/internal/validate"
)

type PaymentHandler struct {
	Payments *services.PaymentService
}

// tipRequest carries either a percentage (15 means 15%) or a custom amount.
type tipRequest struct {
	OrderID    string           `json:"orderId"`
	Method     string           `json:"method"`
	TipPercent *decimal.Decimal `json:"tipPercent"`
	CustomTip  *decimal.Decimal `json:"customTip"`
}

func (r tipRequest) tip() (pos.Tip, bool) {
	switch {
	case r.TipPercent != nil && r.CustomTip != nil:
		return pos.Tip{}, false
	case r.TipPercent != nil:
		rate, ok := validate.TipPercent(*r.TipPercent)
		return pos.PercentTip(rate), ok
	case r.CustomTip != nil:
		return pos.CustomTip(*r.CustomTip), validate.Price(*r.CustomTip)
	}
	return pos.Tip{}, true
}

func parseTipRequest(c *fiber.Ctx, req *tipRequest) (orderID string, tip pos.Tip, field string) {
	if err := c.BodyParser(req); err != nil {
		return "", pos.Tip{}, "body"
	}
	orderID, ok := validate.OrderID(req.OrderID)
	if !ok {
		return "", pos.Tip{}, "orderId"
	}
	if tip, ok = req.tip(); !ok {
		return "", pos.Tip{}, "tip"
	}
	return orderID, tip, ""
}

// POST /api/v1/payments/quote
func (h *PaymentHandler) Quote(c *fiber.Ctx) error {
	var req tipRequest
	orderID, tip, field := parseTipRequest(c, &req)
	if field != "" {
		return invalid(c, field, "invalid "+field)
	}
	sum, err := h.Payments.Quote(c.UserContext(), orderID, tip)
	if err != nil {
		return fail(c, "payment.quote", err)
	}
	return c.JSON(summaryView(orderID, sum.Display()))
}

// POST /api/v1/payments
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	var req tipRequest
	orderID, tip, field := parseTipRequest(c, &req)
	if field != "" {
		return invalid(c, field, "invalid "+field)
	}
	method, ok := validate.PaymentMethod(req.Method)
	if !ok {
		return invalid(c, "method", "method must be credit-card, cash, mobile or gift-card")
	}
	p, err := h.Payments.Pay(c.UserContext(), services.PayRequest{OrderID: orderID, Method: method, Tip: tip})
	if err != nil {
		return fail(c, "payment.pay", err)
	}
	return c.Status(fiber.StatusCreated).JSON(paymentView(p))
}

// GET /api/v1/payments/:orderId
func (h *PaymentHandler) ForOrder(c *fiber.Ctx) error {
	orderID, ok := validate.OrderID(c.Params("orderId"))
	if !ok {
		return invalid(c, "orderId", "invalid order id")
	}
	p, found, err := h.Payments.ForOrder(c.UserContext(), orderID)
	if err != nil {
		return fail(c, "payment.get", err)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order " + orderID + " has not been paid"})
	}
	return c.JSON(paymentView(p))
}
