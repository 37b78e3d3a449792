package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "tablepos/internal/log"
	"tablepos/internal/pos"
)

const genericMessage = "Something went wrong. Please try again."

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	return c.Render(tmpl, data)
}

// ensureSID returns the ordering session id, issuing a cookie on first use.
// The cart belongs to this session.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// statusFor maps engine errors onto HTTP statuses. ok is false for anything
// that is not a known engine error.
func statusFor(err error) (code int, ok bool) {
	switch {
	case errors.Is(err, pos.ErrItemNotFound),
		errors.Is(err, pos.ErrOrderNotFound),
		errors.Is(err, pos.ErrTableNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, pos.ErrInvalidInput),
		errors.Is(err, pos.ErrEmptyCart),
		errors.Is(err, pos.ErrCapacityExceeded):
		return fiber.StatusBadRequest, true
	case errors.Is(err, pos.ErrItemUnavailable),
		errors.Is(err, pos.ErrDuplicateTableNumber),
		errors.Is(err, pos.ErrAlreadyOccupied),
		errors.Is(err, pos.ErrNotOccupied),
		errors.Is(err, pos.ErrTableOccupied),
		errors.Is(err, pos.ErrInvalidTransition),
		errors.Is(err, pos.ErrAlreadyPaid),
		errors.Is(err, pos.ErrConflict):
		return fiber.StatusConflict, true
	}
	return fiber.StatusInternalServerError, false
}

// fail answers a failed service call. Engine errors carry our own wording and
// are shown as is; anything else is logged and replaced by a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	code, ok := statusFor(err)
	if !ok {
		applog.Error(c, action+".fail", err, nil)
		return c.Status(code).JSON(fiber.Map{"error": genericMessage})
	}
	applog.Warn(c, action+".rejected", map[string]any{"error": err.Error(), "status": code})
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func invalid(c *fiber.Ctx, field, msg string) error {
	applog.Warn(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler is the app-wide fiber error handler. Server errors never
// reach the client verbatim.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericMessage
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	} else {
		applog.Warn(c, "request.rejected", map[string]any{"status": code})
	}

	if isAPI(c) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
