package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"tablepos/internal/config"
	applog "tablepos/internal/log"
	"tablepos/internal/pos"
	"tablepos/internal/repos"
	"tablepos/internal/services"
)

type Deps struct {
	MenuHandler    *MenuHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	TableHandler   *TableHandler
	PaymentHandler *PaymentHandler
	ReportHandler  *ReportHandler
}

// NewDeps wires the services over one store. All order ids come from seq.
func NewDeps(store *repos.Store, cfg config.Config, seq pos.Sequence) *Deps {
	taxRate := cfg.TaxRate
	menuSvc := services.NewMenuService(store, nil)
	cartSvc := services.NewCartService(store, taxRate, nil)
	orderSvc := services.NewOrderService(store, seq, taxRate, nil)
	tableSvc := services.NewTableService(store, nil)
	paySvc := services.NewPaymentService(store, nil)
	reportSvc := services.NewReportService(store, nil)

	return &Deps{
		MenuHandler:    &MenuHandler{Menu: menuSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Orders: orderSvc, Tables: tableSvc},
		TableHandler:   &TableHandler{Tables: tableSvc},
		PaymentHandler: &PaymentHandler{Payments: paySvc},
		ReportHandler:  &ReportHandler{Reports: reportSvc},
	}
}

// Mount registers every route, ending with the not-found fallback.
func (d *Deps) Mount(app *fiber.App) {
	app.Get("/", d.ReportHandler.Dashboard)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	api := app.Group("/api/v1")

	menu := api.Group("/menu")
	menu.Get("/", d.MenuHandler.List)
	menu.Get("/categories", d.MenuHandler.Categories)
	menu.Post("/", d.MenuHandler.Create)
	menu.Get("/:id", d.MenuHandler.Get)
	menu.Put("/:id", d.MenuHandler.Update)
	menu.Patch("/:id/availability", d.MenuHandler.SetAvailability)
	menu.Delete("/:id", d.MenuHandler.Delete)

	cart := api.Group("/cart")
	cart.Get("/", d.CartHandler.View)
	cart.Delete("/", d.CartHandler.Clear)
	cart.Post("/items", d.CartHandler.Add)
	cart.Patch("/items/:itemId", d.CartHandler.UpdateQuantity)
	cart.Delete("/items/:itemId", d.CartHandler.Remove)

	orders := api.Group("/orders")
	orders.Get("/", d.OrderHandler.List)
	orders.Post("/", d.OrderHandler.Place)
	orders.Get("/:id", d.OrderHandler.Get)
	orders.Post("/:id/advance", d.OrderHandler.Advance)
	orders.Post("/:id/cancel", d.OrderHandler.Cancel)

	tables := api.Group("/tables")
	tables.Get("/", d.TableHandler.List)
	tables.Post("/", d.TableHandler.Add)
	tables.Get("/next-number", d.TableHandler.NextNumber)
	tables.Get("/:id", d.TableHandler.Get)
	tables.Delete("/:id", d.TableHandler.Delete)
	tables.Post("/:id/seat", d.TableHandler.Seat)
	tables.Post("/:id/clear", d.TableHandler.Clear)
	tables.Get("/:id/order", d.TableHandler.CurrentOrder)
	tables.Put("/:id/order", d.TableHandler.LinkOrder)

	payLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|pay"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.payments.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	payments := api.Group("/payments")
	payments.Post("/quote", d.PaymentHandler.Quote)
	payments.Post("/", payLimiter, d.PaymentHandler.Pay)
	payments.Get("/:orderId", d.PaymentHandler.ForOrder)

	reports := api.Group("/reports")
	reports.Get("/sales", d.ReportHandler.Sales)
	reports.Get("/dashboard", d.ReportHandler.DashboardJSON)

	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})
}
