package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tablepos/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET /api/v1/reports/sales?range=today|week|month|all
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	r, err := h.Reports.Sales(c.UserContext(), c.Query("range", services.RangeToday))
	if err != nil {
		return fail(c, "report.sales", err)
	}
	return c.JSON(salesReportView(r))
}

// GET /api/v1/reports/dashboard
func (h *ReportHandler) DashboardJSON(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, "report.dashboard", err)
	}
	return c.JSON(dashboardView(d))
}

// GET /
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Reports.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "dashboard", fiber.Map{"Dashboard": dashboardView(d)})
}
