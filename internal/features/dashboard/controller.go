package dashboard

import (
	"strconv"
	"time"

	"campus-incidents/internal/incident"

	"github.com/gofiber/fiber/v2"
)

// MaxHistoryLimit caps one history page at six weeks of hourly snapshots
const MaxHistoryLimit = 1008

type DashboardController struct {
	Service DashboardService
	loc     *time.Location
}

func NewDashboardController(service DashboardService, normalizer *incident.Normalizer) *DashboardController {
	return &DashboardController{Service: service, loc: normalizer.Location()}
}

// GetOverview godoc
// @Summary Dashboard KPIs, distribution and recent reports
// @Tags dashboard
// @Produce json
// @Param limit query int false "Number of recent rows (0 = all)"
// @Success 200 {object} Overview
// @Router /api/dashboard [get]
func (ctrl *DashboardController) GetOverview(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	return c.JSON(ctrl.Service.Overview(c.UserContext(), limit))
}

// GetHeatmap godoc
// @Summary Heatmap points and markers
// @Tags dashboard
// @Produce json
// @Param type query string false "traffic, suspicious or all"
// @Success 200 {object} view.Heatmap
// @Router /api/dashboard/heatmap [get]
func (ctrl *DashboardController) GetHeatmap(c *fiber.Ctx) error {
	filter, err := incident.ParseFilter(func(key string) string { return c.Query(key) }, ctrl.loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ctrl.Service.Heatmap(c.UserContext(), filter))
}

// GetHistory godoc
// @Summary Persisted KPI snapshots
// @Tags dashboard
// @Produce json
// @Param since query string false "RFC3339 lower bound"
// @Param limit query int false "Max snapshots (1-1008, default 168)"
// @Success 200 {array} KPISnapshot
// @Router /api/dashboard/kpis/history [get]
func (ctrl *DashboardController) GetHistory(c *fiber.Ctx) error {
	var since time.Time
	if v := c.Query("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "since must be RFC3339"})
		}
		since = t
	}
	limit, err := strconv.ParseInt(c.Query("limit", "168"), 10, 64)
	if err != nil || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	snapshots, err := ctrl.Service.History(c.UserContext(), since, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snapshots)
}
