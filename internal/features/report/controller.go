package report

import (
	"errors"
	"fmt"

	"campus-incidents/internal/incident"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	ReportService ReportService
	Normalizer    *incident.Normalizer
	logger        *zap.Logger
}

func NewReportController(reportService ReportService, normalizer *incident.Normalizer, logger *zap.Logger) *ReportController {
	return &ReportController{ReportService: reportService, Normalizer: normalizer, logger: logger}
}

func (c *ReportController) parseFilter(ctx *fiber.Ctx) (incident.FilterState, error) {
	return incident.ParseFilter(func(key string) string { return ctx.Query(key) }, c.Normalizer.Location())
}

func (c *ReportController) handleError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrReportNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report not found"})
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidFormat), errors.Is(err, incident.ErrInvalidFilter):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		c.logger.Error("Report request failed", zap.String("path", ctx.Path()), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// List godoc
// @Summary List reports from the live board
// @Tags reports
// @Produce json
// @Param type query string false "traffic, suspicious or all"
// @Param status query string false "Status or all"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param q query string false "Search text"
// @Param sort query string false "Sort key"
// @Param dir query string false "asc or desc"
// @Success 200 {object} ListResult
// @Router /api/reports [get]
func (c *ReportController) List(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(c.ReportService.List(ctx.UserContext(), filter))
}

// Get godoc
// @Summary Get report detail
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} view.Detail
// @Router /api/reports/{id} [get]
func (c *ReportController) Get(ctx *fiber.Ctx) error {
	detail, err := c.ReportService.Detail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(detail)
}

// UpdateStatus godoc
// @Summary Update report status
// @Tags reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param body body StatusUpdateRequest true "New status"
// @Success 200 {object} view.Detail
// @Router /api/reports/{id}/status [patch]
func (c *ReportController) UpdateStatus(ctx *fiber.Ctx) error {
	var req StatusUpdateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	detail, err := c.ReportService.UpdateStatus(ctx.UserContext(), ctx.Params("id"), req.Status)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(detail)
}

// Export godoc
// @Summary Export filtered reports
// @Tags reports
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Router /api/reports/export [get]
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	filter, err := c.parseFilter(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	file, err := c.ReportService.Export(ctx.UserContext(), filter, ctx.Query("format", FormatCSV))
	if err != nil {
		return c.handleError(ctx, err)
	}

	ctx.Set("Content-Type", file.ContentType)
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Filename))
	return ctx.Send(file.Data)
}
