package report

import (
	"campus-incidents/internal/config"
	"campus-incidents/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.AuthMiddleware(api.Config.SkipAuth), middleware.RequireStaff())

	group.Get("/", api.ReportController.List)
	group.Get("/export", api.ReportController.Export)
	group.Get("/:id", api.ReportController.Get)
	group.Patch("/:id/status", api.ReportController.UpdateStatus)
}
