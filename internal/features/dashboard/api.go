package dashboard

import (
	"campus-incidents/internal/config"
	"campus-incidents/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
	Config              *config.Config
}

func NewDashboardApi(dashboardController *DashboardController, cfg *config.Config) *DashboardApi {
	return &DashboardApi{
		DashboardController: dashboardController,
		Config:              cfg,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboard", middleware.AuthMiddleware(api.Config.SkipAuth), middleware.RequireStaff())

	group.Get("/", api.DashboardController.GetOverview)
	group.Get("/heatmap", api.DashboardController.GetHeatmap)
	group.Get("/kpis/history", api.DashboardController.GetHistory)
}
