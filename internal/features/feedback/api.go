package feedback

import (
	"campus-incidents/internal/config"
	"campus-incidents/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FeedbackApi struct {
	Controller *FeedbackController
	Config     *config.Config
}

func NewFeedbackApi(controller *FeedbackController, cfg *config.Config) *FeedbackApi {
	return &FeedbackApi{
		Controller: controller,
		Config:     cfg,
	}
}

func (api *FeedbackApi) Setup(app *fiber.App) {
	group := app.Group("/api/feedback", middleware.AuthMiddleware(api.Config.SkipAuth), middleware.RequireStaff())

	group.Get("/", api.Controller.List)
	group.Get("/:id", api.Controller.Get)
}
