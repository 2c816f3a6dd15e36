package feedback

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type FeedbackController struct {
	Service FeedbackService
}

func NewFeedbackController(service FeedbackService) *FeedbackController {
	return &FeedbackController{Service: service}
}

// List godoc
// @Summary List user feedback, newest first
// @Tags feedback
// @Produce json
// @Param type query string false "Feedback type"
// @Param q query string false "Search text"
// @Success 200 {object} ListResult
// @Router /api/feedback [get]
func (ctrl *FeedbackController) List(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.List(c.UserContext(), c.Query("type"), c.Query("q")))
}

// Get godoc
// @Summary Get feedback detail
// @Tags feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} incident.FeedbackView
// @Router /api/feedback/{id} [get]
func (ctrl *FeedbackController) Get(c *fiber.Ctx) error {
	fb, err := ctrl.Service.Detail(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrFeedbackNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Feedback not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fb)
}
