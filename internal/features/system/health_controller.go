package system

import (
	"context"
	"time"

	"campus-incidents/internal/database"
	"campus-incidents/internal/features/live"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Pinger reports database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type mongoPinger struct {
	db *database.MongodbDB
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.db.Client.Ping(ctx, readpref.Primary())
}

type HealthController struct {
	pinger Pinger
	board  interface {
		Reports() live.ReportsState
		Feedback() live.FeedbackState
	}
}

func NewHealthController(db *database.MongodbDB, board *live.Board) *HealthController {
	return &HealthController{pinger: mongoPinger{db: db}, board: board}
}

// Health godoc
// @Summary      Service health
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	reports := h.board.Reports()
	fb := h.board.Feedback()
	subscriptions := fiber.Map{}
	for coll, err := range reports.Errors {
		subscriptions[coll] = err.Code
	}
	if fb.Error != nil {
		subscriptions[fb.Error.Collection] = fb.Error.Code
	}

	body := fiber.Map{
		"status":        "ok",
		"database":      "ok",
		"loading":       reports.Loading || fb.Loading,
		"subscriptions": subscriptions,
	}
	if err := h.pinger.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["database"] = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(body)
	}
	if len(subscriptions) > 0 {
		body["status"] = "degraded"
	}
	return c.JSON(body)
}
