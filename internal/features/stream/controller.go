package stream

import (
	"context"

	"campus-incidents/internal/features/live"
	"campus-incidents/internal/incident"
	"campus-incidents/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WebSocketController struct {
	board      *live.Board
	renderer   Renderer
	normalizer *incident.Normalizer
	logger     *zap.Logger
}

func NewWebSocketController(board *live.Board, renderer Renderer, normalizer *incident.Normalizer, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		board:      board,
		renderer:   renderer,
		normalizer: normalizer,
		logger:     logger,
	}
}

func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	initial, ok := ParseView(c.Query("view", string(ViewDashboard)))
	if !ok {
		initial = ViewDashboard
	}

	session := NewSession(uuid.NewString(), c, h.board.Listen, h.renderer, h.normalizer.Location(), h.logger)

	fields := []zap.Field{zap.String("session_id", session.ID), zap.String("view", string(initial))}
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		fields = append(fields, zap.String("user_id", claims.UserID))
	}
	h.logger.Info("Websocket session opened", fields...)

	if err := session.Run(context.Background(), initial); err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.logger.Debug("Websocket session ended", zap.String("session_id", session.ID), zap.Error(err))
	}
	h.logger.Info("Websocket session closed", zap.String("session_id", session.ID))
}
