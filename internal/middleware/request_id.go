package middleware

import (
	"context"

	common_models "campus-incidents/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one and adds it to the context
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		ctx := context.WithValue(c.UserContext(), common_models.RequestIDKey, id)
		c.SetUserContext(ctx)
		return c.Next()
	}
}
