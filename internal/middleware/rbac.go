package middleware

import (
	"fmt"

	"campus-incidents/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireStaff admits verified admin and authority accounts only
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !claims.EmailVerified {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Please verify your email before signing in.",
			})
		}

		if !claims.IsStaff() {
			role := claims.Role
			if role == "" {
				role = "none"
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fmt.Sprintf("Access Denied: Your role (%s) is not authorized.", role),
			})
		}

		return c.Next()
	}
}
