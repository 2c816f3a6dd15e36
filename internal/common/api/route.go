package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature api and collected by fx into the "routes" group
type Route interface {
	Setup(app *fiber.App)
}
