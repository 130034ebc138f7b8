package handlers

import (
	"github.com/gofiber/fiber/v2"

	"partnerhub/database"
	"partnerhub/utils/response"
)

// HandleCheckHealth reports process liveness and database reachability
func HandleCheckHealth(store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.ServiceUnavailable(c, "Database unreachable")
		}
		return response.Success(c, fiber.Map{"status": "ok"})
	}
}
