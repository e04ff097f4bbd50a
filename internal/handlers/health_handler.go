package handlers

import (
	"log"

	"chatstream-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

// Health reports store reachability.
func Health(c *fiber.Ctx) error {
	if err := config.PingDB(c.Context()); err != nil {
		log.Printf("health check failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"database": "connected",
	})
}
