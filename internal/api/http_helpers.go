package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/snapplate/snapplate/internal/models"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// parseDateParam validates a :date path segment against the log's key
// format. An empty value means "today" and is passed through.
func parseDateParam(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	parsed, err := time.Parse(models.DateKeyFormat, raw)
	if err != nil {
		return "", err
	}
	return parsed.Format(models.DateKeyFormat), nil
}
