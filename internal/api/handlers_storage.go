package api

import "github.com/gofiber/fiber/v2"

type pruneRequest struct {
	DaysToKeep int `json:"daysToKeep"`
}

func (handler *Handler) StorageUsage(c *fiber.Ctx) error {
	usage, err := handler.meals.StorageUsage()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to measure storage")
	}
	return c.JSON(usage)
}

func (handler *Handler) PruneLog(c *fiber.Ctx) error {
	payload := pruneRequest{}
	if err := c.BodyParser(&payload); err != nil && len(c.Body()) > 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := handler.meals.PruneLog(payload.DaysToKeep); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to prune meal log")
	}
	return c.JSON(fiber.Map{"ok": true})
}
