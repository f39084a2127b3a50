package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapplate/snapplate/internal/models"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.settings.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read settings")
	}
	return c.JSON(settings)
}

func (handler *Handler) SaveSettings(c *fiber.Ctx) error {
	settings := models.DefaultAISettings()
	if err := c.BodyParser(&settings); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidProvider(settings.Provider) {
		return apiError(c, fiber.StatusBadRequest, "unknown provider")
	}
	if settings.KeySource != models.KeySourceLocal && settings.KeySource != models.KeySourceServer {
		return apiError(c, fiber.StatusBadRequest, "keySource must be local or server")
	}
	if settings.Provider == models.ProviderCustom && settings.CustomAPIURL == "" {
		return apiError(c, fiber.StatusBadRequest, "custom provider needs customApiUrl")
	}

	if err := handler.settings.Save(settings); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save settings")
	}
	return c.JSON(settings)
}
