package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapplate/snapplate/internal/models"
	"github.com/snapplate/snapplate/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	profile, ok, err := handler.profiles.Get()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read profile")
	}
	if !ok {
		return c.JSON(fiber.Map{"profile": nil})
	}
	return c.JSON(fiber.Map{
		"profile": profile,
		"tdee":    services.TotalDailyEnergy(profile),
	})
}

func (handler *Handler) SaveProfile(c *fiber.Ctx) error {
	profile := models.UserProfile{}
	if err := c.BodyParser(&profile); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidSex(profile.Sex) {
		return apiError(c, fiber.StatusBadRequest, "sex must be male or female")
	}
	if !models.ValidActivityLevel(profile.ActivityLevel) {
		return apiError(c, fiber.StatusBadRequest, "unknown activity level")
	}
	if profile.Age <= 0 || profile.Weight <= 0 || profile.Height <= 0 {
		return apiError(c, fiber.StatusBadRequest, "age, weight and height must be positive")
	}

	if err := handler.profiles.Save(profile); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save profile")
	}
	return c.JSON(fiber.Map{
		"profile": profile,
		"tdee":    services.TotalDailyEnergy(profile),
	})
}
