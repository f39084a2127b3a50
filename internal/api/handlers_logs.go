package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/snapplate/snapplate/internal/models"
	"github.com/snapplate/snapplate/internal/services"
)

type saveMealRequest struct {
	Date         string            `json:"date"`
	ImageDataURL string            `json:"imageDataUrl"`
	Foods        []models.FoodItem `json:"foods"`
}

func (handler *Handler) ListLogDates(c *fiber.Ctx) error {
	dates, err := handler.meals.Dates()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read meal log")
	}
	return c.JSON(fiber.Map{"dates": dates})
}

func (handler *Handler) GetDayLog(c *fiber.Ctx) error {
	dateKey, err := parseDateParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	day, err := handler.meals.DayLog(dateKey)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to read meal log")
	}
	return c.JSON(day)
}

// SaveMeal persists one analyzed meal. The entry is assembled server-side
// so the id, timestamp, and totals are fixed exactly once.
func (handler *Handler) SaveMeal(c *fiber.Ctx) error {
	payload := saveMealRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	dateKey, err := parseDateParam(payload.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	entry, err := handler.meals.BuildEntry(payload.Foods, payload.ImageDataURL)
	if err != nil {
		if errors.Is(err, services.ErrNoFoods) {
			return apiError(c, fiber.StatusBadRequest, "at least one food item is required")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to build meal entry")
	}

	savedDate, err := handler.meals.SaveEntry(entry, dateKey)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save meal entry")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"date": savedDate, "entry": entry})
}

func (handler *Handler) DeleteMeal(c *fiber.Ctx) error {
	dateKey, err := parseDateParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	if err := handler.meals.DeleteEntry(c.Params("id"), dateKey); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete meal entry")
	}
	return c.JSON(fiber.Map{"ok": true})
}
