package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")
	api.Post("/analyze", handler.Analyze)
	api.Get("/models", handler.ListModels)
	api.Get("/config", handler.ServerConfigSnapshot)

	logs := api.Group("/logs")
	logs.Get("", handler.ListLogDates)
	logs.Post("", handler.SaveMeal)
	logs.Get("/:date", handler.GetDayLog)
	logs.Delete("/:date/:id", handler.DeleteMeal)

	storage := api.Group("/storage")
	storage.Get("", handler.StorageUsage)
	storage.Post("/prune", handler.PruneLog)

	api.Get("/profile", handler.GetProfile)
	api.Put("/profile", handler.SaveProfile)
	api.Get("/settings", handler.GetSettings)
	api.Put("/settings", handler.SaveSettings)
}
