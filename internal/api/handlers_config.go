package api

import "github.com/gofiber/fiber/v2"

// ServerConfigSnapshot tells the settings UI whether a server credential
// exists and what it implies. The credential itself is never revealed.
func (handler *Handler) ServerConfigSnapshot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"hasServerKey":       handler.server.APIKey != "",
		"serverProvider":     nilIfEmpty(handler.server.Provider),
		"serverModel":        nilIfEmpty(handler.server.Model),
		"hasServerCustomUrl": handler.server.CustomURL != "",
	})
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
