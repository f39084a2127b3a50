package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapplate/snapplate/internal/ai"
)

// ListModels returns the provider's vision-capable model catalog for the
// settings UI.
func (handler *Handler) ListModels(c *fiber.Ctx) error {
	resolved, err := ai.Resolve(ai.ResolveRequest{
		Provider:        c.Query("provider"),
		Model:           c.Query("model"),
		APIKey:          c.Query("apiKey"),
		CustomURL:       c.Query("customApiUrl"),
		UseServerConfig: c.QueryBool("useServerConfig"),
	}, handler.server)
	if err != nil {
		return resolveError(c, err)
	}

	listing, err := handler.client.ListModels(c.UserContext(), resolved)
	if err != nil {
		return upstreamFailure(c, err)
	}
	return c.JSON(fiber.Map{"models": listing})
}
