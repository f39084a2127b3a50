package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/snapplate/snapplate/internal/ai"
)

type analyzeRequest struct {
	ImageBase64     string `json:"imageBase64"`
	APIKey          string `json:"apiKey"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	CustomAPIURL    string `json:"customApiUrl"`
	UseServerConfig bool   `json:"useServerConfig"`
}

// Analyze runs one photo through the resolved provider and returns the
// normalized food list. Degraded parses still come back as 200 with an
// embedded advisory error; only input and upstream failures are errors.
func (handler *Handler) Analyze(c *fiber.Ctx) error {
	payload := analyzeRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.ImageBase64 == "" {
		return apiError(c, fiber.StatusBadRequest, "No image provided.")
	}

	resolved, err := ai.Resolve(ai.ResolveRequest{
		Provider:        payload.Provider,
		Model:           payload.Model,
		APIKey:          payload.APIKey,
		CustomURL:       payload.CustomAPIURL,
		UseServerConfig: payload.UseServerConfig,
	}, handler.server)
	if err != nil {
		return resolveError(c, err)
	}

	analysis, err := handler.client.Analyze(c.UserContext(), resolved, payload.ImageBase64)
	if err != nil {
		return upstreamFailure(c, err)
	}
	return c.JSON(analysis)
}

func resolveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ai.ErrMissingAPIKey):
		return apiError(c, fiber.StatusBadRequest, "API key is required. Configure it in Settings or server .env.")
	case errors.Is(err, ai.ErrMissingCustomURL):
		return apiError(c, fiber.StatusBadRequest, "Custom API URL is required when using Custom provider. Configure it in Settings or server .env.")
	default:
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
}

func upstreamFailure(c *fiber.Ctx, err error) error {
	var upstream *ai.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return apiError(c, upstream.Status, upstream.Message)
	case errors.Is(err, ai.ErrEmptyReply):
		return apiError(c, fiber.StatusInternalServerError, "No response from AI model.")
	case errors.Is(err, ai.ErrFallbackFailed):
		return apiError(c, fiber.StatusBadGateway, err.Error())
	default:
		return apiError(c, fiber.StatusBadGateway, err.Error())
	}
}
