package ai

import (
	"errors"

	"github.com/snapplate/snapplate/internal/models"
)

var (
	ErrMissingAPIKey    = errors.New("API key is required")
	ErrMissingCustomURL = errors.New("custom API URL is required for the custom provider")
)

const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// ResolveRequest is the caller's provider selection for one analyze or
// model-list call.
type ResolveRequest struct {
	Provider        string
	Model           string
	APIKey          string
	CustomURL       string
	UseServerConfig bool
}

// ServerConfig is the read-only snapshot of the server-side provider
// defaults (the AI_* environment values).
type ServerConfig struct {
	APIKey    string
	Provider  string
	Model     string
	CustomURL string
}

// ResolvedConfig is the concrete endpoint, credential, and model chosen for
// one upstream call.
type ResolvedConfig struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
}

// Resolve picks the credential, provider, and model for a request. It is a
// pure function of its arguments: no I/O, no ambient state.
func Resolve(req ResolveRequest, server ServerConfig) (ResolvedConfig, error) {
	key := req.APIKey
	if req.UseServerConfig {
		key = server.APIKey
	}
	if key == "" {
		return ResolvedConfig{}, ErrMissingAPIKey
	}

	provider := req.Provider
	customURL := req.CustomURL
	if req.UseServerConfig {
		if server.CustomURL != "" {
			provider = models.ProviderCustom
			customURL = server.CustomURL
		} else {
			provider = server.Provider
			customURL = ""
		}
	}
	if provider == "" {
		provider = models.ProviderOpenAI
	}

	model := req.Model
	if model == "" && req.UseServerConfig {
		model = server.Model
	}
	if model == "" {
		model = models.DefaultModel
	}

	if provider == models.ProviderCustom && customURL == "" {
		return ResolvedConfig{}, ErrMissingCustomURL
	}

	return ResolvedConfig{
		Provider: provider,
		BaseURL:  baseURLFor(provider, customURL),
		Model:    model,
		APIKey:   key,
	}, nil
}

func baseURLFor(provider string, customURL string) string {
	switch provider {
	case models.ProviderOpenRouter:
		return openRouterBaseURL
	case models.ProviderCustom:
		return customURL
	default:
		return openAIBaseURL
	}
}
