package models

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderCustom     = "custom"
)

const (
	KeySourceLocal  = "local"
	KeySourceServer = "server"
)

const DefaultModel = "gpt-4o"

// AISettings is the caller-side provider selection persisted between
// sessions. The local API key never leaves the device except as the bearer
// credential of an analyze or model-list call.
type AISettings struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	KeySource    string `json:"keySource"`
	LocalAPIKey  string `json:"localApiKey"`
	CustomAPIURL string `json:"customApiUrl"`
}

func DefaultAISettings() AISettings {
	return AISettings{
		Provider:  ProviderOpenAI,
		Model:     DefaultModel,
		KeySource: KeySourceLocal,
	}
}

func ValidProvider(provider string) bool {
	switch provider {
	case ProviderOpenAI, ProviderOpenRouter, ProviderCustom:
		return true
	}
	return false
}
