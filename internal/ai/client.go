package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/snapplate/snapplate/internal/models"
)

const (
	refererHeaderValue = "https://snapplate.app"
	titleHeaderValue   = "Snapplate"
)

var ErrEmptyReply = errors.New("no response from AI model")

// UpstreamError is a non-success response from a provider. Structured is
// set when the body carried provider error detail under the conventional
// "error" key, not just an HTTP status.
type UpstreamError struct {
	Status     int
	Message    string
	Structured bool
}

func (e *UpstreamError) Error() string {
	return e.Message
}

type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type modelListResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

// Client talks to an OpenAI-compatible provider chosen by a ResolvedConfig.
type Client struct {
	httpClient *http.Client
	logger     log.Interface
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		logger:     log.Log,
	}
}

// Analyze sends one food photo through the resolved provider and normalizes
// the reply. For quirky model families whose vision request fails with
// structured provider detail, a single text-only fallback is attempted
// before giving up.
func (c *Client) Analyze(ctx context.Context, cfg ResolvedConfig, imageBase64 string) (Analysis, error) {
	content, err := c.chat(ctx, cfg, BuildAnalyzeRequest(cfg.Model, imageBase64))
	if err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) && upstream.Structured && RequiresVariantPayload(cfg.Model) {
			c.logger.WithField("model", cfg.Model).
				WithField("status", upstream.Status).
				Warn("vision request rejected, retrying with text-only fallback")
			return c.fallbackAnalyze(ctx, cfg)
		}
		return Analysis{}, err
	}

	analysis := ParseFoods(content)
	if analysis.Degraded() {
		c.logger.WithField("model", cfg.Model).
			WithField("excerpt", analysis.RawExcerpt).
			Warn("model reply did not parse, returning degraded result")
	}
	return analysis, nil
}

// ListModels fetches the provider's model catalog, filtered to models
// plausibly capable of vision analysis. Custom endpoints are left
// unfiltered because their catalogs are unknowable.
func (c *Client) ListModels(ctx context.Context, cfg ResolvedConfig) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read models response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(resp.StatusCode, body)
	}

	var listing modelListResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	result := make([]ModelInfo, 0, len(listing.Data))
	for _, entry := range listing.Data {
		if !modelVisible(cfg.Provider, entry.ID) {
			continue
		}
		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		result = append(result, ModelInfo{ID: entry.ID, Name: name})
	}
	sortModels(cfg.Provider, result)
	return result, nil
}

func (c *Client) chat(ctx context.Context, cfg ResolvedConfig, payload ChatRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	if cfg.Provider == models.ProviderOpenRouter {
		req.Header.Set("HTTP-Referer", refererHeaderValue)
		req.Header.Set("X-Title", titleHeaderValue)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", upstreamError(resp.StatusCode, body)
	}

	var reply chatResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(reply.Choices) == 0 {
		return "", ErrEmptyReply
	}
	content := strings.TrimSpace(reply.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

func upstreamError(status int, body []byte) *UpstreamError {
	var detail errorResponse
	if err := json.Unmarshal(body, &detail); err == nil && detail.Error.Message != "" {
		return &UpstreamError{Status: status, Message: detail.Error.Message, Structured: true}
	}
	return &UpstreamError{Status: status, Message: fmt.Sprintf("API error: %d", status)}
}

var openRouterVisionHints = []string{"vision", "gpt-4", "gemini", "claude", "llava", "pixtral", "qwen", "gemma"}

var openAIChatHints = []string{"gpt", "o1", "o3", "o4"}

func modelVisible(provider string, id string) bool {
	switch provider {
	case models.ProviderOpenRouter:
		lowered := strings.ToLower(id)
		for _, hint := range openRouterVisionHints {
			if strings.Contains(lowered, hint) {
				return true
			}
		}
		return false
	case models.ProviderOpenAI:
		for _, hint := range openAIChatHints {
			if strings.Contains(id, hint) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func sortModels(provider string, list []ModelInfo) {
	if provider == models.ProviderOpenRouter {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		return
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}
