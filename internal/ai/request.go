package ai

import "strings"

const systemPrompt = `You are a nutrition analysis AI. When given a photo of food, identify each distinct food item visible on the plate/image. For each item, estimate:
- name (string)
- calories (number, kcal)
- protein (number, grams)
- carbs (number, grams)
- fat (number, grams)
- amount (string, e.g. "1 cup", "150g", "1 medium piece")

Be as accurate as possible with typical serving sizes visible in the image.

IMPORTANT: Respond ONLY with valid JSON in this exact format, no markdown, no extra text:
{
  "foods": [
    {
      "name": "Grilled Chicken Breast",
      "calories": 165,
      "protein": 31,
      "carbs": 0,
      "fat": 3.6,
      "amount": "150g"
    }
  ]
}`

const userInstruction = "Analyze this food image. Identify every food item and estimate its nutritional values. Return JSON only."

const fallbackInstruction = "I could not send you the photo. Assume a typical mixed meal of one protein, one carbohydrate side and one vegetable, and estimate its nutritional values. Return JSON only."

const dataURLPrefix = "data:image/jpeg;base64,"

const analyzeMaxTokens = 1000

type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// ChatRequest is the chat-completions payload. MaxTokens and
// MaxCompletionTokens are pointers because quirky model families accept one
// field name but reject the other.
type ChatRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxTokens           *int      `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int      `json:"max_completion_tokens,omitempty"`
	Temperature         float64   `json:"temperature"`
	Stream              *bool     `json:"stream,omitempty"`
}

// payloadVariant adapts the request shape for a model family that rejects
// the standard payload. Variants are matched in order; the first hit wins.
type payloadVariant struct {
	name  string
	match func(model string) bool
	apply func(req *ChatRequest)
}

var payloadVariants = []payloadVariant{
	{
		name: "gemma",
		match: func(model string) bool {
			return strings.Contains(strings.ToLower(model), "gemma")
		},
		apply: func(req *ChatRequest) {
			if req.MaxTokens != nil {
				req.MaxCompletionTokens = req.MaxTokens
				req.MaxTokens = nil
			}
			stream := false
			req.Stream = &stream
			canonicalizeImageURLs(req)
		},
	},
}

func variantFor(model string) (payloadVariant, bool) {
	for _, variant := range payloadVariants {
		if variant.match(model) {
			return variant, true
		}
	}
	return payloadVariant{}, false
}

// RequiresVariantPayload reports whether the model belongs to a family with
// a divergent payload shape. Those families are also the only ones eligible
// for the text-only fallback retry.
func RequiresVariantPayload(model string) bool {
	_, ok := variantFor(model)
	return ok
}

// BuildAnalyzeRequest constructs the vision chat payload for one food
// photo. The image is passed as a data URL; raw base64 gets the default
// JPEG prefix.
func BuildAnalyzeRequest(model string, imageBase64 string) ChatRequest {
	maxTokens := analyzeMaxTokens
	req := ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: userInstruction},
					{Type: "image_url", ImageURL: &ImageURL{URL: toDataURL(imageBase64), Detail: "high"}},
				},
			},
		},
		MaxTokens:   &maxTokens,
		Temperature: 0.2,
	}

	if variant, ok := variantFor(model); ok {
		variant.apply(&req)
	}
	return req
}

// BuildFallbackRequest constructs the degraded text-only payload used when
// a quirky model family rejects the vision request.
func BuildFallbackRequest(model string) ChatRequest {
	maxTokens := analyzeMaxTokens
	req := ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fallbackInstruction},
		},
		MaxTokens:   &maxTokens,
		Temperature: 0.2,
	}

	if variant, ok := variantFor(model); ok {
		variant.apply(&req)
	}
	return req
}

func toDataURL(imageBase64 string) string {
	if strings.HasPrefix(imageBase64, "data:") {
		return imageBase64
	}
	return dataURLPrefix + imageBase64
}

// canonicalizeImageURLs strips whatever data-URL prefix the caller sent and
// re-adds the canonical JPEG one. Some routed model families reject
// uncommon media types outright.
func canonicalizeImageURLs(req *ChatRequest) {
	for i := range req.Messages {
		parts, ok := req.Messages[i].Content.([]ContentPart)
		if !ok {
			continue
		}
		for j := range parts {
			if parts[j].ImageURL == nil {
				continue
			}
			url := parts[j].ImageURL.URL
			if strings.HasPrefix(url, "data:") {
				if comma := strings.Index(url, ","); comma != -1 {
					url = url[comma+1:]
				}
			}
			parts[j].ImageURL.URL = dataURLPrefix + url
		}
		req.Messages[i].Content = parts
	}
}
