package ai

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/snapplate/snapplate/internal/models"
)

const (
	parseFailedFoodName = "Food item (parsing failed)"
	parseFailedMessage  = "Failed to parse AI response"
	rawExcerptLimit     = 200
)

// Analysis is the normalized outcome of one model reply. Err and RawExcerpt
// are advisory: a degraded parse still yields a valid single-item Foods
// list, never a failure.
type Analysis struct {
	Foods      []models.FoodItem `json:"foods"`
	Err        string            `json:"error,omitempty"`
	RawExcerpt string            `json:"rawExcerpt,omitempty"`
}

func (a Analysis) Degraded() bool {
	return a.Err != ""
}

var (
	codeFencePattern     = regexp.MustCompile("^```[a-zA-Z]*\\s*\n?")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
)

// ParseFoods turns a raw model reply into a food list. Models wrap answers
// in markdown fences, leave trailing commas, or skip key quoting, so the
// strict parse is followed by a repair pass and then an object-extraction
// pass before giving up. All failure paths return a structured result.
func ParseFoods(raw string) Analysis {
	text := strings.TrimSpace(stripCodeFence(raw))

	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		repaired := repairJSON(text)
		if err := json.Unmarshal([]byte(repaired), &value); err != nil {
			span, ok := firstObjectSpan(text)
			if !ok {
				return degradedAnalysis(raw)
			}
			if err := json.Unmarshal([]byte(repairJSON(span)), &value); err != nil {
				return degradedAnalysis(raw)
			}
		}
	}

	items, ok := extractFoodList(value)
	if !ok {
		return degradedAnalysis(raw)
	}

	foods := make([]models.FoodItem, 0, len(items))
	for _, item := range items {
		foods = append(foods, coerceFoodItem(item))
	}
	return Analysis{Foods: foods}
}

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = codeFencePattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return text
}

// repairJSON fixes the two malformations models produce most often:
// trailing commas before a closing bracket and unquoted identifier keys.
// It is best-effort and can mangle string values that happen to contain
// those patterns; the degraded-result contract bounds the damage.
func repairJSON(text string) string {
	repaired := trailingCommaPattern.ReplaceAllString(text, "$1")
	repaired = bareKeyPattern.ReplaceAllString(repaired, `$1"$2"$3`)
	return repaired
}

// firstObjectSpan returns the first balanced top-level {...} span, tracking
// string literals so braces inside values don't break the match.
func firstObjectSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func extractFoodList(value any) ([]map[string]any, bool) {
	object, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}

	rawList, ok := object["foods"].([]any)
	if !ok {
		if single, ok := object["food"].(map[string]any); ok {
			return []map[string]any{single}, true
		}
		return nil, false
	}

	items := make([]map[string]any, 0, len(rawList))
	for _, raw := range rawList {
		if item, ok := raw.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items, true
}

func coerceFoodItem(item map[string]any) models.FoodItem {
	return models.FoodItem{
		Name:     coerceText(item["name"], "Unknown food"),
		Calories: coerceNumber(item["calories"]),
		Protein:  coerceNumber(item["protein"]),
		Carbs:    coerceNumber(item["carbs"]),
		Fat:      coerceNumber(item["fat"]),
		Amount:   coerceText(item["amount"], "serving"),
	}
}

func coerceText(value any, fallback string) string {
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}

// coerceNumber maps anything that is not a finite non-negative number to
// exactly 0. NaN must never reach the stored log.
func coerceNumber(value any) float64 {
	var number float64
	switch typed := value.(type) {
	case float64:
		number = typed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		number = parsed
	default:
		return 0
	}
	if math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
		return 0
	}
	return number
}

func degradedAnalysis(raw string) Analysis {
	return Analysis{
		Foods: []models.FoodItem{{
			Name:   parseFailedFoodName,
			Amount: "unknown",
		}},
		Err:        parseFailedMessage,
		RawExcerpt: truncate(strings.TrimSpace(raw), rawExcerptLimit),
	}
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
