package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrFallbackFailed signals that the text-only retry itself produced no
// usable answer, so the caller got nothing at all rather than a degraded
// result.
var ErrFallbackFailed = errors.New("fallback request failed")

func (c *Client) fallbackAnalyze(ctx context.Context, cfg ResolvedConfig) (Analysis, error) {
	content, err := c.chat(ctx, cfg, BuildFallbackRequest(cfg.Model))
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrFallbackFailed, err)
	}
	return ParseFoods(content), nil
}
