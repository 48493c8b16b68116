package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"omnia-service/internal/domain/strategy"
)

// StripCodeFence removes a surrounding ```json ... ``` block if present.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// ParseStrategy decodes a remote strategy. Anything short of a complete,
// valid document is an error.
func ParseStrategy(text string) (strategy.GeneratedStrategy, error) {
	var s strategy.GeneratedStrategy
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &s); err != nil {
		return strategy.GeneratedStrategy{}, fmt.Errorf("failed to parse strategy: %w", err)
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return strategy.GeneratedStrategy{}, fmt.Errorf("invalid strategy: %w", err)
	}
	return s, nil
}

func ParseMarketingPlan(text string) (strategy.MarketingPlan, error) {
	var plan strategy.MarketingPlan
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &plan); err != nil {
		return strategy.MarketingPlan{}, fmt.Errorf("failed to parse marketing plan: %w", err)
	}
	if len(plan.Organic.Posts) == 0 && len(plan.Paid.Campaigns) == 0 {
		return strategy.MarketingPlan{}, fmt.Errorf("invalid marketing plan: no posts or campaigns")
	}
	return plan, nil
}
