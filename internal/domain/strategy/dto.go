// internal/domain/strategy/dto.go
package strategy

import "encoding/json"

// GenerateRequest optionally carries a profile that replaces the stored
// one for this run.
type GenerateRequest struct {
	Profile json.RawMessage `json:"profile"`
}

type SaveStrategyRequest struct {
	Strategy      GeneratedStrategy `json:"strategy"`
	MarketingPlan *MarketingPlan    `json:"marketing_plan"`
	Source        Source            `json:"source"`
}

type PreviewResponse struct {
	Strategy      GeneratedStrategy `json:"strategy"`
	MarketingPlan MarketingPlan     `json:"marketing_plan"`
}
