// internal/domain/business/dto.go
package business

import (
	"encoding/json"

	"omnia-service/internal/domain/strategy"
)

// UpsertBusinessRequest carries a profile in either snapshot shape.
type UpsertBusinessRequest struct {
	Profile json.RawMessage `json:"profile" binding:"required"`
}

type BusinessListFilters struct {
	Type     *Type  `form:"type"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type BusinessListResponse struct {
	Businesses []*Business `json:"businesses"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// BusinessDetail is a business with its most recent strategy, if any.
type BusinessDetail struct {
	*Business
	LatestStrategy *strategy.Record `json:"latest_strategy,omitempty"`
}
