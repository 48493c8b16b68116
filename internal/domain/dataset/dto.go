// internal/domain/dataset/dto.go
package dataset

import "time"

type PromoteRequest struct {
	BusinessID string `json:"business_id" binding:"required"`
	// StrategyID defaults to the business's latest strategy.
	StrategyID string `json:"strategy_id"`
}

type RecordOutcomeRequest struct {
	RecordedAt         *time.Time      `json:"fechaRegistro"`
	TicketBefore       float64         `json:"ticketMedioAntes" binding:"min=0"`
	TicketAfter        float64         `json:"ticketMedioDespues" binding:"min=0"`
	TotalCustomers     int             `json:"clientesTotales" binding:"min=0"`
	ReturningCustomers int             `json:"clientesRecurrentes" binding:"min=0"`
	NewCustomers       int             `json:"nuevosClientes" binding:"min=0"`
	TotalSales         float64         `json:"ventasTotales" binding:"min=0"`
	MarketingCost      float64         `json:"costoMarketing" binding:"min=0"`
	Satisfaction       *float64        `json:"satisfaccionCliente" binding:"omitempty,min=0,max=10"`
	Classification     *Classification `json:"classification"`
}

type ListFilters struct {
	Classification *Classification `form:"classification"`
	BusinessID     string          `form:"business_id"`
	Page           int             `form:"page" binding:"omitempty,min=1"`
	PageSize       int             `form:"page_size" binding:"omitempty,min=1,max=500"`
}

type ListResponse struct {
	Entries    []*Entry `json:"entries"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}
