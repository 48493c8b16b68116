// internal/domain/dataset/entity.go
package dataset

import (
	"fmt"
	"strings"
	"time"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	"omnia-service/internal/pkg/finance"

	"github.com/lib/pq"
)

type Classification string

const (
	ClassSuccess Classification = "success"
	ClassFailure Classification = "failure"
	ClassNeutral Classification = "neutral"
)

func (c *Classification) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "success", "exito", "éxito":
		*c = ClassSuccess
	case "failure", "fracaso":
		*c = ClassFailure
	case "neutral", "neutro", "":
		*c = ClassNeutral
	default:
		return fmt.Errorf("unknown classification %q", text)
	}
	return nil
}

// Entry is one (profile, strategy, outcome) example. Entries are created
// only by explicit promotion, never automatically.
type Entry struct {
	ID             string           `json:"id" db:"id"`
	Date           time.Time        `json:"date" db:"date"`
	BusinessID     string           `json:"business_id,omitempty" db:"business_id"`
	StrategyID     string           `json:"strategy_id,omitempty" db:"strategy_id"`
	Profile        ProfileSnapshot  `json:"businessProfile" db:"business_profile"`
	Strategy       StrategySnapshot `json:"generatedStrategy" db:"generated_strategy"`
	Outcome        *RealOutcome     `json:"realOutcome,omitempty" db:"real_outcome"`
	Classification Classification   `json:"classification" db:"classification"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

type ProfileSnapshot struct {
	Type           business.Type      `json:"type"`
	Objective      business.Objective `json:"objective,omitempty"`
	AvgTicket      float64            `json:"avgTicket"`
	MonthlyRevenue float64            `json:"monthlyRevenue"`
	Location       string             `json:"location"`
}

type StrategySnapshot struct {
	Summary    string         `json:"summary"`
	KeyActions pq.StringArray `json:"keyActions"`
}

type RealOutcome struct {
	RecordedAt         time.Time `json:"fechaRegistro"`
	TicketBefore       float64   `json:"ticketMedioAntes"`
	TicketAfter        float64   `json:"ticketMedioDespues"`
	TotalCustomers     int       `json:"clientesTotales"`
	ReturningCustomers int       `json:"clientesRecurrentes"`
	NewCustomers       int       `json:"nuevosClientes"`
	TotalSales         float64   `json:"ventasTotales"`
	MarketingCost      float64   `json:"costoMarketing"`
	ROI                float64   `json:"ROI"`
	Satisfaction       *float64  `json:"satisfaccionCliente,omitempty"`
}

// NewEntry condenses a profile and a generated strategy.
func NewEntry(id string, now time.Time, businessID, strategyID string, p business.Profile, s strategy.GeneratedStrategy) *Entry {
	return &Entry{
		ID:         id,
		Date:       now,
		BusinessID: businessID,
		StrategyID: strategyID,
		Profile: ProfileSnapshot{
			Type:           p.Type,
			Objective:      p.PrimaryObjective,
			AvgTicket:      p.AverageTicket,
			MonthlyRevenue: p.MonthlyRevenue,
			Location:       p.City,
		},
		Strategy: StrategySnapshot{
			Summary:    s.SummaryText(),
			KeyActions: s.KeyActions(),
		},
		Classification: ClassNeutral,
		CreatedAt:      now,
	}
}

// Classify labels a measured outcome.
func Classify(o RealOutcome) Classification {
	switch {
	case o.ROI > 0 && o.TicketAfter > o.TicketBefore:
		return ClassSuccess
	case o.ROI < 0:
		return ClassFailure
	default:
		return ClassNeutral
	}
}

// WithComputedROI fills ROI from sales and marketing cost.
func (o RealOutcome) WithComputedROI() RealOutcome {
	o.ROI = finance.Round2(finance.ROI(o.TotalSales, o.MarketingCost))
	return o
}

// ExportFilename is the dated name of the dataset JSON export.
func ExportFilename(now time.Time) string {
	return "omnia_dataset_" + now.Format("2006-01-02") + ".json"
}
