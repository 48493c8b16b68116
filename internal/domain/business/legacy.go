// internal/domain/business/legacy.go
package business

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LegacyProfile is the flat snapshot shape written by older clients.
type LegacyProfile struct {
	Name             string             `json:"nombreNegocio"`
	City             string             `json:"ciudad"`
	Type             Type               `json:"businessType"`
	PrimaryObjective Objective          `json:"objetivoPrincipal"`
	MonthlyRevenue   float64            `json:"facturacionMensual"`
	AverageTicket    float64            `json:"ticketPromedio"`
	MonthlyTraffic   int                `json:"traficoMensual"`
	MarketingPercent float64            `json:"presupuestoMarketingPorcentaje"`
	DinersPerTable   int                `json:"comensalesMesa"`
	AverageMargin    float64            `json:"margenPromedio"`
	Schedule         LegacySchedule     `json:"businessSchedule"`
	KeyProducts      []LegacyKeyProduct `json:"keyProducts"`
	PriceRanges      []LegacyPriceRange `json:"priceRanges"`
	StrategyConfig   StrategyConfig     `json:"strategyConfig"`
}

// LegacySchedule keeps hours as one comma separated string.
type LegacySchedule struct {
	QuietDays  []string `json:"diasFlojos"`
	QuietHours string   `json:"horasFlojas"`
	BusyDays   []string `json:"diasLlenos"`
	BusyHours  string   `json:"horasLlenas"`
}

type LegacyKeyProduct struct {
	Name         string  `json:"nombre"`
	Category     string  `json:"categoria"`
	Cost         float64 `json:"costo"`
	Price        float64 `json:"precioVenta"`
	SalesMonthly int     `json:"ventasMensuales"`
	Kind         string  `json:"tipo"`
	Rank         int     `json:"posicionRanking"`
}

type LegacyPriceRange struct {
	Name         string  `json:"nombre"`
	AverageCost  float64 `json:"costoPromedio"`
	AveragePrice float64 `json:"precioVentaPromedio"`
	SalesMonthly int     `json:"ventasMensuales"`
}

// MigrateLegacy converts a flat snapshot into the canonical profile.
// Stored margins are dropped; they are always recomputed.
func MigrateLegacy(l LegacyProfile) Profile {
	p := Profile{
		Name:             l.Name,
		City:             l.City,
		Type:             l.Type,
		PrimaryObjective: l.PrimaryObjective,
		MonthlyRevenue:   l.MonthlyRevenue,
		AverageTicket:    l.AverageTicket,
		MonthlyTickets:   l.MonthlyTraffic,
		MarketingPercent: l.MarketingPercent,
		StrategyConfig:   l.StrategyConfig,
		Capacity: Capacity{
			Schedule: Schedule{
				PeakDays:     l.Schedule.BusyDays,
				PeakHours:    splitWindows(l.Schedule.BusyHours),
				OffPeakDays:  l.Schedule.QuietDays,
				OffPeakHours: splitWindows(l.Schedule.QuietHours),
			},
		},
	}
	if l.PrimaryObjective.Known() {
		p.Objectives = []Objective{l.PrimaryObjective}
	}

	for i, kp := range l.KeyProducts {
		id := int64(kp.Rank)
		if id == 0 {
			id = int64(i + 1)
		}
		p.Products = append(p.Products, Product{
			ID:           id,
			Name:         kp.Name,
			Category:     kp.Category,
			Cost:         kp.Cost,
			Price:        kp.Price,
			SalesMonthly: kp.SalesMonthly,
		})
	}
	next := int64(len(p.Products)) + 1
	for _, pr := range l.PriceRanges {
		p.Products = append(p.Products, Product{
			ID:           next,
			Name:         pr.Name,
			Category:     "Rango de precio",
			Cost:         pr.AverageCost,
			Price:        pr.AveragePrice,
			SalesMonthly: pr.SalesMonthly,
		})
		next++
	}

	return p.Normalize()
}

func splitWindows(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	legacyOnlyKeys    = []string{"businessSchedule", "keyProducts", "traficoMensual", "priceRanges"}
	canonicalOnlyKeys = []string{"capacidad", "products", "constraints"}
)

// IsLegacy reports whether a raw JSON snapshot uses the flat shape.
func IsLegacy(raw map[string]json.RawMessage) bool {
	for _, k := range canonicalOnlyKeys {
		if _, ok := raw[k]; ok {
			return false
		}
	}
	for _, k := range legacyOnlyKeys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

// DecodeProfile accepts either snapshot shape and returns the canonical one.
func DecodeProfile(data []byte) (Profile, bool, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Profile{}, false, fmt.Errorf("failed to decode profile: %w", err)
	}

	if IsLegacy(raw) {
		var l LegacyProfile
		if err := json.Unmarshal(data, &l); err != nil {
			return Profile{}, true, fmt.Errorf("failed to decode legacy profile: %w", err)
		}
		return MigrateLegacy(l), true, nil
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, false, fmt.Errorf("failed to decode profile: %w", err)
	}
	return p.Normalize(), false, nil
}
