// internal/domain/business/entity.go
package business

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"omnia-service/internal/pkg/finance"

	"github.com/lib/pq"
)

// Business is the persisted row; the full profile lives in a JSONB column.
type Business struct {
	ID                  string         `json:"id" db:"id"`
	Name                string         `json:"name" db:"name"`
	City                string         `json:"city" db:"city"`
	Type                Type           `json:"type" db:"type"`
	ForbiddenDays       pq.StringArray `json:"forbidden_days,omitempty" db:"forbidden_days"`
	BlacklistedProducts pq.Int64Array  `json:"blacklisted_products,omitempty" db:"blacklisted_products"`
	Profile             Profile        `json:"profile" db:"profile"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

// Profile is the canonical business snapshot every generator reads.
type Profile struct {
	Name string `json:"nombreNegocio" msgpack:"name"`
	City string `json:"ciudad" msgpack:"city"`
	Type Type   `json:"businessType" msgpack:"type"`

	// Objectives
	Objectives       []Objective `json:"objetivos" msgpack:"objectives"`
	PrimaryObjective Objective   `json:"objetivoPrincipal" msgpack:"primary"`
	ObjectiveComment string      `json:"objetivosComentario,omitempty" msgpack:"comment"`

	// Financials
	MonthlyRevenue   float64 `json:"facturacionMensual" msgpack:"revenue"`
	AverageTicket    float64 `json:"ticketPromedio" msgpack:"avg_ticket"`
	MonthlyTickets   int     `json:"ticketsMensuales" msgpack:"tickets"`
	MarketingPercent float64 `json:"presupuestoMarketingPorcentaje" msgpack:"marketing_pct"`

	// Imported raw data
	DailyTickets   []Ticket         `json:"ticketsDiarios,omitempty" msgpack:"daily_tickets"`
	PromotionUsage []PromotionUsage `json:"promotionsData,omitempty" msgpack:"promotions"`

	Capacity       Capacity       `json:"capacidad" msgpack:"capacity"`
	Products       []Product      `json:"products" msgpack:"products"`
	Marketing      Marketing      `json:"marketing" msgpack:"marketing"`
	StrategyConfig StrategyConfig `json:"strategyConfig" msgpack:"config"`
	Constraints    Constraints    `json:"constraints" msgpack:"constraints"`
}

type Ticket struct {
	ID            string  `json:"id" msgpack:"id"`
	Date          string  `json:"fecha" msgpack:"date"`
	Time          string  `json:"hora,omitempty" msgpack:"time"`
	Total         float64 `json:"total" msgpack:"total"`
	PaymentMethod string  `json:"metodoPago,omitempty" msgpack:"payment"`
	Items         int     `json:"items" msgpack:"items"`
}

type PromotionUsage struct {
	ID            string  `json:"idPromo" msgpack:"id"`
	Name          string  `json:"nombre" msgpack:"name"`
	Redemptions   int     `json:"canjes" msgpack:"redemptions"`
	TotalDiscount float64 `json:"descuentoTotal" msgpack:"discount"`
	Date          string  `json:"fecha,omitempty" msgpack:"date"`
}

// Schedule lists busy, quiet and closed windows as free text
// ("Viernes", "15:00-19:00").
type Schedule struct {
	PeakDays     []string `json:"diasPico" msgpack:"peak_days"`
	PeakHours    []string `json:"horasPico" msgpack:"peak_hours"`
	OffPeakDays  []string `json:"diasValle" msgpack:"off_days"`
	OffPeakHours []string `json:"horasValle" msgpack:"off_hours"`
	ClosedDays   []string `json:"diasCerrado" msgpack:"closed_days"`
}

type Capacity struct {
	// Restaurant
	Tables         int  `json:"numMesas,omitempty" msgpack:"tables"`
	KitchenStaff   int  `json:"personalCocina,omitempty" msgpack:"kitchen_staff"`
	FloorStaff     int  `json:"personalSala,omitempty" msgpack:"floor_staff"`
	LimitedOven    bool `json:"hornoLimitado,omitempty" msgpack:"limited_oven"`
	LimitedFryers  bool `json:"freidorasLimitadas,omitempty" msgpack:"limited_fryers"`
	AvgDishMinutes int  `json:"tiempoMedioPlato,omitempty" msgpack:"dish_minutes"`

	// Appointments
	Professionals      int     `json:"numProfesionales,omitempty" msgpack:"professionals"`
	ConcurrentServices int     `json:"serviciosSimultaneos,omitempty" msgpack:"concurrent"`
	CriticalMachines   int     `json:"maquinasCriticas,omitempty" msgpack:"machines"`
	OccupancyPercent   float64 `json:"porcentajeOcupacion,omitempty" msgpack:"occupancy"`

	Schedule Schedule `json:"horarios" msgpack:"schedule"`
}

// Product never stores its margin; Margin derives it from cost and price.
type Product struct {
	ID           int64   `json:"id" msgpack:"id"`
	ExternalID   string  `json:"externalId,omitempty" msgpack:"external_id"`
	Name         string  `json:"name" msgpack:"name"`
	Category     string  `json:"category" msgpack:"category"`
	Cost         float64 `json:"cost" msgpack:"cost"`
	Price        float64 `json:"price" msgpack:"price"`
	SalesMonthly int     `json:"salesMonthly" msgpack:"sales"`
}

func (p Product) Margin() float64 {
	return finance.Margin(p.Cost, p.Price)
}

// MarshalJSON adds the derived margin to the output. Incoming margin
// values are ignored on decode.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Margin float64 `json:"margin"`
	}{plain(p), finance.Round2(p.Margin())})
}

type Marketing struct {
	Instagram   bool    `json:"instagram" msgpack:"instagram"`
	Facebook    bool    `json:"facebook" msgpack:"facebook"`
	TikTok      bool    `json:"tiktok" msgpack:"tiktok"`
	Google      bool    `json:"google" msgpack:"google"`
	Email       bool    `json:"email" msgpack:"email"`
	WhatsApp    bool    `json:"whatsapp" msgpack:"whatsapp"`
	AdsActive   bool    `json:"adsActivas" msgpack:"ads_active"`
	DailyBudget float64 `json:"presupuestoDiario" msgpack:"daily_budget"`
}

// Channels lists the enabled social/contact channels.
func (m Marketing) Channels() []string {
	var out []string
	for _, ch := range []struct {
		on   bool
		name string
	}{
		{m.Instagram, "instagram"},
		{m.Facebook, "facebook"},
		{m.TikTok, "tiktok"},
		{m.Google, "google"},
		{m.Email, "email"},
		{m.WhatsApp, "whatsapp"},
	} {
		if ch.on {
			out = append(out, ch.name)
		}
	}
	return out
}

// StrategyConfig shapes what the generators produce.
type StrategyConfig struct {
	ActiveGames        []string `json:"juegosActivos" msgpack:"active_games"`
	NumGames           int      `json:"numJuegos" msgpack:"num_games"`
	NumCoupons         int      `json:"numCupones" msgpack:"num_coupons"`
	NumVouchers        int      `json:"numVales" msgpack:"num_vouchers"`
	StampCard          bool     `json:"tarjetaSellos" msgpack:"stamp_card"`
	PointsCard         bool     `json:"tarjetaPuntos" msgpack:"points_card"`
	CouponValidityDays int      `json:"validezCuponesDias" msgpack:"coupon_days"`
	WelcomeMinSpend    float64  `json:"gastoMinBienvenida" msgpack:"welcome_min"`
	ReceiptQRMinSpend  float64  `json:"gastoMinTicketQR" msgpack:"receipt_min"`

	// Provided is set when the config came from the caller, so an explicit
	// all-off config is not mistaken for a missing one.
	Provided bool `json:"-" msgpack:"provided"`
}

func (c *StrategyConfig) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	type plain StrategyConfig
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = StrategyConfig(v)
	c.Provided = true
	return nil
}

func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		ActiveGames:        []string{"ruleta"},
		NumGames:           2,
		NumCoupons:         5,
		NumVouchers:        3,
		StampCard:          true,
		PointsCard:         true,
		CouponValidityDays: 30,
		WelcomeMinSpend:    5,
		ReceiptQRMinSpend:  15,
	}
}

func (c StrategyConfig) isZero() bool {
	return len(c.ActiveGames) == 0 && c.NumGames == 0 && c.NumCoupons == 0 &&
		c.NumVouchers == 0 && !c.StampCard && !c.PointsCard &&
		c.CouponValidityDays == 0 && c.WelcomeMinSpend == 0 && c.ReceiptQRMinSpend == 0
}

// Normalize keeps NumGames within 1..2 and counts non-negative. A config
// the caller never sent gets the defaults.
func (c StrategyConfig) Normalize() StrategyConfig {
	if !c.Provided && c.isZero() {
		return DefaultStrategyConfig()
	}
	switch {
	case c.NumGames < 1:
		c.NumGames = 1
	case c.NumGames > 2:
		c.NumGames = 2
	}
	if c.NumCoupons < 0 {
		c.NumCoupons = 0
	}
	if c.NumVouchers < 0 {
		c.NumVouchers = 0
	}
	if c.CouponValidityDays < 0 {
		c.CouponValidityDays = 0
	}
	if c.WelcomeMinSpend < 0 {
		c.WelcomeMinSpend = 0
	}
	if c.ReceiptQRMinSpend < 0 {
		c.ReceiptQRMinSpend = 0
	}
	return c
}

type Constraints struct {
	MaxDiscount         float64  `json:"maxDiscount" msgpack:"max_discount"`
	MinMargin           float64  `json:"minMargin" msgpack:"min_margin"`
	ForbiddenDays       []string `json:"forbiddenDays" msgpack:"forbidden_days"`
	BlacklistedProducts []int64  `json:"blacklistedProducts" msgpack:"blacklisted"`
	AdBudgetDaily       float64  `json:"adBudgetDaily" msgpack:"ad_budget"`
}

// Normalize fills derived fields and defaults in place of the scattered
// fallbacks callers would otherwise apply.
func (p Profile) Normalize() Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	if p.Type == "" {
		p.Type = TypeRestaurant
	}
	if !p.PrimaryObjective.Known() {
		for _, o := range p.Objectives {
			if o.Known() {
				p.PrimaryObjective = o
				break
			}
		}
	}
	p.StrategyConfig = p.StrategyConfig.Normalize()
	if p.MonthlyTickets == 0 && len(p.DailyTickets) > 0 {
		p.MonthlyTickets = len(p.DailyTickets)
	}
	if p.AverageTicket == 0 && p.MonthlyTickets > 0 && p.MonthlyRevenue > 0 {
		p.AverageTicket = finance.Round2(p.MonthlyRevenue / float64(p.MonthlyTickets))
	}
	return p
}

// MarketingBudget is the monthly spend implied by revenue and the
// marketing share.
func (p Profile) MarketingBudget() float64 {
	return finance.MarketingBudget(p.MonthlyRevenue, p.MarketingPercent)
}

// TopProducts returns up to n products ordered by monthly sales.
func (p Profile) TopProducts(n int) []Product {
	sorted := make([]Product, len(p.Products))
	copy(sorted, p.Products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SalesMonthly > sorted[j].SalesMonthly
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TopMarginProducts returns up to n products ordered by margin, skipping
// blacklisted ids.
func (p Profile) TopMarginProducts(n int) []Product {
	banned := make(map[int64]bool, len(p.Constraints.BlacklistedProducts))
	for _, id := range p.Constraints.BlacklistedProducts {
		banned[id] = true
	}
	var out []Product
	for _, prod := range p.Products {
		if !banned[prod.ID] {
			out = append(out, prod)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Margin() > out[j].Margin()
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// AverageMargin across the catalog, 0 for an empty catalog.
func (p Profile) AverageMargin() float64 {
	if len(p.Products) == 0 {
		return 0
	}
	var sum float64
	for _, prod := range p.Products {
		sum += prod.Margin()
	}
	return sum / float64(len(p.Products))
}
