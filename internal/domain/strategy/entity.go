// internal/domain/strategy/entity.go
package strategy

import (
	"fmt"
	"time"
)

// PrizesPerGame is fixed for every game mechanic.
const PrizesPerGame = 7

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

type PrizeType string

const (
	PrizeDiscount  PrizeType = "descuento"
	PrizeTwoForOne PrizeType = "2x1"
	PrizeGift      PrizeType = "regalo"
	PrizeCashback  PrizeType = "cashback"
	PrizePoints    PrizeType = "puntos"
)

type GameType string

const (
	GameWelcome   GameType = "bienvenida"
	GameReceiptQR GameType = "ticket_qr"
)

type LoyaltyType string

const (
	LoyaltyStamps LoyaltyType = "sellos"
	LoyaltyPoints LoyaltyType = "puntos"
)

type Prize struct {
	ID            int       `json:"id" msgpack:"id"`
	Name          string    `json:"nombre" msgpack:"name"`
	Type          PrizeType `json:"tipo" msgpack:"type"`
	TargetProduct string    `json:"productoObjetivo" msgpack:"target"`
	Cost          float64   `json:"costo" msgpack:"cost"`
	MinSpend      float64   `json:"minGasto" msgpack:"min_spend"`
	Probability   float64   `json:"probabilidad" msgpack:"probability"`
	Reasoning     string    `json:"razonamiento" msgpack:"reasoning"`
}

type Game struct {
	ID              int      `json:"id" msgpack:"id"`
	Type            GameType `json:"tipo" msgpack:"type"`
	Name            string   `json:"nombre" msgpack:"name"`
	Mechanic        string   `json:"mecanica" msgpack:"mechanic"`
	Location        string   `json:"ubicacion" msgpack:"location"`
	AlwaysWins      bool     `json:"siempreGana" msgpack:"always_wins"`
	MinSpend        float64  `json:"gastoMinimo" msgpack:"min_spend"`
	RedeemNextVisit bool     `json:"canjeProximaVisita" msgpack:"next_visit"`
	Prizes          []Prize  `json:"premios" msgpack:"prizes"`
	Reasoning       string   `json:"razonamiento" msgpack:"reasoning"`
}

// Coupon is a time-windowed benefit that may require a minimum spend.
type Coupon struct {
	ID           int       `json:"id" msgpack:"id"`
	Name         string    `json:"nombre" msgpack:"name"`
	Description  string    `json:"descripcion" msgpack:"description"`
	Type         PrizeType `json:"tipo" msgpack:"type"`
	Value        string    `json:"valor" msgpack:"value"`
	ValidHours   string    `json:"horariosValidos" msgpack:"valid_hours"`
	ValidityDays int       `json:"validezDias" msgpack:"validity_days"`
	MinSpend     float64   `json:"gastoMinimo" msgpack:"min_spend"`
	Reasoning    string    `json:"razonamiento" msgpack:"reasoning"`
}

// Voucher is a fixed cash value. It has no spend floor field at all.
type Voucher struct {
	ID           int     `json:"id" msgpack:"id"`
	Name         string  `json:"nombre" msgpack:"name"`
	ValueEuros   float64 `json:"valorEuros" msgpack:"value"`
	ValidityDays int     `json:"validezDias" msgpack:"validity_days"`
	Reasoning    string  `json:"razonamiento" msgpack:"reasoning"`
}

type LoyaltyCard struct {
	Type            LoyaltyType `json:"tipo" msgpack:"type"`
	Name            string      `json:"nombre" msgpack:"name"`
	Product         *string     `json:"productoAsociado" msgpack:"product"`
	StampsForReward int         `json:"numSellosParaPremio" msgpack:"stamps"`
	PointsPerEuro   float64     `json:"puntosPorEuro" msgpack:"points_per_euro"`
	PointsForReward int         `json:"puntosParaPremio" msgpack:"points"`
	Reward          string      `json:"premioFinal" msgpack:"reward"`
	Visibility      string      `json:"visibilidad" msgpack:"visibility"`
	Delivery        string      `json:"entrega" msgpack:"delivery"`
	Reasoning       string      `json:"razonamiento" msgpack:"reasoning"`
}

type EconomicStrategy struct {
	TicketIncrease   string `json:"subidaTicket" msgpack:"ticket"`
	MarginProtection string `json:"proteccionMargen" msgpack:"margin"`
	AvoidSaturation  string `json:"evitarSaturacion" msgpack:"saturation"`
	FinancialImpact  string `json:"impactoFinanciero" msgpack:"impact"`
}

type OffPeakPlan struct {
	Missions   []string `json:"misiones" msgpack:"missions"`
	Promotions []string `json:"promociones" msgpack:"promotions"`
	AntiPeak   []string `json:"antiPico" msgpack:"anti_peak"`
}

// LoyaltyPlan may carry coupons, vouchers and a stamp card when the
// remote generator nests them here instead of at the top level.
type LoyaltyPlan struct {
	Levels     []string     `json:"niveles" msgpack:"levels"`
	Missions   []string     `json:"misiones" msgpack:"missions"`
	VIPRewards []string     `json:"recompensasVIP" msgpack:"vip"`
	Coupons    []Coupon     `json:"cupones,omitempty" msgpack:"coupons"`
	Vouchers   []Voucher    `json:"vales,omitempty" msgpack:"vouchers"`
	StampCard  *LoyaltyCard `json:"tarjetaSellos,omitempty" msgpack:"stamp_card"`
}

// GeneratedStrategy is the tabbed strategy shape plus the top-level
// loyalty and product fields the template engine fills.
type GeneratedStrategy struct {
	Analysis      string   `json:"analisisGeneral" msgpack:"analysis"`
	Strengths     []string `json:"puntosFuertes" msgpack:"strengths"`
	Weaknesses    []string `json:"puntosDebiles" msgpack:"weaknesses"`
	Risks         []string `json:"riesgos" msgpack:"risks"`
	Opportunities []string `json:"oportunidades" msgpack:"opportunities"`

	Games []Game `json:"juegos" msgpack:"games"`

	Economic    EconomicStrategy `json:"estrategiaEconomica" msgpack:"economic"`
	OffPeak     OffPeakPlan      `json:"horasValle" msgpack:"off_peak"`
	Acquisition MarketingPlan    `json:"captacion" msgpack:"acquisition"`
	Loyalty     LoyaltyPlan      `json:"fidelizacion" msgpack:"loyalty"`
	Automations []string         `json:"automatizaciones" msgpack:"automations"`

	Coupons        []Coupon     `json:"cupones" msgpack:"coupons"`
	Vouchers       []Voucher    `json:"vales" msgpack:"vouchers"`
	StampCard      *LoyaltyCard `json:"tarjetaSellos" msgpack:"stamp_card"`
	PointsCard     *LoyaltyCard `json:"tarjetaPuntos" msgpack:"points_card"`
	HookProducts   []string     `json:"productosGancho" msgpack:"hook"`
	UpsellProducts []string     `json:"productosImpulsar" msgpack:"upsell"`
	EstimatedROI   *float64     `json:"roiEstimado,omitempty" msgpack:"roi"`
	Summary        string       `json:"resumenEstrategia" msgpack:"summary"`
}

type Post struct {
	Idea            string `json:"idea" msgpack:"idea"`
	Copy            string `json:"copy" msgpack:"copy"`
	SuggestedVisual string `json:"creativoSugerido" msgpack:"visual"`
	BestSlot        string `json:"mejorDia,omitempty" msgpack:"slot"`
}

type Story struct {
	Idea     string `json:"idea" msgpack:"idea"`
	Copy     string `json:"copy" msgpack:"copy"`
	Stickers string `json:"stickers,omitempty" msgpack:"stickers"`
}

type Reel struct {
	Idea     string `json:"idea" msgpack:"idea"`
	Script   string `json:"guion" msgpack:"script"`
	Duration string `json:"duracion,omitempty" msgpack:"duration"`
	Audio    string `json:"audio,omitempty" msgpack:"audio"`
}

type Campaign struct {
	Objective       string `json:"objetivo" msgpack:"objective"`
	Audience        string `json:"segmentacion" msgpack:"audience"`
	Copy            string `json:"copy" msgpack:"copy"`
	SuggestedVisual string `json:"creativoSugerido" msgpack:"visual"`
	SuggestedBudget string `json:"presupuestoSugerido" msgpack:"budget"`
}

type OrganicContent struct {
	Posts   []Post  `json:"posts" msgpack:"posts"`
	Stories []Story `json:"stories" msgpack:"stories"`
	Reels   []Reel  `json:"reels" msgpack:"reels"`
}

type PaidContent struct {
	Campaigns []Campaign `json:"campanas" msgpack:"campaigns"`
}

type MarketingPlan struct {
	Organic        OrganicContent `json:"organico" msgpack:"organic"`
	Paid           PaidContent    `json:"pago" msgpack:"paid"`
	Actions        []string       `json:"acciones" msgpack:"actions"`
	WeeklyCalendar string         `json:"calendarioSemanal,omitempty" msgpack:"calendar"`
}

// Record is a stored strategy linked to a business.
type Record struct {
	ID            string            `json:"id" db:"id"`
	BusinessID    string            `json:"business_id" db:"business_id"`
	BusinessName  string            `json:"business_name" db:"business_name"`
	BusinessType  string            `json:"business_type" db:"business_type"`
	Source        Source            `json:"source" db:"source"`
	Strategy      GeneratedStrategy `json:"strategy_data" db:"strategy_data"`
	MarketingPlan *MarketingPlan    `json:"marketing_plan,omitempty" db:"marketing_plan"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}

// Normalize hoists loyalty items nested under fidelizacion to the top
// level when the top level is empty and numbers unnumbered entries.
func (s GeneratedStrategy) Normalize() GeneratedStrategy {
	if len(s.Coupons) == 0 && len(s.Loyalty.Coupons) > 0 {
		s.Coupons = s.Loyalty.Coupons
	}
	if len(s.Vouchers) == 0 && len(s.Loyalty.Vouchers) > 0 {
		s.Vouchers = s.Loyalty.Vouchers
	}
	if s.StampCard == nil && s.Loyalty.StampCard != nil {
		card := *s.Loyalty.StampCard
		if card.Type == "" {
			card.Type = LoyaltyStamps
		}
		s.StampCard = &card
	}

	games := make([]Game, len(s.Games))
	for i, g := range s.Games {
		if g.ID == 0 {
			g.ID = i + 1
		}
		prizes := make([]Prize, len(g.Prizes))
		for j, p := range g.Prizes {
			if p.ID == 0 {
				p.ID = j + 1
			}
			prizes[j] = p
		}
		g.Prizes = prizes
		games[i] = g
	}
	s.Games = games

	for i := range s.Coupons {
		if s.Coupons[i].ID == 0 {
			s.Coupons[i].ID = i + 1
		}
	}
	for i := range s.Vouchers {
		if s.Vouchers[i].ID == 0 {
			s.Vouchers[i].ID = i + 1
		}
	}
	if s.Summary == "" {
		s.Summary = s.SummaryText()
	}
	return s
}

// Validate rejects structurally incomplete strategies.
func (s GeneratedStrategy) Validate() error {
	if s.Analysis == "" {
		return fmt.Errorf("strategy has no analysis")
	}
	if len(s.Games) == 0 {
		return fmt.Errorf("strategy has no games")
	}
	for i, g := range s.Games {
		if len(g.Prizes) != PrizesPerGame {
			return fmt.Errorf("game %d has %d prizes, want %d", i+1, len(g.Prizes), PrizesPerGame)
		}
	}
	return nil
}

// WelcomeGame returns the always-win game, if any.
func (s GeneratedStrategy) WelcomeGame() *Game {
	for i := range s.Games {
		if s.Games[i].Type == GameWelcome {
			return &s.Games[i]
		}
	}
	return nil
}

// SummaryText is the condensed description kept in dataset entries.
func (s GeneratedStrategy) SummaryText() string {
	if s.Summary != "" {
		return s.Summary
	}
	const max = 100
	r := []rune(s.Analysis)
	if len(r) <= max {
		return s.Analysis
	}
	return string(r[:max]) + "..."
}

// KeyActions picks the most actionable list available.
func (s GeneratedStrategy) KeyActions() []string {
	switch {
	case len(s.Automations) > 0:
		return s.Automations
	case len(s.Acquisition.Actions) > 0:
		return s.Acquisition.Actions
	}
	var out []string
	for _, g := range s.Games {
		out = append(out, g.Name)
	}
	for _, c := range s.Coupons {
		out = append(out, c.Name)
	}
	return out
}
