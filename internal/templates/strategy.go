package templates

import (
	"fmt"
	"math"
	"strings"

	"omnia-service/internal/domain/business"
	"omnia-service/internal/domain/strategy"
	"omnia-service/internal/pkg/finance"
)

// SelectStrategyTemplate builds a complete strategy for the profile's
// primary objective. It has no failure mode: unknown objectives use the
// capture bundle.
func SelectStrategyTemplate(p business.Profile) strategy.GeneratedStrategy {
	cfg := p.StrategyConfig.Normalize()
	b := strategyBundleOf(p.PrimaryObjective)

	out := strategy.GeneratedStrategy{
		Analysis: fmt.Sprintf("Estrategia diseñada para objetivo: %s. Ticket medio actual €%s. Presupuesto €%.0f.",
			strings.ToUpper(p.PrimaryObjective.Label()), formatAmount(p.AverageTicket), p.MarketingBudget()),
		Strengths:     strengths(p),
		Weaknesses:    weaknesses(p),
		Risks:         risks(p),
		Opportunities: append([]string(nil), b.opportunities...),
		Games:         games(p, cfg, b),
		Economic:      economic(p),
		OffPeak:       offPeak(p),
		Acquisition:   SelectMarketingTemplate(p),
		Loyalty: strategy.LoyaltyPlan{
			Levels:     append([]string(nil), loyaltyLevels...),
			Missions:   append([]string(nil), loyaltyMissions...),
			VIPRewards: append([]string(nil), vipRewards...),
		},
		Automations:    append([]string(nil), automations...),
		Coupons:        coupons(p, cfg),
		Vouchers:       vouchers(cfg),
		HookProducts:   hookProducts(p, b),
		UpsellProducts: upsellProducts(p, b),
		Summary:        b.summary,
	}
	if cfg.StampCard {
		out.StampCard = stampCard()
	}
	if cfg.PointsCard {
		out.PointsCard = pointsCard()
	}
	if b.roi != nil {
		v := *b.roi
		out.EstimatedROI = &v
	}
	return out
}

func games(p business.Profile, cfg business.StrategyConfig, b *strategyBundle) []strategy.Game {
	welcome := strategy.Game{
		ID:              1,
		Type:            strategy.GameWelcome,
		Name:            welcomeGameName,
		Mechanic:        "Ruleta",
		Location:        "Mesa/Directorio/RRSS",
		AlwaysWins:      true,
		MinSpend:        cfg.WelcomeMinSpend,
		RedeemNextVisit: true,
		Prizes:          make([]strategy.Prize, strategy.PrizesPerGame),
		Reasoning:       b.summary,
	}
	for i, prize := range b.prizes {
		prize.MinSpend = math.Max(prize.MinSpend, cfg.WelcomeMinSpend)
		welcome.Prizes[i] = prize
	}

	out := []strategy.Game{welcome}
	if cfg.NumGames < 2 {
		return out
	}

	receipt := strategy.Game{
		ID:              2,
		Type:            strategy.GameReceiptQR,
		Name:            receiptGameName,
		Mechanic:        "Rasca y gana",
		Location:        "Ticket de compra (QR)",
		AlwaysWins:      false,
		MinSpend:        cfg.ReceiptQRMinSpend,
		RedeemNextVisit: true,
		Prizes:          make([]strategy.Prize, strategy.PrizesPerGame),
		Reasoning:       "Premios condicionados al ticket para proteger el margen.",
	}
	for i, prize := range b.prizes {
		// never below the prize's own tier
		floor := math.Max(cfg.ReceiptQRMinSpend, finance.Round2(p.AverageTicket*receiptSpendFactors[i]))
		prize.MinSpend = math.Max(prize.MinSpend, floor)
		receipt.Prizes[i] = prize
	}
	return append(out, receipt)
}

func coupons(p business.Profile, cfg business.StrategyConfig) []strategy.Coupon {
	n := min(cfg.NumCoupons, len(couponPool))
	out := make([]strategy.Coupon, n)
	copy(out, couponPool[:n])
	for i := range out {
		if cfg.CouponValidityDays > 0 {
			out[i].ValidityDays = cfg.CouponValidityDays
		}
	}
	if n > 0 {
		out[0].ValidHours = offPeakWindow(p)
	}
	return out
}

func vouchers(cfg business.StrategyConfig) []strategy.Voucher {
	n := min(cfg.NumVouchers, len(voucherPool))
	out := make([]strategy.Voucher, n)
	copy(out, voucherPool[:n])
	for i := range out {
		if cfg.CouponValidityDays > 0 {
			out[i].ValidityDays = cfg.CouponValidityDays
		}
	}
	return out
}

func hookProducts(p business.Profile, b *strategyBundle) []string {
	top := p.TopProducts(3)
	if len(top) == 0 {
		return append([]string(nil), b.hookProducts...)
	}
	out := make([]string, len(top))
	for i, prod := range top {
		out[i] = prod.Name
	}
	return out
}

func upsellProducts(p business.Profile, b *strategyBundle) []string {
	top := p.TopMarginProducts(3)
	if len(top) == 0 {
		return append([]string(nil), b.upsellProducts...)
	}
	out := make([]string, len(top))
	for i, prod := range top {
		out[i] = prod.Name
	}
	return out
}

func strengths(p business.Profile) []string {
	var out []string
	if ch := p.Marketing.Channels(); len(ch) > 0 {
		out = append(out, "Presencia digital en: "+strings.Join(ch, ", "))
	}
	if m := p.AverageMargin(); m >= 60 {
		out = append(out, fmt.Sprintf("Margen medio alto (%.1f%%)", m))
	}
	if top := p.TopProducts(1); len(top) > 0 && top[0].SalesMonthly > 0 {
		out = append(out, fmt.Sprintf("Producto estrella: %s (%d uds/mes)", top[0].Name, top[0].SalesMonthly))
	}
	return out
}

func weaknesses(p business.Profile) []string {
	var out []string
	if len(p.Marketing.Channels()) == 0 {
		out = append(out, "Sin presencia digital activa")
	}
	if !p.Marketing.AdsActive {
		out = append(out, "Sin campañas de pago activas")
	}
	if days := p.Capacity.Schedule.OffPeakDays; len(days) > 0 {
		out = append(out, "Baja afluencia en: "+strings.Join(days, ", "))
	}
	if m := p.AverageMargin(); len(p.Products) > 0 && m < p.Constraints.MinMargin {
		out = append(out, fmt.Sprintf("Margen medio (%.1f%%) por debajo del mínimo fijado (%.0f%%)", m, p.Constraints.MinMargin))
	}
	return out
}

func risks(p business.Profile) []string {
	out := []string{"Saturación de descuentos si se solapan cupones y juegos"}
	if p.Constraints.MaxDiscount > 0 {
		out = append(out, fmt.Sprintf("No superar el %.0f%% de descuento", p.Constraints.MaxDiscount))
	}
	if days := p.Constraints.ForbiddenDays; len(days) > 0 {
		out = append(out, "Sin promociones agresivas en: "+strings.Join(days, ", "))
	}
	return out
}

func economic(p business.Profile) strategy.EconomicStrategy {
	return strategy.EconomicStrategy{
		TicketIncrease:   fmt.Sprintf("Premios con gasto mínimo escalonado sobre un ticket medio de €%s.", formatAmount(p.AverageTicket)),
		MarginProtection: "Coste de cada premio acotado y canje en la próxima visita.",
		AvoidSaturation:  "Un único premio por ticket y validez limitada de los cupones.",
		FinancialImpact:  fmt.Sprintf("Presupuesto mensual de marketing de €%.0f sobre una facturación de €%.0f.", p.MarketingBudget(), p.MonthlyRevenue),
	}
}

func offPeak(p business.Profile) strategy.OffPeakPlan {
	s := p.Capacity.Schedule
	plan := strategy.OffPeakPlan{
		Promotions: []string{"Happy Hour Café (" + offPeakWindow(p) + ")"},
	}
	for _, day := range s.OffPeakDays {
		plan.Missions = append(plan.Missions, "Doble sello los "+day)
	}
	for _, day := range s.PeakDays {
		plan.AntiPeak = append(plan.AntiPeak, "Canjes desactivados los "+day)
	}
	return plan
}
