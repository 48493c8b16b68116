package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"omnia-service/internal/domain/business"
)

const strategyRole = `You are the head of strategy for Omnia, a gamified marketing system for local businesses.`

const strategySchema = `{
  "analisisGeneral": string,
  "puntosFuertes": string[], "puntosDebiles": string[], "riesgos": string[], "oportunidades": string[],
  "juegos": [{
    "tipo": "bienvenida" | "ticket_qr", "nombre": string, "mecanica": string, "ubicacion": string,
    "siempreGana": boolean, "gastoMinimo": number, "canjeProximaVisita": boolean,
    "premios": [ exactly 7 x {"nombre": string, "tipo": "descuento" | "2x1" | "regalo" | "cashback" | "puntos",
      "productoObjetivo": string, "costo": number, "minGasto": number, "probabilidad": number, "razonamiento": string} ],
    "razonamiento": string
  }],
  "estrategiaEconomica": {"subidaTicket": string, "proteccionMargen": string, "evitarSaturacion": string, "impactoFinanciero": string},
  "horasValle": {"misiones": string[], "promociones": string[], "antiPico": string[]},
  "captacion": MARKETING_PLAN,
  "fidelizacion": {
    "niveles": string[], "misiones": string[], "recompensasVIP": string[],
    "cupones": [{"nombre": string, "descripcion": string, "tipo": string, "valor": string, "horariosValidos": string, "validezDias": number, "gastoMinimo": number, "razonamiento": string}],
    "vales": [{"nombre": string, "valorEuros": number, "validezDias": number, "razonamiento": string}],
    "tarjetaSellos": {"nombre": string, "productoAsociado": string, "numSellosParaPremio": number, "premioFinal": string, "razonamiento": string} | null
  },
  "automatizaciones": string[],
  "resumenEstrategia": string
}`

const marketingSchema = `{
  "organico": {
    "posts": [{"idea": string, "copy": string, "creativoSugerido": string, "mejorDia": string}],
    "stories": [{"idea": string, "copy": string, "stickers": string}],
    "reels": [{"idea": string, "guion": string, "duracion": string, "audio": string}]
  },
  "pago": {"campanas": [{"objetivo": string, "segmentacion": string, "copy": string, "creativoSugerido": string, "presupuestoSugerido": string}]},
  "acciones": string[],
  "calendarioSemanal": string
}`

// BuildStrategyPrompt assembles role, knowledge base, profile and rules.
func BuildStrategyPrompt(knowledge string, p business.Profile) (string, error) {
	schema := strings.Replace(strategySchema, "MARKETING_PLAN", marketingSchema, 1)
	return buildPrompt(knowledge, p, "a complete strategy", strategyRules(p), schema)
}

func BuildMarketingPrompt(knowledge string, p business.Profile) (string, error) {
	rules := []string{
		"Write every copy in Spanish for the business's own customers.",
		"Tailor posts, stories and reels to the enabled channels and the primary objective.",
	}
	if p.Constraints.AdBudgetDaily > 0 {
		rules = append(rules, fmt.Sprintf("No campaign may suggest more than %.2f EUR per day.", p.Constraints.AdBudgetDaily))
	}
	return buildPrompt(knowledge, p, "a marketing plan", rules, marketingSchema)
}

func strategyRules(p business.Profile) []string {
	cfg := p.StrategyConfig
	games := "Return exactly one game: a welcome game (tipo bienvenida, siempreGana true)."
	if cfg.NumGames >= 2 {
		games = "Return exactly two games: a welcome game (tipo bienvenida, siempreGana true) and a receipt QR game (tipo ticket_qr, siempreGana false)."
	}
	rules := []string{
		"Return exactly 7 prizes per game.",
		games,
		fmt.Sprintf("Every welcome game prize must have minGasto of at least %.2f.", cfg.WelcomeMinSpend),
		fmt.Sprintf("Receipt QR prizes must scale minGasto with the average ticket of %.2f, never below %.2f.", p.AverageTicket, cfg.ReceiptQRMinSpend),
		fmt.Sprintf("Return %d coupons and %d vouchers; vouchers never have a minimum spend.", cfg.NumCoupons, cfg.NumVouchers),
	}
	if p.Constraints.MaxDiscount > 0 {
		rules = append(rules, fmt.Sprintf("Never suggest a discount above %.0f%%.", p.Constraints.MaxDiscount))
	}
	if p.Constraints.MinMargin > 0 {
		rules = append(rules, fmt.Sprintf("Keep every promoted product above a %.0f%% margin.", p.Constraints.MinMargin))
	}
	if len(p.Constraints.ForbiddenDays) > 0 {
		rules = append(rules, "Do not schedule aggressive promotions on: "+strings.Join(p.Constraints.ForbiddenDays, ", ")+".")
	}
	if len(p.Constraints.BlacklistedProducts) > 0 {
		rules = append(rules, "Never discount or give away the blacklisted product ids listed in constraints.")
	}
	return rules
}

func buildPrompt(knowledge string, p business.Profile, task string, rules []string, schema string) (string, error) {
	profile, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	var b strings.Builder
	b.WriteString("ROLE: ")
	b.WriteString(strategyRole)
	b.WriteString("\n\n")
	if knowledge != "" {
		b.WriteString("KNOWLEDGE BASE (apply these principles):\n\"\"\"\n")
		b.WriteString(knowledge)
		b.WriteString("\n\"\"\"\n\n")
	}
	fmt.Fprintf(&b, "TASK: Analyse the business profile below and produce %s.\n\n", task)
	b.WriteString("BUSINESS PROFILE:\n")
	b.Write(profile)
	b.WriteString("\n\nREQUIREMENTS:\n")
	b.WriteString("- Return ONLY JSON matching the output schema, without markdown.\n")
	b.WriteString("- Be specific to the business type and its products.\n")
	for _, r := range rules {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString("\nOUTPUT SCHEMA:\n")
	b.WriteString(schema)
	b.WriteString("\n")
	return b.String(), nil
}
