package templates

import "omnia-service/internal/domain/strategy"

type strategyBundle struct {
	summary        string
	prizes         [strategy.PrizesPerGame]strategy.Prize
	opportunities  []string
	hookProducts   []string
	upsellProducts []string
	// nil leaves roiEstimado out of the output
	roi *float64
}

func roi(v float64) *float64 { return &v }

var strategyBundles = [...]strategyBundle{
	bundleNone: {},

	bundleCapture: {
		summary: "Estrategia equilibrada para CAPTACIÓN y FRECUENCIA. Premios variados para atraer y retener.",
		prizes: [strategy.PrizesPerGame]strategy.Prize{
			{ID: 1, Name: "2x1 en Café", Type: strategy.PrizeTwoForOne, TargetProduct: "Bebidas Calientes", Cost: 0.80, MinSpend: 5, Probability: 30, Reasoning: "Producto gancho"},
			{ID: 2, Name: "10% Descuento", Type: strategy.PrizeDiscount, TargetProduct: "Total", Cost: 1.50, MinSpend: 10, Probability: 25, Reasoning: "Incentivo general"},
			{ID: 3, Name: "Postre Gratis", Type: strategy.PrizeGift, TargetProduct: "Postres", Cost: 2.00, MinSpend: 15, Probability: 15, Reasoning: "Aumenta ticket"},
			{ID: 4, Name: "Cerveza Gratis", Type: strategy.PrizeGift, TargetProduct: "Bebidas", Cost: 1.20, MinSpend: 20, Probability: 12, Reasoning: "Premium"},
			{ID: 5, Name: "Vale 5€", Type: strategy.PrizeCashback, TargetProduct: "Próxima visita", Cost: 5.00, MinSpend: 25, Probability: 10, Reasoning: "Fidelización"},
			{ID: 6, Name: "Entrante Gratis", Type: strategy.PrizeGift, TargetProduct: "Tapas", Cost: 2.50, MinSpend: 30, Probability: 6, Reasoning: "Impulsa tapas"},
			{ID: 7, Name: "15% Descuento", Type: strategy.PrizeDiscount, TargetProduct: "Total", Cost: 2.25, MinSpend: 15, Probability: 2, Reasoning: "Premio especial"},
		},
		opportunities: []string{
			"Convertir la primera visita en registro con la ruleta de bienvenida",
			"Reactivar clientes con premios canjeables en la próxima visita",
		},
		hookProducts:   []string{"Café Americano", "Cerveza Artesanal", "Refresco"},
		upsellProducts: []string{"Ensalada Gourmet", "Sopa del Día", "Tarta Especial"},
		roi:            roi(3.2),
	},

	bundleUpsell: {
		summary: "Estrategia de UPSELLING agresivo. Premios con gastos mínimos escalonados para subir el ticket promedio.",
		prizes: [strategy.PrizesPerGame]strategy.Prize{
			{ID: 1, Name: "2x1 Entrantes", Type: strategy.PrizeTwoForOne, TargetProduct: "Entrantes", Cost: 2.00, MinSpend: 15, Probability: 25, Reasoning: "Fuerza a pedir entrante"},
			{ID: 2, Name: "Postre al 50%", Type: strategy.PrizeDiscount, TargetProduct: "Postres", Cost: 1.50, MinSpend: 20, Probability: 20, Reasoning: "Añade plato al final"},
			{ID: 3, Name: "Bebida Grande", Type: strategy.PrizeGift, TargetProduct: "Upgrade Bebida", Cost: 0.50, MinSpend: 10, Probability: 20, Reasoning: "Upgrade sencillo"},
			{ID: 4, Name: "10€ Dto en €50", Type: strategy.PrizeDiscount, TargetProduct: "Total", Cost: 10.00, MinSpend: 50, Probability: 15, Reasoning: "Empuja ticket alto"},
			{ID: 5, Name: "Botella Vino Gratis", Type: strategy.PrizeGift, TargetProduct: "Vino", Cost: 4.00, MinSpend: 60, Probability: 10, Reasoning: "Para grupos grandes"},
			{ID: 6, Name: "Café + Copa", Type: strategy.PrizeGift, TargetProduct: "Sobremesa", Cost: 2.00, MinSpend: 30, Probability: 8, Reasoning: "Alarga la estancia"},
			{ID: 7, Name: "Todo Gratis", Type: strategy.PrizeGift, TargetProduct: "Cuenta", Cost: 30.00, MinSpend: 20, Probability: 2, Reasoning: "Gancho poderoso"},
		},
		opportunities: []string{
			"Escalonar premios por tramos de gasto para arrastrar el ticket",
			"Sugerir complementos de alto margen en el momento del canje",
		},
		hookProducts:   []string{"Entrantes", "Bebida Grande", "Café"},
		upsellProducts: []string{"Postres", "Vino", "Copas de sobremesa"},
	},

	bundleReviews: {
		summary: "Estrategia enfocada en REPUTACIÓN ONLINE. Premios diseñados para incentivar la satisfacción y el feedback positivo.",
		prizes: [strategy.PrizesPerGame]strategy.Prize{
			{ID: 1, Name: "Café Gratis", Type: strategy.PrizeGift, TargetProduct: "Café", Cost: 0.50, MinSpend: 5, Probability: 30, Reasoning: "Detalle rápido de agradecimiento"},
			{ID: 2, Name: "Postre por Review", Type: strategy.PrizeGift, TargetProduct: "Postres", Cost: 2.00, MinSpend: 15, Probability: 20, Reasoning: "Incentivo directo (cumpliendo políticas)"},
			{ID: 3, Name: "5€ Descuento", Type: strategy.PrizeDiscount, TargetProduct: "Próxima Visita", Cost: 5.00, MinSpend: 20, Probability: 15, Reasoning: "Compensa el esfuerzo"},
			{ID: 4, Name: "Invitación Evento", Type: strategy.PrizeGift, TargetProduct: "Cata", Cost: 3.00, MinSpend: 25, Probability: 10, Reasoning: "Crea comunidad"},
			{ID: 5, Name: "Chupito Premium", Type: strategy.PrizeGift, TargetProduct: "Licores", Cost: 1.00, MinSpend: 10, Probability: 15, Reasoning: "Cierre de comida memorable"},
			{ID: 6, Name: "15% Descuento", Type: strategy.PrizeDiscount, TargetProduct: "Total", Cost: 2.50, MinSpend: 30, Probability: 8, Reasoning: "Gran incentivo"},
			{ID: 7, Name: "Menú Degustación", Type: strategy.PrizeGift, TargetProduct: "Menú", Cost: 15.00, MinSpend: 40, Probability: 2, Reasoning: "Premio estrella"},
		},
		opportunities: []string{
			"Pedir la reseña justo después del premio, con el cliente satisfecho",
			"Responder todas las reseñas para mejorar el posicionamiento local",
		},
		hookProducts:   []string{"Café", "Chupito Premium", "Postre de la casa"},
		upsellProducts: []string{"Menú Degustación", "Catas", "Postres"},
		roi:            roi(3.2),
	},

	bundleVirality: {
		summary: "Estrategia enfocada en MAXIMIZAR COMPARTIDOS EN REDES. La ruleta incluye premios muy visuales y \"instagrameables\".",
		prizes: [strategy.PrizesPerGame]strategy.Prize{
			{ID: 1, Name: "Cóctel Instagrameable", Type: strategy.PrizeGift, TargetProduct: "Bebidas Premium", Cost: 2.50, MinSpend: 10, Probability: 20, Reasoning: "Muy visual para stories"},
			{ID: 2, Name: "Postre \"Explosión\"", Type: strategy.PrizeGift, TargetProduct: "Postres", Cost: 3.00, MinSpend: 15, Probability: 15, Reasoning: "Genera efecto WOW"},
			{ID: 3, Name: "2x1 en Copas", Type: strategy.PrizeTwoForOne, TargetProduct: "Bebidas", Cost: 2.00, MinSpend: 12, Probability: 25, Reasoning: "Para venir con amigos"},
			{ID: 4, Name: "Experiencia VIP", Type: strategy.PrizeGift, TargetProduct: "Mesa VIP", Cost: 5.00, MinSpend: 30, Probability: 5, Reasoning: "Premio aspiracional"},
			{ID: 5, Name: "Foto Polaroid Gratis", Type: strategy.PrizeGift, TargetProduct: "Recuerdo", Cost: 0.50, MinSpend: 0, Probability: 20, Reasoning: "Recuerdo físico y digital"},
			{ID: 6, Name: "10% si subes Story", Type: strategy.PrizeDiscount, TargetProduct: "Total", Cost: 1.50, MinSpend: 10, Probability: 10, Reasoning: "Incentivo directo a compartir"},
			{ID: 7, Name: "Cena para 2", Type: strategy.PrizeGift, TargetProduct: "Menú Degustación", Cost: 20.00, MinSpend: 50, Probability: 5, Reasoning: "Gran premio viral"},
		},
		opportunities: []string{
			"Premiar el contenido generado por clientes con sorteos visibles",
			"Aprovechar los premios visuales como reclamo en stories",
		},
		hookProducts:   []string{"Cóctel de autor", "Postre Explosión", "Copas"},
		upsellProducts: []string{"Experiencia VIP", "Menú Degustación", "Cócteles Premium"},
		roi:            roi(3.2),
	},
}

// Shared by every bundle; the first coupon follows the off-peak window.
var couponPool = []strategy.Coupon{
	{ID: 1, Name: "Happy Hour Café", Description: "2x1 en cafés", Type: strategy.PrizeGift, Value: "2x1", ValidHours: defaultOffPeakWindow, ValidityDays: 30, MinSpend: 0, Reasoning: "Llena horas muertas"},
	{ID: 2, Name: "Menú Mediodía -10%", Description: "10% en el menú del día", Type: strategy.PrizeDiscount, Value: "10%", ValidHours: "L-V 13:00-15:00", ValidityDays: 30, MinSpend: 12, Reasoning: "Asegura la franja de comidas"},
	{ID: 3, Name: "Postre de Regalo", Description: "Postre gratis con dos platos principales", Type: strategy.PrizeGift, Value: "Postre", ValidHours: "Todos los días", ValidityDays: 30, MinSpend: 25, Reasoning: "Sube el ticket en mesas de dos"},
	{ID: 4, Name: "Cumpleaños", Description: "Bebida gratis la semana de tu cumpleaños", Type: strategy.PrizeGift, Value: "Bebida", ValidHours: "Todos los días", ValidityDays: 7, MinSpend: 10, Reasoning: "Motivo de visita en fecha señalada"},
	{ID: 5, Name: "Trae a un Amigo", Description: "5€ de descuento para ti y tu acompañante nuevo", Type: strategy.PrizeCashback, Value: "5€", ValidHours: "D-J todo el día", ValidityDays: 30, MinSpend: 20, Reasoning: "Captación por recomendación"},
}

var voucherPool = []strategy.Voucher{
	{ID: 1, Name: "Cheque Regalo 5€", ValueEuros: 5, ValidityDays: 30, Reasoning: "Cheque regalo sin gasto mínimo"},
	{ID: 2, Name: "Cheque Regalo 10€", ValueEuros: 10, ValidityDays: 30, Reasoning: "Regalo para clientes habituales"},
	{ID: 3, Name: "Cheque Regalo 20€", ValueEuros: 20, ValidityDays: 30, Reasoning: "Premio para embajadores de la marca"},
}

// escalating multipliers of the average ticket for the receipt-QR game
var receiptSpendFactors = [strategy.PrizesPerGame]float64{1.0, 1.2, 1.4, 1.6, 1.8, 2.0, 2.5}

var (
	loyaltyLevels   = []string{"Bronce: desde la primera visita", "Plata: 5 visitas al mes", "Oro: 10 visitas o 300€ acumulados"}
	loyaltyMissions = []string{"Visita 3 veces en un mes y gana un premio extra", "Prueba un producto nuevo de la carta"}
	vipRewards      = []string{"Reserva preferente", "Producto de regalo en cada visita Oro", "Invitación a eventos privados"}
	automations     = []string{
		"Mensaje de bienvenida tras la primera jugada",
		"Recordatorio del premio pendiente a los 7 días",
		"Solicitud de reseña tras la visita de canje",
		"Felicitación de cumpleaños con cupón",
	}
)

const (
	stampCardProduct = "Menú del día"
	welcomeGameName  = "Ruleta Estratégica"
	receiptGameName  = "Rasca del Ticket"
)

func stampCard() *strategy.LoyaltyCard {
	product := stampCardProduct
	return &strategy.LoyaltyCard{
		Type:            strategy.LoyaltyStamps,
		Name:            "Tarjeta Menú",
		Product:         &product,
		StampsForReward: 10,
		Reward:          "1 Menú gratis",
		Visibility:      "Solo consumidores",
		Delivery:        "Automática",
		Reasoning:       "Fideliza clientes de menú",
	}
}

func pointsCard() *strategy.LoyaltyCard {
	return &strategy.LoyaltyCard{
		Type:            strategy.LoyaltyPoints,
		Name:            "Club Puntos",
		PointsPerEuro:   1,
		PointsForReward: 100,
		Reward:          "5€ descuento",
		Visibility:      "General",
		Delivery:        "Camarero",
		Reasoning:       "Programa general de fidelización",
	}
}
