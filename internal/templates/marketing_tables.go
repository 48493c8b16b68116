package templates

import "omnia-service/internal/domain/strategy"

// Placeholders substituted into marketing copy.
const (
	phStarProduct = "{estrella}"
	phOffPeak     = "{valle}"
	phAdBudget    = "{presupuesto}"
)

const (
	defaultStarProduct   = "nuestro plato estrella"
	defaultOffPeakWindow = "L-M 15:00-19:00"
)

type marketingBundle struct {
	posts     []strategy.Post
	stories   []strategy.Story
	reels     []strategy.Reel
	campaigns []strategy.Campaign
	// ad budget when the profile has none configured
	adBudget float64
}

var marketingBundles = [...]marketingBundle{
	bundleNone:   {},
	bundleUpsell: {},

	bundleCapture: {
		posts: []strategy.Post{
			{Idea: "🎉 Lanzamiento Ruleta", Copy: "¡Juega y GANA en tu próxima visita! 🎯 Escanea el QR de tu mesa y participa en nuestra ruleta de premios. 100% de probabilidades de ganar algo 🎁 #GamificacionHosteleria", SuggestedVisual: "Video de ruleta girando con premios", BestSlot: "Lunes 12:00"},
			{Idea: "☕ Happy Hour", Copy: "¿Tarde aburrida? ¡No más! ☕ " + phOffPeak + ": 2x1 en cafés. El plan perfecto para esa reunión que llevas aplazando 💬", SuggestedVisual: "Foto de dos cafés con efecto gemelo", BestSlot: "Miércoles 14:00"},
		},
		stories: []strategy.Story{
			{Idea: "Encuesta de preferencias", Copy: "¿Qué prefieres? 🤔", Stickers: "Encuesta: " + phStarProduct + " vs Sugerencia del chef"},
			{Idea: "Cuenta atrás fin de semana", Copy: "¡Quedan X horas para el finde! 🎉", Stickers: "Cuenta atrás + Música"},
		},
		reels: []strategy.Reel{
			{Idea: "Behind the scenes", Script: "1. Mostrar cocina en acción 2. Ingredientes frescos 3. " + phStarProduct + " emplatado", Duration: "15-20 seg", Audio: "Trending de comida/cooking"},
			{Idea: "Cliente jugando ruleta", Script: "POV: Vienes a comer y te toca jugar la ruleta 🎰", Duration: "15 seg", Audio: "Audio viral de premio/sorpresa"},
		},
		campaigns: []strategy.Campaign{
			{Objective: "Captación", Audience: "Radio 5km, 25-45 años, intereses en gastronomía", Copy: "🎁 ¡Tu primera visita tiene premio SEGURO! Escanea, juega y gana.", SuggestedVisual: "Video corto de ruleta con efectos", SuggestedBudget: phAdBudget},
		},
		adBudget: 10,
	},

	bundleReviews: {
		posts: []strategy.Post{
			{Idea: "⭐ Tu Opinión nos Importa", Copy: "Gracias a clientes como María por sus palabras ❤️ \"El mejor servicio de la ciudad\". ¿Y tú, qué opinas de nosotros? Déjanos tu review y recibe una sorpresa 🎁", SuggestedVisual: "Diseño elegante con la reseña destacada", BestSlot: "Martes 10:00"},
			{Idea: "🏆 Empleado del Mes", Copy: "¡Felicidades a Juan! 👏👏 Mencionado en 15 reseñas este mes por su amabilidad. Ven a saludarle y comprueba por qué es el favorito.", SuggestedVisual: "Foto del empleado sonriendo", BestSlot: "Jueves 12:00"},
		},
		stories: []strategy.Story{
			{Idea: "Review destacada", Copy: "¡Nos alegráis el día! 😍", Stickers: "Link a Google Maps"},
			{Idea: "Pregunta abierta", Copy: "¿Qué mejorarías de nuestro servicio?", Stickers: "Cajita de preguntas"},
		},
		reels: []strategy.Reel{
			{Idea: "Leyendo reseñas bonitas", Script: "Staff reaccionando y agradeciendo reseñas reales en video", Duration: "30 seg", Audio: "Música emotiva"},
			{Idea: "Cómo dejar reseña", Script: "Tutorial rápido de cómo escanear QR y dejar 5 estrellas", Duration: "15 seg", Audio: "Voz en off explicativa"},
		},
		campaigns: []strategy.Campaign{
			{Objective: "Reputación", Audience: "Clientes recientes (retargeting)", Copy: "Tu opinión vale oro (y postre gratis). Cuéntanos tu experiencia.", SuggestedVisual: "Imagen de postre con 5 estrellas", SuggestedBudget: phAdBudget},
		},
		adBudget: 10,
	},

	bundleVirality: {
		posts: []strategy.Post{
			{Idea: "📸 Concurso Foto Más Original", Copy: "¡Sube tu foto más creativa con " + phStarProduct + " y GANA una cena para 2! 🎁 Usa #OmniaExperience y etiquétanos. ¡El más original gana! 🏆", SuggestedVisual: "Collage de fotos de clientes divirtiéndose", BestSlot: "Viernes 18:00"},
			{Idea: "👯 Etiqueta a tu Partner in Crime", Copy: "¿Con quién compartirías este postre? 🍰 Etiqueta a esa persona y si responde en 5 min... ¡te debe una cena! 😉", SuggestedVisual: "Video partiendo un postre con chocolate cayendo", BestSlot: "Miércoles 20:00"},
		},
		stories: []strategy.Story{
			{Idea: "Plantilla \"Tu Favorito\"", Copy: "Haz captura y rodea tus favoritos 🍕🍔🥗", Stickers: "Plantilla interactiva"},
			{Idea: "Reto del Chef", Copy: "¿Te atreves con nuestro reto picante? 🌶️", Stickers: "Encuesta: Sí/No"},
		},
		reels: []strategy.Reel{
			{Idea: "POV: Cuando llega la comida", Script: "Cara de felicidad extrema al ver llegar el camarero con " + phStarProduct, Duration: "10 seg", Audio: "Audio viral \"Heaven\""},
			{Idea: "Transition Challenge", Script: "Chasquido de dedos: Mesa vacía -> Mesa llena de comida", Duration: "15 seg", Audio: "Trending transition sound"},
		},
		campaigns: []strategy.Campaign{
			{Objective: "Alcance Viral", Audience: "Amigos de seguidores, 18-35 años", Copy: "🔥 Lo que todo el mundo está compartiendo. ¿Te lo vas a perder?", SuggestedVisual: "Video con cortes rápidos y música tendencia", SuggestedBudget: phAdBudget},
		},
		adBudget: 20,
	},
}

var offlineActions = []string{
	"Colocar QR en todas las mesas",
	"Formar al personal sobre la ruleta",
	"Imprimir flyers para zona cercana",
}

const weeklyCalendar = "Lunes: Post motivacional | Miércoles: Promo Happy Hour | Viernes: Producto estrella | Domingo: Resumen semana"
