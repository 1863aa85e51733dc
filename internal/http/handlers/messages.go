package handlers

// copyDeck holds the localized page copy. Provider error messages are
// surfaced verbatim and never translated.
type copyDeck struct {
	Title            string
	Subtitle         string
	KeyLabel         string
	KeyPlaceholder   string
	KeyHelp          string
	TopicLabel       string
	TopicPlaceholder string
	SubmitLabel      string
	PendingNote      string
	FillNote         string
	EmptyNote        string
	ResultHeading    string
	CaptionPrefix    string
	DownloadLabel    string
	PromptHeading    string
	SettingsHeading  string
	ExamplesHeading  string
	ExamplesBody     string
	PrivacyNote      string
	ErrorHeading     string
}

var copyDecks = map[string]copyDeck{
	"en": {
		Title:            "Mandala Art Generator",
		Subtitle:         "Transform any word into a beautiful black and white mandala using AI",
		KeyLabel:         "Enter your OpenAI API Key:",
		KeyPlaceholder:   "sk-...",
		KeyHelp:          "Get your API key from platform.openai.com/api-keys. It is never stored and is only used for this generation.",
		TopicLabel:       "Enter a word that inspires you:",
		TopicPlaceholder: "e.g., peace, love, nature, wisdom, strength...",
		SubmitLabel:      "Generate Mandala",
		PendingNote:      "Creating your mandala... This may take a few moments.",
		FillNote:         "Please enter both your API key and inspiration word to generate a mandala.",
		EmptyNote:        "Enter your API key and inspiration word, then generate your artwork.",
		ResultHeading:    "Your Mandala",
		CaptionPrefix:    "Mandala inspired by",
		DownloadLabel:    "Download Mandala",
		PromptHeading:    "View AI prompt used",
		SettingsHeading:  "Generation settings",
		ExamplesHeading:  "Example inspirations",
		ExamplesBody:     "Peace, Nature, Wisdom, Love, Strength",
		PrivacyNote:      "Privacy note: your API key is never stored and is only used temporarily for image generation.",
		ErrorHeading:     "Error generating image",
	},
	"es": {
		Title:            "Generador de Mandalas",
		Subtitle:         "Transforma cualquier palabra en un hermoso mandala en blanco y negro con IA",
		KeyLabel:         "Introduce tu clave de API de OpenAI:",
		KeyPlaceholder:   "sk-...",
		KeyHelp:          "Obtén tu clave en platform.openai.com/api-keys. Nunca se guarda y solo se usa para esta generación.",
		TopicLabel:       "Escribe una palabra que te inspire:",
		TopicPlaceholder: "p. ej., paz, amor, naturaleza, sabiduría, fuerza...",
		SubmitLabel:      "Generar Mandala",
		PendingNote:      "Creando tu mandala... Esto puede tardar unos momentos.",
		FillNote:         "Introduce tu clave de API y una palabra de inspiración para generar un mandala.",
		EmptyNote:        "Introduce tu clave de API y una palabra de inspiración, luego genera tu obra.",
		ResultHeading:    "Tu Mandala",
		CaptionPrefix:    "Mandala inspirado en",
		DownloadLabel:    "Descargar Mandala",
		PromptHeading:    "Ver el prompt de IA utilizado",
		SettingsHeading:  "Ajustes de generación",
		ExamplesHeading:  "Ejemplos de inspiración",
		ExamplesBody:     "Paz, Naturaleza, Sabiduría, Amor, Fuerza",
		PrivacyNote:      "Nota de privacidad: tu clave de API nunca se guarda y solo se usa temporalmente para generar la imagen.",
		ErrorHeading:     "Error al generar la imagen",
	},
}

func copyFor(locale string) copyDeck {
	if deck, ok := copyDecks[locale]; ok {
		return deck
	}
	return copyDecks["en"]
}
