package search

import (
	"golang.org/x/text/language"
)

// Messages holds the user-facing text for each failure category
type Messages struct {
	Auth      string
	RateLimit string
	Generic   string
	NoResults string
	Searching string
}

// For returns the message for a category.
// Transport and unexpected failures share the generic message.
func (m Messages) For(c Category) string {
	switch c {
	case CategoryAuth:
		return m.Auth
	case CategoryRateLimit:
		return m.RateLimit
	default:
		return m.Generic
	}
}

var (
	// EnglishMessages is the default catalogue
	EnglishMessages = Messages{
		Auth:      "Invalid or missing API token.",
		RateLimit: "Rate limit exceeded. Please retry later.",
		Generic:   "Could not complete the search.",
		NoResults: "No results.",
		Searching: "Searching…",
	}

	// SpanishMessages is used for Spanish locales
	SpanishMessages = Messages{
		Auth:      "Token inválido o faltante.",
		RateLimit: "Límite de peticiones alcanzado. Intenta más tarde.",
		Generic:   "No se pudo buscar películas.",
		NoResults: "No hay resultados.",
		Searching: "Buscando…",
	}
)

var (
	catalogueTags = []language.Tag{language.English, language.Spanish}
	catalogues    = []Messages{EnglishMessages, SpanishMessages}
	matcher       = language.NewMatcher(catalogueTags)
)

// MessagesFor picks the catalogue that best matches a locale code such as "es-ES".
// Unknown or malformed codes fall back to English.
func MessagesFor(locale string) Messages {
	tag, err := language.Parse(locale)
	if err != nil {
		return EnglishMessages
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return EnglishMessages
	}
	return catalogues[index]
}
