package models

import "strings"

// Language describes one supported target language.
type Language struct {
	// ID is the stable lower-case identifier (also the BCP 47 base tag).
	ID string `json:"id"`
	// Name is the English display name.
	Name string `json:"name"`
	// Code is the upper-case code exchanged with providers.
	Code string `json:"code"`
}

var (
	English    = Language{ID: "en", Name: "English", Code: "EN"}
	Portuguese = Language{ID: "pt", Name: "Portuguese", Code: "PT"}
	German     = Language{ID: "de", Name: "German", Code: "DE"}
	French     = Language{ID: "fr", Name: "French", Code: "FR"}
	Spanish    = Language{ID: "es", Name: "Spanish", Code: "ES"}
	Italian    = Language{ID: "it", Name: "Italian", Code: "IT"}
	Japanese   = Language{ID: "ja", Name: "Japanese", Code: "JA"}
)

// Languages is the catalog of every language providers may return.
var Languages = []Language{English, Portuguese, German, French, Spanish, Italian, Japanese}

// PresetLanguages are the default translation targets.
var PresetLanguages = []Language{Portuguese, English, German}

// LookupLanguage finds a catalog entry by code or id, ignoring case.
func LookupLanguage(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	for _, l := range Languages {
		if strings.EqualFold(l.Code, code) || strings.EqualFold(l.ID, code) {
			return l, true
		}
	}
	return Language{}, false
}

// ParseLanguages resolves a list of codes against the catalog.
func ParseLanguages(codes []string) ([]Language, error) {
	out := make([]Language, 0, len(codes))
	for _, c := range codes {
		l, ok := LookupLanguage(c)
		if !ok {
			return nil, unknownValue("language", c)
		}
		out = append(out, l)
	}
	return out, nil
}

// LanguageCodes returns the provider codes of the given languages.
func LanguageCodes(langs []Language) []string {
	codes := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = l.Code
	}
	return codes
}
