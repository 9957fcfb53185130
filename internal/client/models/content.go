// Package models defines the client-side data shared by the Relief services:
// the content bundle, the session user, reset tickets and form submissions.
package models

// Language is a supported UI language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageAmharic Language = "am"
)

// Languages lists the supported languages in display order.
var Languages = []Language{LanguageEnglish, LanguageAmharic}

// Source tells where a ContentBundle was built from.
type Source string

const (
	SourceBundled Source = "bundled"
	SourceCache   Source = "cache"
)

// ServiceRecord is the language-neutral part of a service listing. Names and
// descriptions live in the translations under service.<id>.*.
type ServiceRecord struct {
	ID          string  `json:"id"`
	Color       string  `json:"color"`
	Duration    string  `json:"duration"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// FAQ holds translation keys for one question/answer pair.
type FAQ struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Testimonial holds translation keys for one quote.
type Testimonial struct {
	ID     int    `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// Translations maps a language to its flattened dotted-key table.
type Translations map[Language]map[string]string

// ContentBundle is an immutable snapshot served to the UI. It is always built
// entirely from one Source.
type ContentBundle struct {
	Services     []ServiceRecord
	FAQs         []FAQ
	Testimonials []Testimonial
	Translations Translations
	Source       Source
}

// Service looks a service up by id.
func (b *ContentBundle) Service(id string) (ServiceRecord, bool) {
	for _, s := range b.Services {
		if s.ID == id {
			return s, true
		}
	}
	return ServiceRecord{}, false
}
