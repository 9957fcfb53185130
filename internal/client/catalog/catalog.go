// Package catalog holds the authoritative content dataset shipped with the
// client: service listings, FAQs, testimonials and the translation tables.
package catalog

import (
	"embed"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/dmitrijs2005/relief/internal/client/models"
)

//go:embed locales/*.yaml
var localeFS embed.FS

var services = []models.ServiceRecord{
	{ID: "individual", Color: "sky", Duration: "50 min", Category: "therapy", Rating: 4.9, ReviewCount: 128},
	{ID: "couples", Color: "rose", Duration: "75 min", Category: "counseling", Rating: 4.8, ReviewCount: 74},
	{ID: "family", Color: "amber", Duration: "90 min", Category: "therapy", Rating: 4.7, ReviewCount: 51},
	{ID: "child", Color: "emerald", Duration: "45 min", Category: "therapy", Rating: 4.9, ReviewCount: 39},
	{ID: "trauma", Color: "violet", Duration: "60 min", Category: "therapy", Rating: 4.8, ReviewCount: 62},
	{ID: "training", Color: "indigo", Duration: "3 h", Category: "training", Rating: 4.6, ReviewCount: 18},
}

var faqs = []models.FAQ{
	{ID: 1, Question: "faq.q1", Answer: "faq.a1"},
	{ID: 2, Question: "faq.q2", Answer: "faq.a2"},
	{ID: 3, Question: "faq.q3", Answer: "faq.a3"},
	{ID: 4, Question: "faq.q4", Answer: "faq.a4"},
}

var testimonials = []models.Testimonial{
	{ID: 1, Quote: "testimonials.t1.quote", Author: "testimonials.t1.author"},
	{ID: 2, Quote: "testimonials.t2.quote", Author: "testimonials.t2.author"},
	{ID: 3, Quote: "testimonials.t3.quote", Author: "testimonials.t3.author"},
}

var loadTranslations = sync.OnceValues(func() (models.Translations, error) {
	return LoadLocales(localeFS, "locales", models.Languages)
})

// Bundled returns a fresh copy of the dataset compiled into the binary.
// Callers may modify the result freely.
func Bundled() *models.ContentBundle {
	tr, err := loadTranslations()
	if err != nil {
		// embedded locales are validated by tests; a failure here is a build defect
		panic(fmt.Sprintf("catalog: %v", err))
	}

	copied := make(models.Translations, len(tr))
	for lang, table := range tr {
		copied[lang] = maps.Clone(table)
	}

	return &models.ContentBundle{
		Services:     slices.Clone(services),
		FAQs:         slices.Clone(faqs),
		Testimonials: slices.Clone(testimonials),
		Translations: copied,
		Source:       models.SourceBundled,
	}
}
