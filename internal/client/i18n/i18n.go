// Package i18n resolves translation keys against the currently published
// content bundle.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/common"
	"golang.org/x/text/language"
)

// BundleSource yields the bundle translations are read from. It may return
// nil before content has been loaded.
type BundleSource interface {
	Current() *models.ContentBundle
}

type Translator struct {
	source BundleSource
}

func NewTranslator(source BundleSource) *Translator {
	return &Translator{source: source}
}

// T returns the string for key in lang with every {{name}} placeholder
// replaced. Unknown keys resolve to the key itself.
func (t *Translator) T(lang models.Language, key string, replacements map[string]string) string {
	s := key
	if b := t.source.Current(); b != nil {
		if v, ok := b.Translations[lang][key]; ok {
			s = v
		}
	}
	return Interpolate(s, replacements)
}

// Interpolate substitutes {{name}} placeholders. Names are applied in sorted
// order so the result does not depend on map iteration.
func Interpolate(s string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return s
	}
	names := make([]string, 0, len(replacements))
	for k := range replacements {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		s = strings.ReplaceAll(s, "{{"+k+"}}", replacements[k])
	}
	return s
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Amharic})

// MatchLanguage picks the closest supported language for a BCP 47 tag, an
// Accept-Language list or a POSIX locale such as am_ET.UTF-8. English is the
// default.
func MatchLanguage(tag string) models.Language {
	tag = strings.TrimSpace(tag)
	// Only a single POSIX locale carries a codeset; lists use '.' in q-values.
	if !strings.ContainsAny(tag, ",;") {
		if i := strings.IndexByte(tag, '.'); i >= 0 {
			tag = tag[:i]
		}
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if tag == "" || strings.EqualFold(tag, "C") || strings.EqualFold(tag, "POSIX") {
		return models.LanguageEnglish
	}

	_, idx := language.MatchStrings(matcher, tag)
	if idx < 0 || idx >= len(models.Languages) {
		return models.LanguageEnglish
	}
	return models.Languages[idx]
}

// ParseLanguage accepts only the exact supported codes.
func ParseLanguage(s string) (models.Language, error) {
	l := models.Language(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range models.Languages {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported language %q", common.ErrValidation, s)
}
