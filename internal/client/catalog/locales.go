package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/dmitrijs2005/relief/internal/client/models"
	"gopkg.in/yaml.v3"
)

// LoadLocales reads <dir>/<lang>.yaml for every language from fsys and
// flattens each nested document into dotted keys.
func LoadLocales(fsys fs.FS, dir string, langs []models.Language) (models.Translations, error) {
	out := make(models.Translations, len(langs))
	for _, lang := range langs {
		raw, err := fs.ReadFile(fsys, path.Join(dir, string(lang)+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}

		out[lang] = Flatten(doc)
	}
	return out, nil
}

// Flatten turns a nested map into a single-level map keyed by dotted paths.
// Scalar leaves are formatted with fmt.Sprint.
func Flatten(doc map[string]any) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]string, prefix string, node map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flattenInto(out, key, val)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// MissingKeys lists keys present in ref but absent from other, sorted.
func MissingKeys(ref, other map[string]string) []string {
	var missing []string
	for k := range ref {
		if _, ok := other[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}
