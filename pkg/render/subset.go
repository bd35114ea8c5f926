package render

import (
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
)

// FieldSubset selects the parts of a form to render. Categories match
// section names and Fields match descriptor ids; both are case-insensitive.
// A field is kept when either list matches it.
type FieldSubset struct {
	Categories []string
	Fields     []string
}

// Empty reports whether the subset selects everything.
func (s FieldSubset) Empty() bool {
	return len(normalizeList(s.Categories)) == 0 && len(normalizeList(s.Fields)) == 0
}

// ApplySubset drops the fields and sections the subset does not select.
// Sections left without fields are removed.
func ApplySubset(view *engine.View, subset FieldSubset) {
	if view == nil || subset.Empty() {
		return
	}

	categories := toSet(subset.Categories)
	fields := toSet(subset.Fields)

	kept := view.Sections[:0:0]
	for _, section := range view.Sections {
		if _, ok := categories[normalize(section.Category)]; ok {
			kept = append(kept, section)
			continue
		}
		filtered := make([]engine.FieldView, 0, len(section.Fields))
		for _, field := range section.Fields {
			if _, ok := fields[normalize(field.ID)]; ok {
				filtered = append(filtered, field)
			}
		}
		if len(filtered) == 0 {
			continue
		}
		section.Fields = filtered
		kept = append(kept, section)
	}
	view.Sections = kept
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, value := range normalizeList(values) {
		out[value] = struct{}{}
	}
	return out
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if v := normalize(value); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
