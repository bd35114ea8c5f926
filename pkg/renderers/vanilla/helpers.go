package vanilla

import (
	"net/url"
	"strings"
)

func controlID(fieldID string) string {
	trimmed := strings.TrimSpace(fieldID)
	if trimmed == "" {
		return ""
	}
	return "fg-" + trimmed
}

func elementIDs(fieldID string) map[string]string {
	base := controlID(fieldID)
	return map[string]string{
		"control": base,
		"label":   base + "-label",
		"help":    base + "-help",
		"listbox": base + "-listbox",
		"photo":   base + "-photo",
		"comment": base + "-comment",
	}
}

// actions builds the endpoint URLs the HTML server routes.
type actions struct {
	base string
}

func newActions(base string) actions {
	return actions{base: strings.TrimRight(strings.TrimSpace(base), "/")}
}

func (a actions) path(parts ...string) string {
	var b strings.Builder
	b.WriteString(a.base)
	for _, part := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(part))
	}
	return b.String()
}

func (a actions) field(id, action string) string {
	return a.path("form", "fields", id, action)
}

func (a actions) option(id, key string) string {
	return a.path("form", "fields", id, "options", key)
}

func (a actions) fieldURLs(id string) map[string]string {
	return map[string]string{
		"value":    a.field(id, "value"),
		"comment":  a.field(id, "comment"),
		"photo":    a.field(id, "photo"),
		"dropdown": a.field(id, "dropdown"),
		"help":     a.field(id, "help"),
	}
}

func (a actions) pageURLs() map[string]string {
	return map[string]string{
		"form":        a.path("form"),
		"submit":      a.path("form", "submit"),
		"pointerdown": a.path("form", "pointerdown"),
		"assets":      a.path("assets"),
	}
}
