package components

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/goliatone/go-formengine/pkg/engine"
)

const (
	templatePrefix = "templates/components/"

	// DropdownScript is the runtime asset that reports outside clicks while
	// a dropdown is open.
	DropdownScript = "formengine-dropdown.js"
)

// NewDefaultRegistry constructs a registry pre-populated with one template
// component per widget kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameText, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "text.tmpl"),
	})
	registry.MustRegister(NameInteger, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "integer.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "select.tmpl"),
		Scripts:  []Script{{Src: DropdownScript, Defer: true}},
	})
	registry.MustRegister(NameDateTime, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "datetime.tmpl"),
	})
	registry.MustRegister(NamePhoto, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "photo.tmpl"),
	})
	registry.MustRegister(NameComment, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "comment.tmpl"),
	})

	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field engine.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		payload := make(map[string]any, len(data.Context)+2)
		maps.Copy(payload, data.Context)
		payload["field"] = field
		payload["chrome"] = data.Chrome

		rendered, err := data.Template.RenderTemplate(templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
