package vanilla

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/render/template"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	chrome    render.Chrome
	actions   actions

	used      map[string]struct{}
	usedOrder []string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, chrome render.Chrome, acts actions) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		chrome:    chrome,
		actions:   acts,
		used:      make(map[string]struct{}),
	}
}

// render produces the label row, help bubble, and every widget of field.
func (r *componentRenderer) render(field engine.FieldView) (string, error) {
	ids := elementIDs(field.ID)
	if field.Plan.Primary == widgets.KindPhoto {
		ids["photo"] = ids["control"]
	}
	urls := r.actions.fieldURLs(field.ID)
	context := map[string]any{
		"ids":     ids,
		"urls":    urls,
		"options": r.options(field),
	}

	var controls strings.Builder
	for _, kind := range field.Plan.Kinds() {
		name := string(kind)
		descriptor, ok := r.registry.Descriptor(name)
		if !ok {
			return "", fmt.Errorf("component %q not registered for field %q", name, field.ID)
		}

		var buf bytes.Buffer
		data := components.ComponentData{
			Template: r.templates,
			Chrome:   r.chrome,
			Context:  context,
		}
		if err := descriptor.Renderer(&buf, field, data); err != nil {
			return "", fmt.Errorf("render component %q for field %q: %w", name, field.ID, err)
		}
		controls.Write(buf.Bytes())
		r.markUsed(name)
	}

	return r.templates.RenderTemplate("templates/field.tmpl", map[string]any{
		"field":     field,
		"chrome":    r.chrome,
		"classes":   chromeClasses(),
		"ids":       ids,
		"urls":      urls,
		"help_html": sanitizeHelpMarkup(field.HelpText),
		"controls":  controls.String(),
	})
}

func (r *componentRenderer) options(field engine.FieldView) []map[string]any {
	if field.Select == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(field.Select.Options))
	for _, opt := range field.Select.Options {
		out = append(out, map[string]any{
			"Key":      opt.Key,
			"Label":    opt.Label,
			"Selected": opt.Selected,
			"URL":      r.actions.option(field.ID, opt.Key),
		})
	}
	return out
}

func (r *componentRenderer) markUsed(name string) {
	if _, ok := r.used[name]; ok {
		return
	}
	r.used[name] = struct{}{}
	r.usedOrder = append(r.usedOrder, name)
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	return r.registry.Assets(r.usedOrder)
}
