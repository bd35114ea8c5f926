// Package vanilla renders forms as server-driven HTML. Every interaction is an
// htmx request back to the form server, which re-renders the affected part.
package vanilla

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	rendertemplate "github.com/goliatone/go-formengine/pkg/render/template"
	gotemplate "github.com/goliatone/go-formengine/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla/components"
)

// DefaultHTMXSource is the htmx build the page shell loads.
const DefaultHTMXSource = "https://unpkg.com/htmx.org@1.9.12"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	htmxSource       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the widget components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithHTMXSource overrides the htmx script URL.
func WithHTMXSource(src string) Option {
	return func(cfg *config) {
		if src = strings.TrimSpace(src); src != "" {
			cfg.htmxSource = src
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	registry   *components.Registry
	htmxSource string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), htmxSource: DefaultHTMXSource}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		tmplEngine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = tmplEngine
	}

	return &Renderer{templates: renderer, registry: cfg.registry, htmxSource: cfg.htmxSource}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full page, or only the form element when
// options.Fragment is set.
func (r *Renderer) Render(ctx context.Context, view engine.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	chrome := render.DefaultChrome(view.Title)
	render.ApplySubset(&view, options.Subset)
	acts := newActions(options.BasePath)

	fields := newComponentRenderer(r.templates, r.registry, chrome, acts)
	body, err := r.renderForm(view, chrome, acts, fields, options)
	if err != nil {
		return nil, err
	}
	if options.Fragment {
		return []byte(body), nil
	}

	stylesheets, scripts := fields.assets()
	return r.renderPage(chrome, acts, body, stylesheets, scripts, options)
}

// RenderResult produces only the JSON result panel, used after value edits.
func (r *Renderer) RenderResult(ctx context.Context, view engine.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chrome := render.DefaultChrome(view.Title)
	out, err := r.renderResult(view, chrome)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// RenderLanding produces the welcome page linking to the form.
func (r *Renderer) RenderLanding(ctx context.Context, title string, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chrome := render.DefaultChrome(title)
	acts := newActions(options.BasePath)

	body, err := r.templates.RenderTemplate("templates/landing.tmpl", map[string]any{
		"chrome":  chrome,
		"classes": chromeClasses(),
		"urls":    acts.pageURLs(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render landing: %w", err)
	}
	return r.renderPage(chrome, acts, body, nil, nil, options)
}

func (r *Renderer) renderForm(view engine.View, chrome render.Chrome, acts actions, fields *componentRenderer, options render.RenderOptions) (string, error) {
	sections := make([]map[string]any, 0, len(view.Sections))
	for _, section := range view.Sections {
		rendered := make([]string, 0, len(section.Fields))
		for _, field := range section.Fields {
			markup, err := fields.render(field)
			if err != nil {
				return "", fmt.Errorf("vanilla renderer: %w", err)
			}
			rendered = append(rendered, markup)
		}
		sections = append(sections, map[string]any{
			"Category": section.Category,
			"Fields":   rendered,
		})
	}

	result, err := r.renderResult(view, chrome)
	if err != nil {
		return "", err
	}
	hidden, err := hiddenValues(options.HiddenFields)
	if err != nil {
		return "", err
	}

	out, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"chrome":   chrome,
		"classes":  chromeClasses(),
		"urls":     acts.pageURLs(),
		"sections": sections,
		"error":    view.Error,
		"result":   result,
		"hidden":   hidden,
		"open":     openDropdown(view),
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	return out, nil
}

func (r *Renderer) renderResult(view engine.View, chrome render.Chrome) (string, error) {
	out, err := r.templates.RenderTemplate("templates/result.tmpl", map[string]any{
		"chrome":      chrome,
		"classes":     chromeClasses(),
		"show_result": view.ShowResult,
		"result":      view.Result,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render result: %w", err)
	}
	return out, nil
}

func (r *Renderer) renderPage(chrome render.Chrome, acts actions, body string, stylesheets []string, scripts []components.Script, options render.RenderOptions) ([]byte, error) {
	urls := acts.pageURLs()
	resolved := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		entry := map[string]any{"Inline": script.Inline, "Defer": script.Defer}
		if script.Src != "" {
			entry["Src"] = urls["assets"] + "/" + script.Src
		}
		resolved = append(resolved, entry)
	}

	out, err := r.templates.RenderTemplate("templates/page.tmpl", map[string]any{
		"chrome":      chrome,
		"classes":     chromeClasses(),
		"stylesheet":  defaultStylesheet(),
		"stylesheets": stylesheets,
		"scripts":     resolved,
		"htmx":        r.htmxSource,
		"body":        body,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(out), nil
}

func hiddenValues(fields map[string]string) (string, error) {
	sorted := render.SortedHiddenFields(fields)
	if len(sorted) == 0 {
		return "", nil
	}
	values := make(map[string]string, len(sorted))
	for _, field := range sorted {
		values[field.Name] = field.Value
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: encode hidden fields: %w", err)
	}
	return string(raw), nil
}

func openDropdown(view engine.View) string {
	for _, section := range view.Sections {
		for _, field := range section.Fields {
			if field.Select != nil && field.Select.Open {
				return field.ID
			}
		}
	}
	return ""
}
