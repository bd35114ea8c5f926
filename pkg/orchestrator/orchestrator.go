package orchestrator

import (
	"context"
	"errors"
	"fmt"

	internalLoader "github.com/goliatone/go-formengine/internal/descriptor/loader"
	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom descriptor loader.
func WithLoader(loader descriptor.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRenderers replaces the renderers requests can select from.
func WithRenderers(renderers *Renderers) Option {
	return func(o *Orchestrator) {
		o.renderers = renderers
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithFormOptions forwards options to every form the orchestrator builds.
func WithFormOptions(options ...engine.Option) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, options...)
	}
}

// WithViewTransformer registers a Transformer that rewrites the view before it
// reaches the renderer.
func WithViewTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator coordinates the pipeline from descriptor document to rendered
// output. Missing dependencies default to the built-in loader and the vanilla
// renderer.
type Orchestrator struct {
	loader          descriptor.Loader
	renderers       *Renderers
	defaultRenderer string
	formOptions     []engine.Option
	transformer     Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source identifies where the descriptor document lives. Optional when
	// Document is supplied.
	Source descriptor.Source

	// Document allows callers to bypass the loader when they already hold a
	// decoded document.
	Document *descriptor.Document

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request instructions such as hidden fields,
	// a field subset, or a locale.
	RenderOptions render.RenderOptions
}

// Generate loads the document, mounts a fresh form, and renders its initial
// view. The form is unmounted before returning.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	form := engine.New(doc, o.formOptions...)
	if err := form.Mount(nil); err != nil {
		return nil, fmt.Errorf("orchestrator: mount form: %w", err)
	}
	defer form.Unmount()

	view := form.View()
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &view); err != nil {
			return nil, fmt.Errorf("orchestrator: transform view: %w", err)
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, view, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (descriptor.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return descriptor.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return descriptor.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.renderers == nil {
		return nil, errors.New("orchestrator: renderer set is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if renderer, ok := o.renderers.Lookup(target); ok {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q not found", name)
	}

	names := o.renderers.Names()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, _ := o.renderers.Lookup(names[0])
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = internalLoader.New(descriptor.NewLoaderOptions())
	}
	if o.renderers == nil {
		o.renderers = &Renderers{}
		renderer, err := vanilla.New()
		if err == nil {
			err = o.renderers.Add(renderer)
		}
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
