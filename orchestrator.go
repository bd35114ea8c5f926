package formengine

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/orchestrator"
	"github.com/goliatone/go-formengine/pkg/render"
)

// RenderOptions describes per-request overrides such as hidden fields, a field
// subset, or a locale.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for callers rendering only some
// categories or fields.
type FieldSubset = render.FieldSubset

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads source and renders the initial form with the named
// renderer (vanilla when empty).
func GenerateHTML(ctx context.Context, source descriptor.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromDocument renders an already decoded document.
func GenerateHTMLFromDocument(ctx context.Context, doc descriptor.Document, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Document: &doc,
		Renderer: rendererName,
	})
}
