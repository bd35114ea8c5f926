// Package formengine turns field descriptor documents into interactive forms
// and assembles what the user enters into JSON payloads.
//
// The facade wires the loader, engine, and renderers together; the packages
// under pkg/ can be used on their own.
package formengine

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	internalLoader "github.com/goliatone/go-formengine/internal/descriptor/loader"
	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...descriptor.LoaderOption) descriptor.Loader {
	cfg := descriptor.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// ParseSource maps a path or http(s) URL onto a descriptor source. Blank input
// yields nil.
func ParseSource(raw string) descriptor.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return descriptor.SourceFromURL(path)
	}
	return descriptor.SourceFromFile(path)
}

// LoadDocument resolves raw with ParseSource and loads it.
func LoadDocument(ctx context.Context, raw string, options ...descriptor.LoaderOption) (descriptor.Document, error) {
	src := ParseSource(raw)
	if src == nil {
		return descriptor.Document{}, errors.New("formengine: document source is required")
	}
	return NewLoader(options...).Load(ctx, src)
}

// NewForm builds an unmounted form for doc.
func NewForm(doc descriptor.Document, options ...engine.Option) *engine.Form {
	return engine.New(doc, options...)
}

// RenderHTML renders the current view of form with the vanilla renderer.
func RenderHTML(ctx context.Context, form *engine.Form, options render.RenderOptions) ([]byte, error) {
	if form == nil {
		return nil, errors.New("formengine: form is required")
	}
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, form.View(), options)
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet and dropdown script the vanilla markup
// references.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formengine.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
