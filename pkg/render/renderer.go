// Package render defines the renderer contract shared by the HTML and
// terminal front ends, plus the helpers they have in common: chrome strings,
// localisation, category subsets, and hidden inputs.
package render

import (
	"context"

	"github.com/goliatone/go-formengine/pkg/engine"
)

// Renderer converts a form view into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view engine.View, options RenderOptions) ([]byte, error)
}
