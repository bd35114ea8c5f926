package render

// RenderOptions carry per-request data renderers use without touching the
// form itself.
type RenderOptions struct {
	// Fragment renders only the form body, without the page shell. The HTML
	// server uses it for htmx swaps.
	Fragment bool
	// BasePath prefixes every action URL the renderer emits.
	BasePath string
	// HiddenFields are sent with every request issued from inside the form.
	HiddenFields map[string]string
	// Subset limits rendering to some categories or fields.
	Subset FieldSubset
}
