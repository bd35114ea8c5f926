package orchestrator

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, engine.View, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRenderers(t *testing.T) {
	set, err := NewRenderers(namedRenderer("vanilla"), namedRenderer("tui"))
	if err != nil {
		t.Fatalf("new renderers: %v", err)
	}

	if err := set.Add(namedRenderer("tui")); err == nil {
		t.Fatalf("expected duplicate name to fail")
	}
	if err := set.Add(namedRenderer("")); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := set.Add(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if _, err := NewRenderers(namedRenderer("a"), namedRenderer("a")); err == nil {
		t.Fatalf("expected constructor to reject duplicates")
	}

	if diff := cmp.Diff([]string{"tui", "vanilla"}, set.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, ok := set.Lookup("preact"); ok {
		t.Fatalf("expected unknown renderer to be missing")
	}
	if got, ok := set.Lookup("vanilla"); !ok || got.Name() != "vanilla" {
		t.Fatalf("unexpected lookup result %v, %v", got, ok)
	}
}

func TestRendererFor_FallsBackToFirstName(t *testing.T) {
	set, err := NewRenderers(namedRenderer("b"), namedRenderer("a"))
	if err != nil {
		t.Fatalf("new renderers: %v", err)
	}
	o := New(WithRenderers(set), WithDefaultRenderer("missing"))

	got, err := o.rendererFor("")
	if err != nil || got.Name() != "a" {
		t.Fatalf("expected fallback to %q, got %v, %v", "a", got, err)
	}
	if _, err := o.rendererFor("missing"); err == nil {
		t.Fatalf("expected explicit unknown renderer to fail")
	}
}
