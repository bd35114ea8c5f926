package components

import (
	"bytes"
	"testing"

	"github.com/goliatone/go-formengine/pkg/engine"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field engine.FieldView, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field engine.FieldView, data ComponentData) error { return nil }

	reg.MustRegister("text", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/input.css"},
		Scripts:     []Script{{Src: "/shared.js"}},
	})
	reg.MustRegister("select", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/select.css"},
		Scripts:     []Script{{Src: "/shared.js"}, {Src: "/select.js"}},
	})

	styles, scripts := reg.Assets([]string{"text", "select", "missing"})
	if len(styles) != 3 || styles[0] != "/shared.css" || styles[2] != "/select.css" {
		t.Fatalf("unexpected stylesheets: %v", styles)
	}
	if len(scripts) != 2 || scripts[1].Src != "/select.js" {
		t.Fatalf("unexpected scripts: %v", scripts)
	}
}

func TestDefaultRegistryCoversWidgetKinds(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, name := range []string{NameText, NameInteger, NameSelect, NameDateTime, NamePhoto, NameComment} {
		if _, ok := reg.Descriptor(name); !ok {
			t.Fatalf("default registry missing %q", name)
		}
	}
	if reg.Clone().Names()[0] != NameComment {
		t.Fatalf("expected sorted names, got %v", reg.Names())
	}
}
