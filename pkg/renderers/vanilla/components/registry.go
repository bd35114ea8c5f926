package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-formengine/pkg/engine"
	"github.com/goliatone/go-formengine/pkg/render"
	rendertemplate "github.com/goliatone/go-formengine/pkg/render/template"
)

// Renderer writes the markup of one widget for field into buf.
type Renderer func(buf *bytes.Buffer, field engine.FieldView, data ComponentData) error

// ComponentData carries the template engine plus the per-field values the
// vanilla renderer computes (element ids, action URLs, option rows).
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	Chrome   render.Chrome
	Context  map[string]any
}

// Script describes a JavaScript dependency emitted once per page.
type Script struct {
	Src    string
	Inline string
	Defer  bool
}

// Descriptor bundles the renderer implementation with any asset dependencies.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

// Registry tracks component descriptors keyed by name.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Descriptor),
	}
}

// Clone returns a deep copy of the registry to allow isolated mutations.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		cloned.components[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.components[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Names returns a sorted slice of registered component names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Assets resolves the deduplicated stylesheets and scripts for names, in the
// order names lists them.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	if len(names) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seenStyles := make(map[string]struct{})
	seenScripts := make(map[string]struct{})

	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seenStyles[href]; exists {
				continue
			}
			seenStyles[href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
		for _, script := range descriptor.Scripts {
			key := scriptKey(script)
			if _, exists := seenScripts[key]; exists {
				continue
			}
			seenScripts[key] = struct{}{}
			scripts = append(scripts, script)
		}
	}
	return stylesheets, scripts
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:        src.Name,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
		Scripts:     slices.Clone(src.Scripts),
	}
}

func scriptKey(script Script) string {
	if script.Src != "" {
		return "src:" + script.Src
	}
	return "inline:" + script.Inline
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
