package orchestrator

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/goliatone/go-formengine/pkg/render"
)

// Renderers is the set of output formats an Orchestrator can produce, keyed
// by Renderer.Name.
type Renderers struct {
	mu     sync.RWMutex
	byName map[string]render.Renderer
}

// NewRenderers builds a set holding renderers. Names must be unique.
func NewRenderers(renderers ...render.Renderer) (*Renderers, error) {
	set := &Renderers{byName: make(map[string]render.Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := set.Add(renderer); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Add makes renderer selectable by its name.
func (s *Renderers) Add(renderer render.Renderer) error {
	if renderer == nil {
		return fmt.Errorf("orchestrator: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("orchestrator: renderer name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byName == nil {
		s.byName = make(map[string]render.Renderer)
	}
	if _, taken := s.byName[name]; taken {
		return fmt.Errorf("orchestrator: renderer %q already added", name)
	}
	s.byName[name] = renderer
	return nil
}

// Lookup returns the renderer called name.
func (s *Renderers) Lookup(name string) (render.Renderer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	renderer, ok := s.byName[name]
	return renderer, ok
}

// Names lists the renderer names in lexical order.
func (s *Renderers) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.byName))
}
