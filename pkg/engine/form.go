package engine

import (
	"fmt"

	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/events"
	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// DefaultTitle is the form heading used when WithTitle is not supplied.
const DefaultTitle = "Form Generator"

// Form is one instance of a descriptor document bound to its state.
type Form struct {
	doc    descriptor.Document
	groups []descriptor.Group
	cfg    config

	mounted bool
	release func()

	values     state.State
	open       string
	help       map[string]bool
	missing    *MissingFieldsError
	showResult bool
}

// New builds a Form over doc. The form holds no state until it is mounted.
func New(doc descriptor.Document, opts ...Option) *Form {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.title == "" {
		cfg.title = DefaultTitle
	}
	return &Form{
		doc:    doc,
		groups: doc.Groups(),
		cfg:    cfg,
	}
}

// Document returns the descriptor document the form was built from.
func (f *Form) Document() descriptor.Document {
	return f.doc
}

// Mount creates empty state and registers the outside-click listener on
// target. A nil target mounts the form without the listener.
func (f *Form) Mount(target *events.Document) error {
	if f.mounted {
		return ErrAlreadyMounted
	}

	f.values = state.New()
	f.open = ""
	f.help = make(map[string]bool)
	f.missing = nil
	f.showResult = false

	if f.cfg.applyDefaults {
		f.applyDefaults()
	}

	if target != nil {
		f.release = target.OnPointerDown(f.pointerDown)
	}
	f.mounted = true
	return nil
}

// Unmount drops state and UI state and releases the document listener. It is
// safe to call on a form that is not mounted.
func (f *Form) Unmount() {
	if f.release != nil {
		f.release()
		f.release = nil
	}
	f.mounted = false
	f.values = state.New()
	f.open = ""
	f.help = nil
	f.missing = nil
	f.showResult = false
}

// Mounted reports whether the form currently holds live state.
func (f *Form) Mounted() bool {
	return f.mounted
}

// State returns the committed values.
func (f *Form) State() state.State {
	return f.values
}

// OpenDropdown returns the id of the open dropdown, or "" when none is open.
func (f *Form) OpenDropdown() string {
	return f.open
}

// HelpVisible reports whether the help bubble of field id is shown.
func (f *Form) HelpVisible(id string) bool {
	return f.help[id]
}

// Missing returns the error recorded by the last failed submit, if any.
func (f *Form) Missing() *MissingFieldsError {
	return f.missing
}

// ResultVisible reports whether the JSON payload panel is shown.
func (f *Form) ResultVisible() bool {
	return f.showResult
}

func (f *Form) applyDefaults() {
	for _, field := range f.doc.Fields() {
		if field.DefaultValue == "" {
			continue
		}
		switch field.Type {
		case descriptor.FieldTypeInteger:
			f.values = f.values.Set(field.Name, state.ParseInt(field.DefaultValue))
		case descriptor.FieldTypePhoto:
			f.values = f.values.Set(field.Name, state.File(state.FileRef{Name: field.DefaultValue}))
		default:
			f.values = f.values.Set(field.Name, state.String(field.DefaultValue))
		}
	}
}

// pointerDown closes the open dropdown when the pointer lands outside every
// dropdown container the form renders.
func (f *Form) pointerDown(ev events.PointerEvent) {
	if f.open == "" {
		return
	}
	for _, id := range ev.Containers {
		if field, ok := f.doc.Field(id); ok && field.Type == descriptor.FieldTypeSelect {
			return
		}
	}
	f.open = ""
}

func (f *Form) lookup(id string, kind widgets.Kind) (descriptor.Descriptor, error) {
	if !f.mounted {
		return descriptor.Descriptor{}, ErrNotMounted
	}
	field, ok := f.doc.Field(id)
	if !ok {
		return descriptor.Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	if !widgets.For(field).Has(kind) {
		return descriptor.Descriptor{}, fmt.Errorf("%w: field %q has no %s widget", ErrNoWidget, id, kind)
	}
	return field, nil
}

func (f *Form) commit(key string, value state.Value) {
	f.values = f.values.Set(key, value)
}
