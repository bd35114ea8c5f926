package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formengine/pkg/engine"
)

// Transformer rewrites a view before rendering. Implementations can relabel
// fields or swap help text without touching the descriptor document.
type Transformer interface {
	Transform(ctx context.Context, view *engine.View) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, view *engine.View) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, view *engine.View) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, view)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are keyed by descriptor id:
//
//	{
//	  "title": "Site Survey",
//	  "categories": {"General": "About you"},
//	  "fields": {
//	    "f-name": {"title": "Your name", "helpText": "As on your badge"}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title      string                 `json:"title"`
	Categories map[string]string      `json:"categories"`
	Fields     map[string]fieldPreset `json:"fields"`
}

type fieldPreset struct {
	Title    string `json:"title"`
	HelpText string `json:"helpText"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the presets. A preset naming a field the view does not
// hold is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, view *engine.View) error {
	if view == nil {
		return errors.New("json preset transformer: view is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		view.Title = t.document.Title
	}

	seen := make(map[string]bool, len(t.document.Fields))
	for si := range view.Sections {
		section := &view.Sections[si]
		if label, ok := t.document.Categories[section.Category]; ok && label != "" {
			section.Category = label
		}
		for fi := range section.Fields {
			field := &section.Fields[fi]
			preset, ok := t.document.Fields[field.ID]
			if !ok {
				continue
			}
			seen[field.ID] = true
			if preset.Title != "" {
				field.Title = preset.Title
			}
			if preset.HelpText != "" {
				field.HelpText = preset.HelpText
			}
		}
	}

	for id := range t.document.Fields {
		if !seen[id] {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
	}
	return nil
}
