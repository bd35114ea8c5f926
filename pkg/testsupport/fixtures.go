package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/goliatone/go-formengine/pkg/descriptor"
)

// ExampleDocumentJSON is the two-field document used in end-to-end tests: a
// required integer "age" and a single-select "color".
const ExampleDocumentJSON = `[
  {"fieldid": "age", "fieldName": "age", "title": "age", "fieldType": "numberInt",
   "category": "Basic", "fieldOrder": 1, "inputReq": 1},
  {"fieldid": "color", "fieldName": "color", "title": "color", "fieldType": "single-select",
   "dropVals": "{\"r\":\"Red\",\"b\":\"Blue\"}", "category": "Basic", "fieldOrder": 2}
]`

// SampleDocumentJSON exercises every widget: help text, comments with and
// without a key, photo via type and via flag, and two categories.
const SampleDocumentJSON = `[
  {"fieldid": "f-name", "fieldName": "inspector", "title": "Inspector", "fieldType": "text",
   "helpText": "Full name of the <b>inspector</b>", "category": "General", "fieldOrder": 1, "inputReq": 1},
  {"fieldid": "f-units", "fieldName": "units", "title": "Units", "fieldType": "numberInt",
   "category": "General", "fieldOrder": 2, "commentField": 1, "commentFieldName": "unitsNote"},
  {"fieldid": "f-when", "fieldName": "visitedAt", "title": "Visited", "fieldType": "datetime",
   "category": "General", "fieldOrder": 3, "inputReq": 1},
  {"fieldid": "f-cond", "fieldName": "condition", "title": "Condition", "fieldType": "select",
   "dropVals": "{\"g\":\"Good\",\"f\":\"Fair\",\"p\":\"Poor\"}", "category": "Site",
   "fieldOrder": 1, "requiresPhoto": 1, "commentField": 1, "helpText": "Overall state"},
  {"fieldid": "f-pic", "fieldName": "sitePhoto", "title": "Site photo", "fieldType": "photo",
   "category": "Site", "fieldOrder": 2}
]`

// ExampleDocument decodes ExampleDocumentJSON.
func ExampleDocument(t testing.TB) descriptor.Document {
	t.Helper()
	return MustDecode(t, "example.json", ExampleDocumentJSON)
}

// SampleDocument decodes SampleDocumentJSON.
func SampleDocument(t testing.TB) descriptor.Document {
	t.Helper()
	return MustDecode(t, "sample.json", SampleDocumentJSON)
}

// MustDecode builds a document from inline content.
func MustDecode(t testing.TB, name, raw string) descriptor.Document {
	t.Helper()

	doc, err := descriptor.Decode(descriptor.SourceInline(name), []byte(raw))
	if err != nil {
		t.Fatalf("decode document %s: %v", name, err)
	}
	return doc
}

// LoadDocument reads a fixture file and builds a descriptor document.
func LoadDocument(t testing.TB, path string) descriptor.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (descriptor.Document, error) {
	if path == "" {
		return descriptor.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return descriptor.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := descriptor.Decode(descriptor.SourceFromFile(path), data)
	if err != nil {
		return descriptor.Document{}, fmt.Errorf("testsupport: decode document: %w", err)
	}
	return doc, nil
}

// MustUnmarshalJSON parses payload into a generic map.
func MustUnmarshalJSON(t testing.TB, payload string) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		t.Fatalf("unmarshal payload: %v\n%s", err, payload)
	}
	return out
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureRenderOutput executes a render function that writes to an io.Writer,
// returning both the returned bytes and the writer contents.
func CaptureRenderOutput(t testing.TB, render func(io.Writer) ([]byte, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	return string(out), buf.String()
}
