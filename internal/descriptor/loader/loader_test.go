package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formengine/pkg/descriptor"
)

const sampleJSON = `[
  {"fieldid":"f1","fieldName":"age","title":"Age","fieldType":"numberInt","category":"Basic","fieldOrder":1,"inputReq":1},
  {"fieldid":"f2","fieldName":"color","title":"Color","fieldType":"select","dropVals":"{\"r\":\"Red\",\"b\":\"Blue\"}","category":"Basic","fieldOrder":2}
]`

const sampleYAML = `
- fieldid: f1
  fieldName: age
  title: Age
  fieldType: numberInt
  category: Basic
  fieldOrder: 1
  inputReq: 1
- fieldid: f2
  fieldName: color
  title: Color
  fieldType: select
  dropVals:
    r: Red
    b: Blue
  category: Basic
  fieldOrder: 2
`

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formSpec.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(descriptor.NewLoaderOptions()).Load(context.Background(), descriptor.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", doc.Len())
	}
	field, ok := doc.Field("f2")
	if !ok {
		t.Fatalf("expected field f2")
	}
	if got := field.Options().Keys(); len(got) != 2 || got[0] != "r" || got[1] != "b" {
		t.Fatalf("unexpected option keys %v", got)
	}
}

func TestLoader_FSYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"specs/form.yaml": &fstest.MapFile{Data: []byte(sampleYAML)},
	}

	l := New(descriptor.NewLoaderOptions(descriptor.WithFileSystem(fsys)))
	doc, err := l.Load(context.Background(), descriptor.SourceFromFS("specs/form.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	age, _ := doc.Field("f1")
	if !age.Required || age.Type != descriptor.FieldTypeInteger {
		t.Fatalf("unexpected age descriptor %+v", age)
	}
	color, _ := doc.Field("f2")
	if label, _ := color.Options().Label("b"); label != "Blue" {
		t.Fatalf("expected Blue label, got %q", label)
	}
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	disabled := New(descriptor.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), descriptor.SourceFromURL(srv.URL)); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	l := New(descriptor.NewLoaderOptions(descriptor.WithHTTPClient(srv.Client())))
	doc, err := l.Load(context.Background(), descriptor.SourceFromURL(srv.URL+"/formSpec.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", doc.Len())
	}
}

func TestLoader_RejectsUnknownKinds(t *testing.T) {
	l := New(descriptor.NewLoaderOptions())
	if _, err := l.Load(context.Background(), descriptor.SourceInline("memory")); err == nil {
		t.Fatalf("expected inline sources to be rejected")
	}
	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected nil source to be rejected")
	}
}
