package engine

import (
	"github.com/goliatone/go-formengine/pkg/descriptor"
	"github.com/goliatone/go-formengine/pkg/state"
)

// Submission is the payload produced by a successful submit.
type Submission struct {
	JSON  string
	State state.State
}

// MissingRequired returns the titles of the required fields in doc that hold
// no truthy value, in document order.
func MissingRequired(doc descriptor.Document, values state.State) []string {
	var titles []string
	for _, field := range doc.Fields() {
		if field.Required && !values.Truthy(field.Name) {
			titles = append(titles, field.Title)
		}
	}
	return titles
}

// Submit validates required fields. On failure it records and returns a
// *MissingFieldsError and hides any earlier payload. On success it clears the
// error, shows the payload, and returns the indented JSON of the state.
// Submitting again without edits yields the same outcome.
func (f *Form) Submit() (Submission, error) {
	if !f.mounted {
		return Submission{}, ErrNotMounted
	}

	if titles := MissingRequired(f.doc, f.values); len(titles) > 0 {
		f.missing = &MissingFieldsError{Titles: titles}
		f.showResult = false
		return Submission{}, f.missing
	}

	payload, err := f.values.Pretty()
	if err != nil {
		return Submission{}, err
	}
	f.missing = nil
	f.showResult = true
	return Submission{JSON: payload, State: f.values}, nil
}
