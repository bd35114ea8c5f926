package descriptor

import (
	"errors"
	"fmt"
)

// Document is a validated, ordered collection of descriptors and its origin.
type Document struct {
	source Source
	fields []Descriptor
	index  map[string]int
}

// NewDocument validates the descriptor invariants (non-empty unique ids,
// non-empty names, known types) and wraps the fields. The slice is copied.
func NewDocument(src Source, fields []Descriptor) (Document, error) {
	if src == nil {
		return Document{}, errors.New("descriptor: source is required")
	}

	clone := append([]Descriptor(nil), fields...)
	index := make(map[string]int, len(clone))
	for i, field := range clone {
		if field.ID == "" {
			return Document{}, fmt.Errorf("%w (position %d)", ErrFieldIDMissing, i)
		}
		if _, exists := index[field.ID]; exists {
			return Document{}, fmt.Errorf("%w: %q", ErrFieldIDDuplicate, field.ID)
		}
		if field.Name == "" {
			return Document{}, fmt.Errorf("%w: field %q", ErrFieldNameMissing, field.ID)
		}
		if !field.Type.Valid() {
			return Document{}, fmt.Errorf("%w: field %q: %q", ErrUnknownFieldType, field.ID, field.Type)
		}
		index[field.ID] = i
	}

	return Document{source: src, fields: clone, index: index}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, fields []Descriptor) Document {
	doc, err := NewDocument(src, fields)
	if err != nil {
		panic(err)
	}
	return doc
}

// Decode parses raw bytes (JSON or YAML, detected from the source location)
// into a validated Document.
func Decode(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("descriptor: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("descriptor: raw document is empty")
	}
	fields, err := DecodeFields(raw, DetectFormat(src.Location(), raw))
	if err != nil {
		return Document{}, err
	}
	return NewDocument(src, fields)
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Fields returns a copy of the descriptors in document order.
func (d Document) Fields() []Descriptor {
	return append([]Descriptor(nil), d.fields...)
}

// Len reports the number of descriptors.
func (d Document) Len() int {
	return len(d.fields)
}

// Field looks up a descriptor by id.
func (d Document) Field(id string) (Descriptor, bool) {
	pos, ok := d.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return d.fields[pos], true
}

// Groups partitions the document by category (see GroupByCategory).
func (d Document) Groups() []Group {
	return GroupByCategory(d.fields)
}

// Required returns the descriptors flagged inputReq, in document order.
func (d Document) Required() []Descriptor {
	var out []Descriptor
	for _, field := range d.fields {
		if field.Required {
			out = append(out, field)
		}
	}
	return out
}
