package descriptor

import (
	"fmt"
	"strings"
)

// FieldType is the closed set of widget kinds a descriptor can declare. The
// string values match the `fieldType` keys used by spec documents.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeInteger  FieldType = "numberInt"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypePhoto    FieldType = "photo"
)

// FieldTypes lists every supported type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeInteger,
		FieldTypeSelect,
		FieldTypeDateTime,
		FieldTypePhoto,
	}
}

// ParseFieldType resolves a raw `fieldType` value. Canonical names
// ("integer", "single-select", "date-time") are accepted as aliases.
func ParseFieldType(raw string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text":
		return FieldTypeText, nil
	case "numberint", "integer", "int":
		return FieldTypeInteger, nil
	case "select", "single-select":
		return FieldTypeSelect, nil
	case "datetime", "date-time":
		return FieldTypeDateTime, nil
	case "photo":
		return FieldTypePhoto, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, raw)
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeInteger, FieldTypeSelect, FieldTypeDateTime, FieldTypePhoto:
		return true
	default:
		return false
	}
}

// Descriptor describes one form field: how it renders, where its value is
// stored, and whether a value is mandatory before submission.
type Descriptor struct {
	ID       string    `json:"fieldid"`
	Name     string    `json:"fieldName"`
	Title    string    `json:"title"`
	HelpText string    `json:"helpText,omitempty"`
	Type     FieldType `json:"fieldType"`
	// DefaultValue is declared by documents but only applied to state when the
	// form opts in (see engine.WithDefaultValues).
	DefaultValue string `json:"defautVal,omitempty"`
	// RawOptions keeps the serialized option object for select fields. Use
	// Options to obtain the parsed, ordered form.
	RawOptions       string `json:"dropVals,omitempty"`
	Category         string `json:"category"`
	Order            int    `json:"fieldOrder"`
	RequiresPhoto    bool   `json:"requiresPhoto,omitempty"`
	CommentEnabled   bool   `json:"commentField,omitempty"`
	CommentFieldName string `json:"commentFieldName,omitempty"`
	Required         bool   `json:"inputReq,omitempty"`
}

// Options parses RawOptions. Malformed content yields an empty option set.
func (d Descriptor) Options() Options {
	opts, _ := ParseOptions(d.RawOptions)
	return opts
}

// HasHelp reports whether a help bubble should render for the field.
func (d Descriptor) HasHelp() bool {
	return strings.TrimSpace(d.HelpText) != ""
}

// NeedsPhoto reports whether the photo picker renders for the field. The
// predicate covers both photo-typed fields and fields flagged requiresPhoto so
// a single picker instance serves either case.
func (d Descriptor) NeedsPhoto() bool {
	return d.Type == FieldTypePhoto || d.RequiresPhoto
}

// StateKeys returns the state keys the descriptor may write to.
func (d Descriptor) StateKeys() []string {
	keys := []string{d.Name}
	if d.CommentEnabled && d.CommentFieldName != "" {
		keys = append(keys, d.CommentFieldName)
	}
	return keys
}
