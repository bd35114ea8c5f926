// Package widgets maps a descriptor onto the set of widgets it renders. The
// mapping is a single switch over the closed descriptor.FieldType set; adding
// a type means adding a case here and a Kind below.
package widgets

import (
	"fmt"

	"github.com/goliatone/go-formengine/pkg/descriptor"
)

// Kind identifies one interactive widget.
type Kind string

const (
	KindText     Kind = "text"
	KindInteger  Kind = "integer"
	KindSelect   Kind = "select"
	KindDateTime Kind = "datetime"
	KindPhoto    Kind = "photo"
	KindComment  Kind = "comment"
	KindHelp     Kind = "help"
)

// Plan lists the widgets one descriptor renders. Primary is the widget chosen
// by the declared type; Photo, Comment, and Help mark the auxiliary widgets.
// A photo-typed descriptor has Primary == KindPhoto and Photo set, and still
// renders a single picker.
type Plan struct {
	Primary  Kind
	Photo    bool
	Comment  bool
	Help     bool
	Required bool
}

// For builds the widget plan for d. It panics on a type outside the closed
// set; documents are validated on load so this indicates a programming error.
func For(d descriptor.Descriptor) Plan {
	plan, err := Resolve(d)
	if err != nil {
		panic(err)
	}
	return plan
}

// Resolve builds the widget plan for d, reporting unknown types as an error.
func Resolve(d descriptor.Descriptor) (Plan, error) {
	var primary Kind
	switch d.Type {
	case descriptor.FieldTypeText:
		primary = KindText
	case descriptor.FieldTypeInteger:
		primary = KindInteger
	case descriptor.FieldTypeSelect:
		primary = KindSelect
	case descriptor.FieldTypeDateTime:
		primary = KindDateTime
	case descriptor.FieldTypePhoto:
		primary = KindPhoto
	default:
		return Plan{}, fmt.Errorf("widgets: %w: %q", descriptor.ErrUnknownFieldType, d.Type)
	}

	return Plan{
		Primary:  primary,
		Photo:    d.NeedsPhoto(),
		Comment:  d.CommentEnabled,
		Help:     d.HasHelp(),
		Required: d.Required,
	}, nil
}

// Has reports whether the plan includes a widget of the given kind.
func (p Plan) Has(kind Kind) bool {
	switch kind {
	case KindPhoto:
		return p.Photo
	case KindComment:
		return p.Comment
	case KindHelp:
		return p.Help
	default:
		return p.Primary == kind && kind != ""
	}
}

// Kinds lists the interactive widgets in render order: the primary widget,
// the photo picker, then the comment box. The help affordance belongs to the
// label and is not listed.
func (p Plan) Kinds() []Kind {
	var out []Kind
	if p.Primary != "" && p.Primary != KindPhoto {
		out = append(out, p.Primary)
	}
	if p.Photo {
		out = append(out, KindPhoto)
	}
	if p.Comment {
		out = append(out, KindComment)
	}
	return out
}
