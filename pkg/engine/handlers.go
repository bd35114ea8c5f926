package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formengine/pkg/state"
	"github.com/goliatone/go-formengine/pkg/widgets"
)

// DateTimeLayout is the layout of committed date-time values: ISO-8601 in UTC
// with millisecond precision.
const DateTimeLayout = "2006-01-02T15:04:05.000Z"

// dateTimeInputLayouts are accepted from picker text input and interpreted in
// the form's location unless they carry an offset.
var dateTimeInputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// SetText commits value for a text field.
func (f *Form) SetText(id, value string) error {
	field, err := f.lookup(id, widgets.KindText)
	if err != nil {
		return err
	}
	f.commit(field.Name, state.String(value))
	return nil
}

// SetInteger commits the integer parsed from raw. Unparseable input commits
// NaN, which fails the required check and encodes as null.
func (f *Form) SetInteger(id, raw string) error {
	field, err := f.lookup(id, widgets.KindInteger)
	if err != nil {
		return err
	}
	f.commit(field.Name, state.ParseInt(raw))
	return nil
}

// ToggleDropdown opens the dropdown of id, closing any other, or closes it if
// it is already open.
func (f *Form) ToggleDropdown(id string) error {
	if _, err := f.lookup(id, widgets.KindSelect); err != nil {
		return err
	}
	if f.open == id {
		f.open = ""
	} else {
		f.open = id
	}
	return nil
}

// SelectOption commits key for a select field and closes its dropdown.
func (f *Form) SelectOption(id, key string) error {
	field, err := f.lookup(id, widgets.KindSelect)
	if err != nil {
		return err
	}
	if !field.Options().Has(key) {
		return fmt.Errorf("%w: %q on field %q", ErrUnknownOption, key, id)
	}
	f.commit(field.Name, state.String(key))
	f.open = ""
	return nil
}

// SetDateTime commits t as an ISO-8601 UTC string. The zero time clears the
// value to "".
func (f *Form) SetDateTime(id string, t time.Time) error {
	field, err := f.lookup(id, widgets.KindDateTime)
	if err != nil {
		return err
	}
	f.commit(field.Name, state.String(FormatDateTime(t)))
	return nil
}

// SetDateTimeInput parses picker text input and commits it like SetDateTime.
// Blank input clears the value. Input that does not parse leaves state as is.
func (f *Form) SetDateTimeInput(id, raw string) error {
	if _, err := f.lookup(id, widgets.KindDateTime); err != nil {
		return err
	}
	t, err := ParseDateTime(raw, f.cfg.location)
	if err != nil {
		return err
	}
	return f.SetDateTime(id, t)
}

// ChoosePhoto records the chosen file name under the field's state key. An
// empty selection leaves state unchanged.
func (f *Form) ChoosePhoto(id string, file state.FileRef) error {
	field, err := f.lookup(id, widgets.KindPhoto)
	if err != nil {
		return err
	}
	if file.Name == "" {
		return nil
	}
	if file.ContentType != "" && !strings.HasPrefix(file.ContentType, "image/") {
		return fmt.Errorf("%w: %s", ErrUnsupportedMedia, file.ContentType)
	}
	f.commit(field.Name, state.File(file))
	return nil
}

// SetComment commits text under the field's comment key. Fields whose
// comment key is unset render the box but discard the input.
func (f *Form) SetComment(id, text string) error {
	field, err := f.lookup(id, widgets.KindComment)
	if err != nil {
		return err
	}
	if field.CommentFieldName == "" {
		return nil
	}
	f.commit(field.CommentFieldName, state.String(text))
	return nil
}

// ToggleHelp flips the help bubble of id.
func (f *Form) ToggleHelp(id string) error {
	if _, err := f.lookup(id, widgets.KindHelp); err != nil {
		return err
	}
	f.help[id] = !f.help[id]
	return nil
}

// HelpKey toggles the help bubble when key is Enter or Space and ignores
// every other key.
func (f *Form) HelpKey(id, key string) error {
	if _, err := f.lookup(id, widgets.KindHelp); err != nil {
		return err
	}
	if !IsActivationKey(key) {
		return nil
	}
	return f.ToggleHelp(id)
}

// IsActivationKey reports whether key activates a focused control.
func IsActivationKey(key string) bool {
	switch key {
	case "Enter", " ", "Space", "Spacebar":
		return true
	default:
		return false
	}
}

// FormatDateTime renders t in DateTimeLayout. The zero time renders "".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateTimeLayout)
}

// ParseDateTime reads picker input. Values without an offset are read in loc.
// Blank input returns the zero time.
func ParseDateTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeInputLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, raw)
}
