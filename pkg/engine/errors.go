package engine

import (
	"errors"
	"strings"
)

var (
	ErrNotMounted       = errors.New("engine: form is not mounted")
	ErrAlreadyMounted   = errors.New("engine: form is already mounted")
	ErrUnknownField     = errors.New("engine: unknown field")
	ErrNoWidget         = errors.New("engine: field does not render this widget")
	ErrUnknownOption    = errors.New("engine: option not offered by field")
	ErrInvalidDateTime  = errors.New("engine: invalid date-time input")
	ErrUnsupportedMedia = errors.New("engine: photo must be an image")
)

// MissingFieldsMessagePrefix starts every required-field error message.
const MissingFieldsMessagePrefix = "Please fill in the required field(s): "

// MissingFieldsError reports the required fields that held no truthy value at
// submit time. Titles follow document order.
type MissingFieldsError struct {
	Titles []string
}

func (e *MissingFieldsError) Error() string {
	return MissingFieldsMessagePrefix + strings.Join(e.Titles, ", ")
}
