package descriptor

import "errors"

var (
	// ErrUnknownFieldType is returned when a document declares a fieldType
	// outside the supported set.
	ErrUnknownFieldType = errors.New("descriptor: unknown field type")
	// ErrFieldIDMissing flags a descriptor without a fieldid.
	ErrFieldIDMissing = errors.New("descriptor: field id is required")
	// ErrFieldIDDuplicate flags two descriptors sharing a fieldid.
	ErrFieldIDDuplicate = errors.New("descriptor: duplicate field id")
	// ErrFieldNameMissing flags a descriptor without a state key.
	ErrFieldNameMissing = errors.New("descriptor: field name is required")
	// ErrMalformedOptions is reported by ParseOptions when dropVals cannot be
	// read as an object of key/label pairs.
	ErrMalformedOptions = errors.New("descriptor: malformed options")
)
