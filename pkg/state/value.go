package state

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Kind enumerates the value variants a field can commit.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindNumber
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// FileRef is an opaque reference to a picked file. Only the name reaches the
// serialized payload; the content is never read.
type FileRef struct {
	Name        string
	ContentType string
	Size        int64
}

// Value is a committed field value: a string, an integer (possibly the
// not-a-number sentinel produced by a failed parse), or a file reference.
type Value struct {
	kind Kind
	str  string
	num  int64
	nan  bool
	file FileRef
}

// String builds a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int builds an integer value.
func Int(n int64) Value {
	return Value{kind: KindNumber, num: n}
}

// NaN builds the not-a-number sentinel committed when integer input cannot be
// parsed. It is falsy and serializes as JSON null.
func NaN() Value {
	return Value{kind: KindNumber, nan: true}
}

// File builds a file reference value.
func File(ref FileRef) Value {
	return Value{kind: KindFile, file: ref}
}

// ParseInt reads integer input the way a browser number field hands it over:
// leading whitespace and an optional sign are accepted, parsing stops at the
// first non-digit, and input without leading digits (including the empty
// string) yields NaN. Values outside the int64 range also yield NaN.
func ParseInt(raw string) Value {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return NaN()
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return NaN()
	}
	return Int(n)
}

// Kind reports the variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the zero Value (never committed).
func (v Value) IsZero() bool {
	return v.kind == 0
}

// Str returns the string payload when v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Int returns the integer payload. ok is false for non-numbers and NaN.
func (v Value) Int() (n int64, ok bool) {
	return v.num, v.kind == KindNumber && !v.nan
}

// IsNaN reports whether v is the not-a-number sentinel.
func (v Value) IsNaN() bool {
	return v.kind == KindNumber && v.nan
}

// File returns the file reference when v is a file.
func (v Value) File() (FileRef, bool) {
	return v.file, v.kind == KindFile
}

// Truthy applies the submission check: empty strings, zero, NaN, and unnamed
// files are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return !v.nan && v.num != 0
	case KindFile:
		return v.file.Name != ""
	default:
		return false
	}
}

// Display renders the value for re-populating an input control.
func (v Value) Display() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.nan {
			return ""
		}
		return strconv.FormatInt(v.num, 10)
	case KindFile:
		return v.file.Name
	default:
		return ""
	}
}

// Interface converts v into the plain Go value used in JSON payloads.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.nan {
			return nil
		}
		return v.num
	case KindFile:
		return v.file.Name
	default:
		return nil
	}
}

// MarshalJSON encodes strings and file names as JSON strings, integers as
// numbers, and NaN as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.Interface()); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
