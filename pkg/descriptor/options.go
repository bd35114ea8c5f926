package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Option is one selectable entry of a select field.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Options preserves the order in which keys appear in the serialized object.
type Options []Option

// Label returns the display label for key.
func (o Options) Label(key string) (string, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Label, true
		}
	}
	return "", false
}

// Has reports whether key is one of the options.
func (o Options) Has(key string) bool {
	_, ok := o.Label(key)
	return ok
}

// Keys returns the option keys in order.
func (o Options) Keys() []string {
	if len(o) == 0 {
		return nil
	}
	keys := make([]string, 0, len(o))
	for _, opt := range o {
		keys = append(keys, opt.Key)
	}
	return keys
}

// ParseOptions reads a serialized JSON object of key -> label pairs. Empty
// input yields an empty set without error. Malformed input yields an empty set
// and an error wrapping ErrMalformedOptions; callers rendering a form are
// expected to ignore the error and degrade to no options. Non-string labels
// keep their JSON text; a repeated key keeps its first position and its last
// label.
func ParseOptions(raw string) (Options, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Options{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrMalformedOptions, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return Options{}, fmt.Errorf("%w: expected object", ErrMalformedOptions)
	}

	out := Options{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Options{}, fmt.Errorf("%w: %v", ErrMalformedOptions, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Options{}, fmt.Errorf("%w: expected string key", ErrMalformedOptions)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Options{}, fmt.Errorf("%w: option %q: %v", ErrMalformedOptions, key, err)
		}
		label := labelFromRaw(value)

		if pos, exists := index[key]; exists {
			out[pos].Label = label
			continue
		}
		index[key] = len(out)
		out = append(out, Option{Key: key, Label: label})
	}

	if tok, err := dec.Token(); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrMalformedOptions, err)
	} else if delim, ok := tok.(json.Delim); !ok || delim != '}' {
		return Options{}, fmt.Errorf("%w: expected end of object", ErrMalformedOptions)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: trailing data", ErrMalformedOptions)
	}

	return out, nil
}

func labelFromRaw(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// EncodeOptions serializes options back into the `dropVals` object form,
// preserving order.
func EncodeOptions(opts Options) string {
	if len(opts) == 0 {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range opts {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(opt.Key)
		label, _ := json.Marshal(opt.Label)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(label)
	}
	buf.WriteByte('}')
	return buf.String()
}
