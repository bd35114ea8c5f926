package state

import (
	"bytes"
	"encoding/json"
	"sort"
)

// State is the aggregated record of committed field values keyed by state
// key. It is immutable: Set returns a new State and leaves the receiver
// untouched, so rapid edits to one key never disturb another.
type State struct {
	values map[string]Value
}

// New returns an empty State.
func New() State {
	return State{}
}

// Set returns a copy of s with key mapped to value. Every other key is kept.
// Setting an empty string keeps the key; nothing is ever removed implicitly.
func (s State) Set(key string, value Value) State {
	next := make(map[string]Value, len(s.values)+1)
	for k, v := range s.values {
		next[k] = v
	}
	next[key] = value
	return State{values: next}
}

// Get returns the value committed under key.
func (s State) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key has been committed.
func (s State) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Truthy reports whether key holds a truthy value. Absent keys are falsy.
func (s State) Truthy(key string) bool {
	v, ok := s.values[key]
	return ok && v.Truthy()
}

// Len reports how many keys have been committed.
func (s State) Len() int {
	return len(s.values)
}

// Keys returns the committed keys sorted lexically.
func (s State) Keys() []string {
	if len(s.values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map converts the state into plain Go values (see Value.Interface).
func (s State) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v.Interface()
	}
	return out
}

// MarshalJSON encodes the state as a JSON object with sorted keys.
func (s State) MarshalJSON() ([]byte, error) {
	if len(s.values) == 0 {
		return []byte("{}"), nil
	}
	return encode(s.values, "")
}

// Pretty renders the state as a JSON document indented with two spaces. HTML
// characters are left unescaped so the document reads as typed.
func (s State) Pretty() (string, error) {
	if len(s.values) == 0 {
		return "{}", nil
	}
	out, err := encode(s.values, "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func encode(values map[string]Value, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(values); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
