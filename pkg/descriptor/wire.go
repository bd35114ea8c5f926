package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a spec document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat guesses the encoding from the source location and, failing
// that, from the first significant byte of the payload.
func DetectFormat(location string, raw []byte) Format {
	lower := strings.ToLower(location)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	if strings.HasSuffix(lower, ".json") {
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatYAML
}

// wireRecord mirrors one entry of a spec document as authored. Flags accept
// 0/1 as well as booleans.
type wireRecord struct {
	ID               string       `json:"fieldid" yaml:"fieldid"`
	Name             string       `json:"fieldName" yaml:"fieldName"`
	Title            string       `json:"title" yaml:"title"`
	HelpText         string       `json:"helpText" yaml:"helpText"`
	FieldType        string       `json:"fieldType" yaml:"fieldType"`
	DefaultValue     scalarString `json:"defautVal" yaml:"defautVal"`
	DefaultAlias     scalarString `json:"defaultValue" yaml:"defaultValue"`
	Options          rawOptions   `json:"dropVals" yaml:"dropVals"`
	Category         string       `json:"category" yaml:"category"`
	Order            int          `json:"fieldOrder" yaml:"fieldOrder"`
	RequiresPhoto    flag         `json:"requiresPhoto" yaml:"requiresPhoto"`
	CommentField     flag         `json:"commentField" yaml:"commentField"`
	CommentFieldName string       `json:"commentFieldName" yaml:"commentFieldName"`
	InputReq         flag         `json:"inputReq" yaml:"inputReq"`
}

func (w wireRecord) descriptor() (Descriptor, error) {
	fieldType, err := ParseFieldType(w.FieldType)
	if err != nil {
		return Descriptor{}, fmt.Errorf("field %q: %w", w.ID, err)
	}
	def := string(w.DefaultValue)
	if def == "" {
		def = string(w.DefaultAlias)
	}
	return Descriptor{
		ID:               strings.TrimSpace(w.ID),
		Name:             strings.TrimSpace(w.Name),
		Title:            w.Title,
		HelpText:         w.HelpText,
		Type:             fieldType,
		DefaultValue:     def,
		RawOptions:       string(w.Options),
		Category:         w.Category,
		Order:            w.Order,
		RequiresPhoto:    bool(w.RequiresPhoto),
		CommentEnabled:   bool(w.CommentField),
		CommentFieldName: strings.TrimSpace(w.CommentFieldName),
		Required:         bool(w.InputReq),
	}, nil
}

// DecodeFields parses the raw payload into descriptors without validating the
// document-level invariants; NewDocument performs those checks.
func DecodeFields(raw []byte, format Format) ([]Descriptor, error) {
	var records []wireRecord
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("descriptor: decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("descriptor: decode json: %w", err)
		}
	}

	fields := make([]Descriptor, 0, len(records))
	for _, record := range records {
		field, err := record.descriptor()
		if err != nil {
			return nil, fmt.Errorf("descriptor: %w", err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	value, err := parseFlag(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if err != nil {
		return err
	}
	*f = flag(value)
	return nil
}

func (f *flag) UnmarshalYAML(node *yaml.Node) error {
	value, err := parseFlag(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*f = flag(value)
	return nil
}

func parseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "null", "~":
		return false, nil
	case "1", "true":
		return true, nil
	default:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n != 0, nil
		}
		return false, fmt.Errorf("descriptor: invalid flag value %q", raw)
	}
}

// scalarString accepts strings and bare scalars (numbers, booleans).
type scalarString string

func (s *scalarString) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = scalarString(text)
		return nil
	}
	if string(data) == "null" {
		*s = ""
		return nil
	}
	*s = scalarString(strings.TrimSpace(string(data)))
	return nil
}

func (s *scalarString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("descriptor: line %d: default value must be a scalar", node.Line)
	}
	*s = scalarString(node.Value)
	return nil
}

// rawOptions holds the `dropVals` object as serialized JSON text. Documents may
// supply it as a string (the authored form) or inline as an object/mapping;
// both keep their key order.
type rawOptions string

func (o *rawOptions) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || string(trimmed) == "null":
		*o = ""
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*o = rawOptions(text)
	default:
		*o = rawOptions(trimmed)
	}
	return nil
}

func (o *rawOptions) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*o = rawOptions(node.Value)
	case yaml.MappingNode:
		opts := make(Options, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			opts = append(opts, Option{
				Key:   node.Content[i].Value,
				Label: node.Content[i+1].Value,
			})
		}
		*o = rawOptions(EncodeOptions(opts))
	default:
		*o = ""
	}
	return nil
}
