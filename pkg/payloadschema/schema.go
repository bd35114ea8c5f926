// Package payloadschema describes the JSON a form submits as an OpenAPI 3
// schema, and validates payloads against it. The schema is what the /schema
// endpoint publishes and what the CLI checks stored payloads with.
package payloadschema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formengine/pkg/descriptor"
)

// DateTimePattern matches committed date-time values.
const DateTimePattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`

// Build derives the payload schema of doc. Required fields must be present;
// unknown keys are rejected.
func Build(doc descriptor.Document) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	if src := doc.Source(); src != nil {
		schema.Title = src.Location()
	}
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: openapi3.BoolPtr(false)}

	required := make(map[string]bool)
	for _, field := range doc.Fields() {
		prop := fieldSchema(field)
		prop.Title = field.Title
		if field.HelpText != "" {
			prop.Description = field.HelpText
		}
		if existing, ok := schema.Properties[field.Name]; ok && existing.Value != nil {
			prop = openapi3.NewAnyOfSchema(existing.Value, prop)
		}
		schema.WithProperty(field.Name, prop)

		if field.CommentEnabled && field.CommentFieldName != "" {
			comment := openapi3.NewStringSchema()
			comment.Title = field.Title + " comment"
			if existing, ok := schema.Properties[field.CommentFieldName]; ok && existing.Value != nil {
				comment = openapi3.NewAnyOfSchema(existing.Value, comment)
			}
			schema.WithProperty(field.CommentFieldName, comment)
		}

		if field.Required && !required[field.Name] {
			required[field.Name] = true
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema
}

func fieldSchema(field descriptor.Descriptor) *openapi3.Schema {
	var primary *openapi3.Schema
	switch field.Type {
	case descriptor.FieldTypeInteger:
		primary = openapi3.NewIntegerSchema()
		if !field.Required {
			primary.WithNullable()
		}
	case descriptor.FieldTypeSelect:
		primary = openapi3.NewStringSchema()
		if keys := field.Options().Keys(); len(keys) > 0 {
			values := make([]any, 0, len(keys))
			for _, key := range keys {
				values = append(values, key)
			}
			primary.WithEnum(values...)
		}
	case descriptor.FieldTypeDateTime:
		primary = openapi3.NewStringSchema()
		if field.Required {
			primary.WithPattern(DateTimePattern)
		} else {
			primary.WithPattern(`^$|` + DateTimePattern)
		}
	default:
		primary = openapi3.NewStringSchema()
		if field.Required {
			primary.WithMinLength(1)
		}
	}

	if field.Type != descriptor.FieldTypePhoto && field.RequiresPhoto {
		photo := openapi3.NewStringSchema()
		photo.Description = "file name"
		return openapi3.NewAnyOfSchema(primary, photo)
	}
	return primary
}

// Validate checks a JSON payload against schema.
func Validate(schema *openapi3.Schema, payload []byte) error {
	if schema == nil {
		return fmt.Errorf("payloadschema: schema is required")
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	var value any
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("payloadschema: decode payload: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("payloadschema: trailing data after payload")
	}
	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("payloadschema: %w", err)
	}
	return nil
}

// Marshal renders schema as indented JSON.
func Marshal(schema *openapi3.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return nil, fmt.Errorf("payloadschema: encode schema: %w", err)
	}
	return buf.Bytes(), nil
}
