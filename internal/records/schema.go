package records

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed record.schema.json
var recordSchema string

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// ValidationError lists every field of a record that broke the schema.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "record validation failed: " + strings.Join(parts, "; ")
}

// SchemaLoadError means the embedded schema itself could not be compiled.
type SchemaLoadError struct {
	Cause error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("load record schema: %v", e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
		if schemaErr != nil {
			schemaErr = &SchemaLoadError{Cause: schemaErr}
		}
	})
	return schema, schemaErr
}

// Validate checks a normalized row against the record schema. Schema
// violations come back as *ValidationError.
func Validate(row map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(row))
	if err != nil {
		return fmt.Errorf("validate record: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
