// Package schemas provides JSON Schema validation for job payload documents.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed job_payload.schema.json
var jobPayloadSchema string

// ValidationError represents a schema validation failure with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "payload validation failed: " + strings.Join(msgs, "; ")
}

// ValidateJobPayload validates a raw payload_json document against the
// job payload schema. This runs at job creation time, before the payload
// is decoded into its typed form, so malformed payloads are rejected
// while the job is still being enqueued rather than when it runs.
func ValidateJobPayload(document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(jobPayloadSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ValidationError{Errors: []FieldError{
			{Field: "payload_json", Message: err.Error()},
		}}
	}

	if result.Valid() {
		return nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   resultErr.Field(),
			Message: resultErr.Description(),
		})
	}
	return &ValidationError{Errors: fieldErrors}
}
