package schemas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJobPayload_Valid(t *testing.T) {
	err := ValidateJobPayload([]byte(`{"document_id": "c6b1f0f2-7d42-4f9a-8f0f-1c2d3e4f5a6b"}`))
	assert.NoError(t, err)
}

func TestValidateJobPayload_MissingDocumentID(t *testing.T) {
	err := ValidateJobPayload([]byte(`{}`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.NotEmpty(t, validationErr.Errors)
	assert.Contains(t, validationErr.Error(), "document_id")
}

func TestValidateJobPayload_WrongType(t *testing.T) {
	err := ValidateJobPayload([]byte(`{"document_id": 42}`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateJobPayload_UnknownField(t *testing.T) {
	err := ValidateJobPayload([]byte(`{"document_id": "c6b1f0f2-7d42-4f9a-8f0f-1c2d3e4f5a6b", "extra": true}`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateJobPayload_NotAnObject(t *testing.T) {
	for _, document := range []string{`"text"`, `[1, 2]`, `null`, `17`} {
		err := ValidateJobPayload([]byte(document))
		assert.Error(t, err, "document=%s", document)
	}
}

func TestValidateJobPayload_MalformedJSON(t *testing.T) {
	err := ValidateJobPayload([]byte(`{"document_id":`))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "payload_json", validationErr.Errors[0].Field)
}

func TestValidationError_MessageListsAllFields(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "document_id", Message: "is required"},
		{Field: "(root)", Message: "additional property not allowed"},
	}}

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "payload validation failed: "))
	assert.Contains(t, msg, "document_id: is required")
	assert.Contains(t, msg, "; ")
}
