package jobs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pipeline/internal/db"
)

func TestDecodePayload_Generate(t *testing.T) {
	id := uuid.New()

	payload, err := DecodePayload(db.JobTypeGenerate, []byte(`{"document_id":"`+id.String()+`"}`))
	require.NoError(t, err)

	assert.IsType(t, &GeneratePayload{}, payload)
	assert.Equal(t, id, payload.DocumentID())
}

func TestDecodePayload_Publish(t *testing.T) {
	id := uuid.New()

	payload, err := DecodePayload(db.JobTypePublish, []byte(`{"document_id":"`+id.String()+`"}`))
	require.NoError(t, err)

	assert.IsType(t, &PublishPayload{}, payload)
	assert.Equal(t, id, payload.DocumentID())
}

func TestDecodePayload_UnsupportedType(t *testing.T) {
	_, err := DecodePayload("transmogrify", []byte(`{"document_id":"`+uuid.NewString()+`"}`))

	var unsupported *ErrUnsupportedJobType
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "transmogrify", unsupported.JobType)
}

func TestDecodePayload_MissingDocumentID(t *testing.T) {
	_, err := DecodePayload(db.JobTypeGenerate, []byte(`{}`))

	var invalid *ErrInvalidPayload
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "document_id", invalid.Field)
}

func TestDecodePayload_ZeroDocumentID(t *testing.T) {
	// An explicit all-zeros UUID is indistinguishable from an absent one.
	raw := []byte(`{"document_id":"00000000-0000-0000-0000-000000000000"}`)

	_, err := DecodePayload(db.JobTypePublish, raw)

	var invalid *ErrInvalidPayload
	require.ErrorAs(t, err, &invalid)
}

func TestDecodePayload_EmptyRaw(t *testing.T) {
	for _, raw := range [][]byte{nil, {}} {
		_, err := DecodePayload(db.JobTypeGenerate, raw)

		var invalid *ErrInvalidPayload
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "payload_json", invalid.Field)
	}
}

func TestDecodePayload_MalformedJSON(t *testing.T) {
	for _, raw := range []string{`{`, `"just a string"`, `{"document_id": "not-a-uuid"}`, `[1,2]`} {
		_, err := DecodePayload(db.JobTypeGenerate, []byte(raw))

		var invalid *ErrInvalidPayload
		require.ErrorAs(t, err, &invalid, "raw=%s", raw)
	}
}

func TestDecodePayload_UnsupportedTypeCheckedFirst(t *testing.T) {
	// Even with a broken payload the type check wins, so unknown job
	// types are reported consistently.
	_, err := DecodePayload("transmogrify", nil)

	var unsupported *ErrUnsupportedJobType
	require.ErrorAs(t, err, &unsupported)
}
