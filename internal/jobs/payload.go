// Package jobs executes queued jobs by dispatching document transitions
// through the pipeline engine.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/db"
)

// Payload is the decoded, validated payload of a job. Each job type
// carries its own payload shape; today both transitions target a single
// document.
type Payload interface {
	// DocumentID returns the document the job operates on
	DocumentID() uuid.UUID
	// Validate checks required fields
	Validate() error
}

// GeneratePayload is the payload for generate jobs
type GeneratePayload struct {
	Document uuid.UUID `json:"document_id" validate:"required"`
}

// DocumentID returns the target document
func (p *GeneratePayload) DocumentID() uuid.UUID { return p.Document }

// Validate checks required fields using the validator
func (p *GeneratePayload) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return &ErrInvalidPayload{Field: "document_id", Message: "document_id is required"}
	}
	return nil
}

// PublishPayload is the payload for publish jobs
type PublishPayload struct {
	Document uuid.UUID `json:"document_id" validate:"required"`
}

// DocumentID returns the target document
func (p *PublishPayload) DocumentID() uuid.UUID { return p.Document }

// Validate checks required fields using the validator
func (p *PublishPayload) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return &ErrInvalidPayload{Field: "document_id", Message: "document_id is required"}
	}
	return nil
}

// DecodePayload decodes and validates a raw payload document for the
// given job type. Unknown job types yield ErrUnsupportedJobType, so both
// job creation and job execution reject them the same way.
func DecodePayload(jobType string, raw []byte) (Payload, error) {
	var payload Payload
	switch jobType {
	case db.JobTypeGenerate:
		payload = &GeneratePayload{}
	case db.JobTypePublish:
		payload = &PublishPayload{}
	default:
		return nil, &ErrUnsupportedJobType{JobType: jobType}
	}

	if len(raw) == 0 {
		return nil, &ErrInvalidPayload{Field: "payload_json", Message: "payload_json is required"}
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, &ErrInvalidPayload{Field: "payload_json", Message: fmt.Sprintf("malformed payload: %v", err)}
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// ErrInvalidPayload indicates a missing or malformed payload field
type ErrInvalidPayload struct {
	Field   string
	Message string
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid job payload: %s - %s", e.Field, e.Message)
}

// ErrUnsupportedJobType indicates a job_type the runner cannot dispatch
type ErrUnsupportedJobType struct {
	JobType string
}

func (e *ErrUnsupportedJobType) Error() string {
	return fmt.Sprintf("unsupported job_type: %q", e.JobType)
}

// ErrJobNotFound indicates the referenced job does not exist
type ErrJobNotFound struct {
	JobID uuid.UUID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}
