// Package server provides the HTTP REST API for the content pipeline.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/content-pipeline/internal/db"
	"github.com/jonathan/content-pipeline/internal/jobs"
	"github.com/jonathan/content-pipeline/internal/pipeline"
	"github.com/jonathan/content-pipeline/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Not-found errors map to 404, validation and unsupported-type errors to
// 400, a lost job claim race to 409, everything else to 500.
func HTTPStatus(err error) int {
	var (
		docNotFound    *pipeline.ErrDocumentNotFound
		jobNotFound    *jobs.ErrJobNotFound
		srcNotFound    *db.ErrSourceNotFound
		invalidPayload *jobs.ErrInvalidPayload
		schemaErr      *schemas.ValidationError
		unsupported    *jobs.ErrUnsupportedJobType
		validation     *ErrValidation
		notRunnable    *db.ErrJobNotRunnable
	)

	switch {
	case errors.As(err, &docNotFound), errors.As(err, &jobNotFound), errors.As(err, &srcNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalidPayload), errors.As(err, &schemaErr),
		errors.As(err, &unsupported), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notRunnable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
