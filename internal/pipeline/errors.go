package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrDocumentNotFound indicates a transition referenced a document that
// does not exist.
type ErrDocumentNotFound struct {
	DocumentID uuid.UUID
}

func (e *ErrDocumentNotFound) Error() string {
	return fmt.Sprintf("document not found: %s", e.DocumentID)
}
