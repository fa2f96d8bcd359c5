package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the content-store contract consumed by the transition engine,
// the job runner, and the HTTP handlers. It is satisfied by the Postgres
// *DB and by MemoryStore, so core logic can be tested without a database.
type Store interface {
	CreateSource(ctx context.Context, title, sourceType, content string) (*Source, error)
	GetSource(ctx context.Context, id uuid.UUID) (*Source, error)
	ListSources(ctx context.Context) ([]Source, error)

	// CreateDocument validates that sourceID, when set, references an
	// existing source. The reference is not re-checked afterward.
	CreateDocument(ctx context.Context, title string, sourceID *uuid.UUID) (*Document, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context) ([]Document, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, update DocumentUpdate) (*Document, error)

	CreateRun(ctx context.Context, runType, status string, documentID uuid.UUID, message string) (*Run, error)
	ListRunsByDocument(ctx context.Context, documentID uuid.UUID) ([]Run, error)

	CreateJob(ctx context.Context, jobType string, payload []byte) (*Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	// ClaimJob atomically moves a job from queued to running. It returns
	// ErrJobNotRunnable when the job is not in the queued state, which is
	// the sole entry gate against double execution.
	ClaimJob(ctx context.Context, id uuid.UUID) (*Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status string) (*Job, error)

	CountDocuments(ctx context.Context) (int, error)
	CountDocumentsByStatus(ctx context.Context, status string) (int, error)
	CountRunsSince(ctx context.Context, since time.Time) (int, error)
}

// ErrSourceNotFound indicates a document referenced a source that does
// not exist at creation time.
type ErrSourceNotFound struct {
	SourceID uuid.UUID
}

func (e *ErrSourceNotFound) Error() string {
	return fmt.Sprintf("source not found: %s", e.SourceID)
}

// ErrJobNotRunnable indicates a job could not be claimed because it is
// not queued (already running, or in a terminal state).
type ErrJobNotRunnable struct {
	JobID  uuid.UUID
	Status string
}

func (e *ErrJobNotRunnable) Error() string {
	return fmt.Sprintf("job %s is not runnable (status: %s)", e.JobID, e.Status)
}
