package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus constants
const (
	DocumentStatusDraft     = "draft"
	DocumentStatusGenerated = "generated"
	DocumentStatusPublished = "published"
)

// RunType constants
const (
	RunTypeGenerate = "generate"
	RunTypePublish  = "publish"
)

// RunStatus constants
const (
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// JobType constants
const (
	JobTypeGenerate = "generate"
	JobTypePublish  = "publish"
)

// JobStatus constants. A job moves queued -> running -> done|failed;
// done and failed are terminal.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// Source represents an immutable input content record. Sources have no
// update path; documents reference them by ID only.
type Source struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// Document represents a content artifact progressing through
// draft/generated/published states.
type Document struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	SourceID  *uuid.UUID `json:"source_id,omitempty"`
	Status    string     `json:"status"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}

// Run represents an append-only audit record of one transition. Runs are
// never mutated after creation.
type Run struct {
	ID         uuid.UUID `json:"id"`
	RunType    string    `json:"run_type"`
	Status     string    `json:"status"`
	DocumentID uuid.UUID `json:"document_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// Job represents a deferred unit of work that triggers a transition.
type Job struct {
	ID          uuid.UUID       `json:"id"`
	JobType     string          `json:"job_type"`
	PayloadJSON json.RawMessage `json:"payload_json"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DocumentUpdate holds the mutable fields of a document. A nil Body
// leaves the stored body untouched (publish never rewrites it).
type DocumentUpdate struct {
	Body   *string
	Status string
}

// DashboardCounts is the read-only rollup served by /dashboard.
type DashboardCounts struct {
	TotalDocuments     int `json:"total_documents"`
	PublishedDocuments int `json:"published_documents"`
	TodayRuns          int `json:"today_runs"`
}
