package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store implementation used by tests and by
// `content_agent serve --memory`. All methods are safe for concurrent use.
type MemoryStore struct {
	mu        sync.Mutex
	seq       int
	sources   map[uuid.UUID]*Source
	documents map[uuid.UUID]*Document
	runs      []*Run
	jobs      map[uuid.UUID]*Job
	order     map[uuid.UUID]int // insertion order, for stable newest-first listings
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sources:   make(map[uuid.UUID]*Source),
		documents: make(map[uuid.UUID]*Document),
		jobs:      make(map[uuid.UUID]*Job),
		order:     make(map[uuid.UUID]int),
	}
}

func (m *MemoryStore) next(id uuid.UUID) {
	m.seq++
	m.order[id] = m.seq
}

// CreateSource inserts a new source record
func (m *MemoryStore) CreateSource(_ context.Context, title, sourceType, content string) (*Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := &Source{
		ID:         uuid.New(),
		Title:      title,
		SourceType: sourceType,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	m.sources[src.ID] = src
	m.next(src.ID)
	out := *src
	return &out, nil
}

// GetSource retrieves a source by ID
func (m *MemoryStore) GetSource(_ context.Context, id uuid.UUID) (*Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, ok := m.sources[id]
	if !ok {
		return nil, nil
	}
	out := *src
	return &out, nil
}

// ListSources retrieves all sources, newest first
func (m *MemoryStore) ListSources(_ context.Context) ([]Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources := make([]Source, 0, len(m.sources))
	for _, src := range m.sources {
		sources = append(sources, *src)
	}
	sort.Slice(sources, func(i, j int) bool {
		return m.order[sources[i].ID] > m.order[sources[j].ID]
	})
	return sources, nil
}

// CreateDocument inserts a new document in draft status with an empty body
func (m *MemoryStore) CreateDocument(_ context.Context, title string, sourceID *uuid.UUID) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sourceID != nil {
		if _, ok := m.sources[*sourceID]; !ok {
			return nil, &ErrSourceNotFound{SourceID: *sourceID}
		}
	}

	doc := &Document{
		ID:        uuid.New(),
		Title:     title,
		SourceID:  sourceID,
		Status:    DocumentStatusDraft,
		Body:      "",
		CreatedAt: time.Now(),
	}
	m.documents[doc.ID] = doc
	m.next(doc.ID)
	out := *doc
	return &out, nil
}

// GetDocument retrieves a document by ID
func (m *MemoryStore) GetDocument(_ context.Context, id uuid.UUID) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[id]
	if !ok {
		return nil, nil
	}
	out := *doc
	return &out, nil
}

// ListDocuments retrieves all documents, newest first
func (m *MemoryStore) ListDocuments(_ context.Context) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, *doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return m.order[docs[i].ID] > m.order[docs[j].ID]
	})
	return docs, nil
}

// UpdateDocument updates a document's status and optionally its body
func (m *MemoryStore) UpdateDocument(_ context.Context, id uuid.UUID, update DocumentUpdate) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[id]
	if !ok {
		return nil, nil
	}
	doc.Status = update.Status
	if update.Body != nil {
		doc.Body = *update.Body
	}
	out := *doc
	return &out, nil
}

// CreateRun appends an audit run record
func (m *MemoryStore) CreateRun(_ context.Context, runType, status string, documentID uuid.UUID, message string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run := &Run{
		ID:         uuid.New(),
		RunType:    runType,
		Status:     status,
		DocumentID: documentID,
		Message:    message,
		CreatedAt:  time.Now(),
	}
	m.runs = append(m.runs, run)
	m.next(run.ID)
	out := *run
	return &out, nil
}

// ListRunsByDocument retrieves the audit trail for a document, newest first
func (m *MemoryStore) ListRunsByDocument(_ context.Context, documentID uuid.UUID) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var runs []Run
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].DocumentID == documentID {
			runs = append(runs, *m.runs[i])
		}
	}
	return runs, nil
}

// CreateJob inserts a new job in queued status
func (m *MemoryStore) CreateJob(_ context.Context, jobType string, payload []byte) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:          uuid.New(),
		JobType:     jobType,
		PayloadJSON: append([]byte(nil), payload...),
		Status:      JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.jobs[job.ID] = job
	m.next(job.ID)
	out := *job
	return &out, nil
}

// GetJob retrieves a job by ID
func (m *MemoryStore) GetJob(_ context.Context, id uuid.UUID) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	out := *job
	return &out, nil
}

// ClaimJob atomically transitions a job from queued to running
func (m *MemoryStore) ClaimJob(_ context.Context, id uuid.UUID) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	if job.Status != JobStatusQueued {
		return nil, &ErrJobNotRunnable{JobID: id, Status: job.Status}
	}
	job.Status = JobStatusRunning
	job.UpdatedAt = time.Now()
	out := *job
	return &out, nil
}

// UpdateJobStatus sets a job's status
func (m *MemoryStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	job.Status = status
	job.UpdatedAt = time.Now()
	out := *job
	return &out, nil
}

// CountDocuments returns the total number of documents
func (m *MemoryStore) CountDocuments(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.documents), nil
}

// CountDocumentsByStatus returns the number of documents in a given status
func (m *MemoryStore) CountDocumentsByStatus(_ context.Context, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, doc := range m.documents {
		if doc.Status == status {
			count++
		}
	}
	return count, nil
}

// CountRunsSince returns the number of runs created at or after the given time
func (m *MemoryStore) CountRunsSince(_ context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, run := range m.runs {
		if !run.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
