// Package db provides PostgreSQL persistence for content-pipeline records.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateSource inserts a new source record
func (db *DB) CreateSource(ctx context.Context, title, sourceType, content string) (*Source, error) {
	var src Source
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sources (title, source_type, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, source_type, content, created_at`,
		title, sourceType, content,
	).Scan(&src.ID, &src.Title, &src.SourceType, &src.Content, &src.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}
	return &src, nil
}

// GetSource retrieves a source by ID
func (db *DB) GetSource(ctx context.Context, id uuid.UUID) (*Source, error) {
	var src Source
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, source_type, content, created_at
		 FROM sources WHERE id = $1`,
		id,
	).Scan(&src.ID, &src.Title, &src.SourceType, &src.Content, &src.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return &src, nil
}

// ListSources retrieves all sources, newest first
func (db *DB) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, source_type, content, created_at
		 FROM sources ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		if err := rows.Scan(&src.ID, &src.Title, &src.SourceType, &src.Content, &src.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// CreateDocument inserts a new document in draft status with an empty
// body. When sourceID is set it must reference an existing source.
func (db *DB) CreateDocument(ctx context.Context, title string, sourceID *uuid.UUID) (*Document, error) {
	if sourceID != nil {
		src, err := db.GetSource(ctx, *sourceID)
		if err != nil {
			return nil, err
		}
		if src == nil {
			return nil, &ErrSourceNotFound{SourceID: *sourceID}
		}
	}

	var doc Document
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (title, source_id, status, body)
		 VALUES ($1, $2, 'draft', '')
		 RETURNING id, title, source_id, status, body, created_at`,
		title, sourceID,
	).Scan(&doc.ID, &doc.Title, &doc.SourceID, &doc.Status, &doc.Body, &doc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return &doc, nil
}

// GetDocument retrieves a document by ID
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var doc Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, source_id, status, body, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Title, &doc.SourceID, &doc.Status, &doc.Body, &doc.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments retrieves all documents, newest first
func (db *DB) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, source_id, status, body, created_at
		 FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.SourceID, &doc.Status, &doc.Body, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// UpdateDocument updates a document's status and optionally its body.
// A nil update.Body leaves the stored body untouched.
func (db *DB) UpdateDocument(ctx context.Context, id uuid.UUID, update DocumentUpdate) (*Document, error) {
	var doc Document
	err := db.pool.QueryRow(ctx,
		`UPDATE documents SET status = $2, body = COALESCE($3, body)
		 WHERE id = $1
		 RETURNING id, title, source_id, status, body, created_at`,
		id, update.Status, update.Body,
	).Scan(&doc.ID, &doc.Title, &doc.SourceID, &doc.Status, &doc.Body, &doc.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return &doc, nil
}

// CreateRun appends an audit run record for a document transition
func (db *DB) CreateRun(ctx context.Context, runType, status string, documentID uuid.UUID, message string) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`INSERT INTO runs (run_type, status, document_id, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, run_type, status, document_id, message, created_at`,
		runType, status, documentID, message,
	).Scan(&run.ID, &run.RunType, &run.Status, &run.DocumentID, &run.Message, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return &run, nil
}

// ListRunsByDocument retrieves the audit trail for a document, newest first
func (db *DB) ListRunsByDocument(ctx context.Context, documentID uuid.UUID) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_type, status, document_id, message, created_at
		 FROM runs WHERE document_id = $1 ORDER BY created_at DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.RunType, &run.Status, &run.DocumentID, &run.Message, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// CreateJob inserts a new job in queued status
func (db *DB) CreateJob(ctx context.Context, jobType string, payload []byte) (*Job, error) {
	var job Job
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (job_type, payload_json, status)
		 VALUES ($1, $2, 'queued')
		 RETURNING id, job_type, payload_json, status, created_at, updated_at`,
		jobType, payload,
	).Scan(&job.ID, &job.JobType, &job.PayloadJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &job, nil
}

// GetJob retrieves a job by ID
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	var job Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_type, payload_json, status, created_at, updated_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.JobType, &job.PayloadJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// ClaimJob atomically transitions a job from queued to running. The
// conditional UPDATE is the entry gate: a second caller on the same job
// misses the row and gets ErrJobNotRunnable instead of double-executing.
func (db *DB) ClaimJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	var job Job
	err := db.pool.QueryRow(ctx,
		`UPDATE jobs SET status = 'running', updated_at = NOW()
		 WHERE id = $1 AND status = 'queued'
		 RETURNING id, job_type, payload_json, status, created_at, updated_at`,
		id,
	).Scan(&job.ID, &job.JobType, &job.PayloadJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err == nil {
		return &job, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	// Missed the CAS: distinguish a missing job from one in the wrong state.
	existing, err := db.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	return nil, &ErrJobNotRunnable{JobID: id, Status: existing.Status}
}

// UpdateJobStatus sets a job's status
func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string) (*Job, error) {
	var job Job
	err := db.pool.QueryRow(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, job_type, payload_json, status, created_at, updated_at`,
		id, status,
	).Scan(&job.ID, &job.JobType, &job.PayloadJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	return &job, nil
}

// CountDocuments returns the total number of documents
func (db *DB) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// CountDocumentsByStatus returns the number of documents in a given status
func (db *DB) CountDocumentsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM documents WHERE status = $1`, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents by status: %w", err)
	}
	return count, nil
}

// CountRunsSince returns the number of runs created at or after the given time
func (db *DB) CountRunsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM runs WHERE created_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}
