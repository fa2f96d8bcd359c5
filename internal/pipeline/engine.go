// Package pipeline applies the generate and publish transitions to
// documents and records each one as an audit run.
package pipeline

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/content-pipeline/internal/db"
	"github.com/jonathan/content-pipeline/internal/generation"
)

// Run messages recorded on successful transitions.
const (
	generateMessage = "Generated content from source"
	publishMessage  = "Published (simulated)"
)

// Engine executes document transitions against an injected store. Both
// the direct HTTP path and the job runner go through it, so the two entry
// points share identical semantics.
type Engine struct {
	store   db.Store
	verbose bool
}

// NewEngine creates a transition engine backed by the given store
func NewEngine(store db.Store) *Engine {
	return &Engine{store: store}
}

// NewVerboseEngine creates an engine that logs each transition
func NewVerboseEngine(store db.Store) *Engine {
	return &Engine{store: store, verbose: true}
}

// Generate recomputes the document body from its linked source (or from
// no source at all) and moves the document to generated status. A missing
// source is tolerated and falls back to no-source generation; only a
// missing document is an error. The document write completes before the
// run is appended: a run is evidence of a finished state change.
func (e *Engine) Generate(ctx context.Context, documentID uuid.UUID) (*db.Document, *db.Run, error) {
	doc, err := e.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, &ErrDocumentNotFound{DocumentID: documentID}
	}

	var source *db.Source
	if doc.SourceID != nil {
		source, err = e.store.GetSource(ctx, *doc.SourceID)
		if err != nil {
			return nil, nil, err
		}
	}

	result := generation.GenerateDocumentBody(source)
	if e.verbose {
		log.Printf("[generate] document %s: %s", documentID, result.PromptHead)
	}

	updated, err := e.store.UpdateDocument(ctx, documentID, db.DocumentUpdate{
		Body:   &result.Body,
		Status: db.DocumentStatusGenerated,
	})
	if err != nil {
		return nil, nil, err
	}
	if updated == nil {
		return nil, nil, &ErrDocumentNotFound{DocumentID: documentID}
	}

	run, err := e.store.CreateRun(ctx, db.RunTypeGenerate, db.RunStatusSuccess, documentID, generateMessage)
	if err != nil {
		return nil, nil, err
	}

	return updated, run, nil
}

// Publish moves the document to published status. The body is left
// untouched. No precondition on the current status: publishing a draft or
// re-publishing succeeds and appends a fresh run each time.
func (e *Engine) Publish(ctx context.Context, documentID uuid.UUID) (*db.Document, *db.Run, error) {
	doc, err := e.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, &ErrDocumentNotFound{DocumentID: documentID}
	}

	updated, err := e.store.UpdateDocument(ctx, documentID, db.DocumentUpdate{
		Status: db.DocumentStatusPublished,
	})
	if err != nil {
		return nil, nil, err
	}
	if updated == nil {
		return nil, nil, &ErrDocumentNotFound{DocumentID: documentID}
	}

	if e.verbose {
		log.Printf("[publish] document %s", documentID)
	}

	run, err := e.store.CreateRun(ctx, db.RunTypePublish, db.RunStatusSuccess, documentID, publishMessage)
	if err != nil {
		return nil, nil, err
	}

	return updated, run, nil
}
