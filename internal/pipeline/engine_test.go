package pipeline

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pipeline/internal/db"
)

func newEngineFixture(t *testing.T) (*Engine, *db.MemoryStore, context.Context) {
	t.Helper()
	store := db.NewMemoryStore()
	return NewEngine(store), store, context.Background()
}

func TestGenerate_WithSource(t *testing.T) {
	engine, store, ctx := newEngineFixture(t)

	source, err := store.CreateSource(ctx, "A", "article", "Hello world")
	require.NoError(t, err)
	doc, err := store.CreateDocument(ctx, "D", &source.ID)
	require.NoError(t, err)

	updated, run, err := engine.Generate(ctx, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, db.DocumentStatusGenerated, updated.Status)
	assert.Contains(t, updated.Body, "Hello world")
	assert.Contains(t, updated.Body, "A")

	assert.Equal(t, db.RunTypeGenerate, run.RunType)
	assert.Equal(t, db.RunStatusSuccess, run.Status)
	assert.Equal(t, doc.ID, run.DocumentID)
	assert.Equal(t, "Generated content from source", run.Message)

	runs, err := store.ListRunsByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestGenerate_NoSource(t *testing.T) {
	engine, store, ctx := newEngineFixture(t)

	doc, err := store.CreateDocument(ctx, "Orphan", nil)
	require.NoError(t, err)

	updated, run, err := engine.Generate(ctx, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, db.DocumentStatusGenerated, updated.Status)
	assert.Contains(t, updated.Body, "No linked source found")
	assert.Equal(t, db.RunTypeGenerate, run.RunType)
}

func TestGenerate_MissingDocument(t *testing.T) {
	engine, _, ctx := newEngineFixture(t)

	_, _, err := engine.Generate(ctx, uuid.New())

	var notFound *ErrDocumentNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestGenerate_OverwritesBodyEachTime(t *testing.T) {
	engine, store, ctx := newEngineFixture(t)

	source, err := store.CreateSource(ctx, "S", "article", "v1 content")
	require.NoError(t, err)
	doc, err := store.CreateDocument(ctx, "D", &source.ID)
	require.NoError(t, err)

	first, _, err := engine.Generate(ctx, doc.ID)
	require.NoError(t, err)
	second, _, err := engine.Generate(ctx, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Body, second.Body)

	runs, err := store.ListRunsByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, runs, 2, "each generate appends a fresh run")
}

func TestPublish_LeavesBodyUntouched(t *testing.T) {
	engine, store, ctx := newEngineFixture(t)

	source, err := store.CreateSource(ctx, "S", "article", "body material")
	require.NoError(t, err)
	doc, err := store.CreateDocument(ctx, "D", &source.ID)
	require.NoError(t, err)

	generated, _, err := engine.Generate(ctx, doc.ID)
	require.NoError(t, err)

	published, run, err := engine.Publish(ctx, doc.ID)
	require.NoError(t, err)

	assert.Equal(t, db.DocumentStatusPublished, published.Status)
	assert.Equal(t, generated.Body, published.Body)
	assert.Equal(t, db.RunTypePublish, run.RunType)
	assert.Equal(t, "Published (simulated)", run.Message)
}

func TestPublish_DraftSucceeds(t *testing.T) {
	// Transitions are permissive: publishing a draft is allowed.
	engine, store, ctx := newEngineFixture(t)

	doc, err := store.CreateDocument(ctx, "Draft", nil)
	require.NoError(t, err)

	published, _, err := engine.Publish(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, db.DocumentStatusPublished, published.Status)
	assert.Equal(t, "", published.Body)
}

func TestPublish_MissingDocument(t *testing.T) {
	engine, _, ctx := newEngineFixture(t)

	_, _, err := engine.Publish(ctx, uuid.New())

	var notFound *ErrDocumentNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestGenerate_AfterPublishDowngradesStatus(t *testing.T) {
	// Re-running generate after publish is permitted and moves the
	// document back to generated.
	engine, store, ctx := newEngineFixture(t)

	doc, err := store.CreateDocument(ctx, "D", nil)
	require.NoError(t, err)

	_, _, err = engine.Publish(ctx, doc.ID)
	require.NoError(t, err)

	regenerated, _, err := engine.Generate(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, db.DocumentStatusGenerated, regenerated.Status)

	runs, err := store.ListRunsByDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGenerate_ToleratesDanglingSource(t *testing.T) {
	// A source that vanishes after document creation falls back to
	// no-source generation instead of erroring.
	store := db.NewMemoryStore()
	ctx := context.Background()

	doc, err := store.CreateDocument(ctx, "D", nil)
	require.NoError(t, err)

	wrapped := &danglingSourceStore{MemoryStore: store, docID: doc.ID, sourceID: uuid.New()}
	updated, run, err := NewEngine(wrapped).Generate(ctx, doc.ID)
	require.NoError(t, err)

	assert.Contains(t, updated.Body, "No linked source found")
	assert.Equal(t, db.RunStatusSuccess, run.Status)
}

// danglingSourceStore reports a source_id on one document that no stored
// source backs, mimicking a source deleted out from under a document.
type danglingSourceStore struct {
	*db.MemoryStore
	docID    uuid.UUID
	sourceID uuid.UUID
}

func (s *danglingSourceStore) GetDocument(ctx context.Context, id uuid.UUID) (*db.Document, error) {
	doc, err := s.MemoryStore.GetDocument(ctx, id)
	if err != nil || doc == nil {
		return doc, err
	}
	if doc.ID == s.docID {
		doc.SourceID = &s.sourceID
	}
	return doc, nil
}
