package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/content-pipeline/internal/db"
)

func TestGenerateDocumentBody_NoSource(t *testing.T) {
	result := GenerateDocumentBody(nil)

	assert.Equal(t, noSourceBody, result.Body)
	assert.Equal(t, "mock-generate: no source", result.PromptHead)
	assert.Contains(t, result.Body, "Attach a source")
}

func TestGenerateDocumentBody_WithContent(t *testing.T) {
	source := &db.Source{
		Title:      "A",
		SourceType: "article",
		Content:    "Hello world",
	}

	result := GenerateDocumentBody(source)

	assert.Contains(t, result.Body, "# A")
	assert.Contains(t, result.Body, "Hello world")
	assert.Contains(t, result.Body, "Body")
	assert.NotContains(t, result.Body, "no content yet")
	assert.Equal(t, "mock-generate: A | article | Hello world", result.PromptHead)
}

func TestGenerateDocumentBody_TrimsContent(t *testing.T) {
	source := &db.Source{
		Title:      "Notes",
		SourceType: "memo",
		Content:    "  \n  padded content  \n ",
	}

	result := GenerateDocumentBody(source)

	assert.Contains(t, result.Body, "padded content")
	assert.NotContains(t, result.Body, "  padded")
	lines := strings.Split(result.Body, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "# Notes", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "Body", lines[2])
	assert.Equal(t, "padded content", lines[3])
}

func TestGenerateDocumentBody_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t \n"} {
		source := &db.Source{Title: "Empty", SourceType: "article", Content: content}

		result := GenerateDocumentBody(source)

		assert.Contains(t, result.Body, "Body (no content yet)")
		assert.Contains(t, result.Body, emptyContentNotice)
	}
}

func TestGenerateDocumentBody_PromptHeadCollapsesWhitespace(t *testing.T) {
	source := &db.Source{
		Title:      "Spacey",
		SourceType: "article",
		Content:    "one\t\ttwo\n\n  three    four",
	}

	result := GenerateDocumentBody(source)

	assert.Equal(t, "mock-generate: Spacey | article | one two three four", result.PromptHead)
	assert.NotContains(t, result.PromptHead, "  ")
}

func TestGenerateDocumentBody_PromptHeadTruncation(t *testing.T) {
	source := &db.Source{
		Title:      "Long",
		SourceType: "article",
		Content:    strings.Repeat("x", 500),
	}

	result := GenerateDocumentBody(source)

	prefix := "mock-generate: Long | article | "
	require.True(t, strings.HasPrefix(result.PromptHead, prefix))
	snippet := strings.TrimPrefix(result.PromptHead, prefix)
	assert.Len(t, []rune(snippet), promptHeadLimit)
}

// Truncation applies to the prompt head only; the body branch is chosen
// from the full trimmed content, so a long body never flips to the
// empty-content notice.
func TestGenerateDocumentBody_TruncationDoesNotChangeBodyBranch(t *testing.T) {
	long := strings.Repeat("word ", 100)
	source := &db.Source{Title: "T", SourceType: "article", Content: long}

	result := GenerateDocumentBody(source)

	assert.Contains(t, result.Body, strings.TrimSpace(long))
	assert.NotContains(t, result.Body, emptyContentNotice)
}

func TestGenerateDocumentBody_Deterministic(t *testing.T) {
	source := &db.Source{Title: "Same", SourceType: "article", Content: "content"}

	first := GenerateDocumentBody(source)
	second := GenerateDocumentBody(source)

	assert.Equal(t, first, second)
}

func TestGenerateDocumentBody_MultibyteTruncation(t *testing.T) {
	source := &db.Source{
		Title:      "Unicode",
		SourceType: "article",
		Content:    strings.Repeat("日", 300),
	}

	result := GenerateDocumentBody(source)

	prefix := "mock-generate: Unicode | article | "
	snippet := strings.TrimPrefix(result.PromptHead, prefix)
	assert.Len(t, []rune(snippet), promptHeadLimit)
	// Truncation never splits a rune
	assert.Equal(t, strings.Repeat("日", promptHeadLimit), snippet)
}
