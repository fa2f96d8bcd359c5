// Package generation derives document bodies from sources. The transform
// is deterministic and local: no model calls, no I/O.
package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/content-pipeline/internal/db"
)

// promptHeadLimit caps the content snippet embedded in the prompt head.
const promptHeadLimit = 160

// noSourcePromptHead is the sentinel prompt head for documents without a
// linked source.
const noSourcePromptHead = "mock-generate: no source"

// noSourceBody instructs the caller to attach a source and regenerate.
const noSourceBody = "No linked source found; this draft was generated from the document title alone.\n\n" +
	"Attach a source to the document and regenerate."

// emptyContentNotice replaces the content section when the source has
// nothing but whitespace.
const emptyContentNotice = "The source content is empty. Add material to the source and generate again."

// Result holds the rendered document body and the prompt head recorded
// for audit and logging.
type Result struct {
	Body       string
	PromptHead string
}

// GenerateDocumentBody renders a document body from a source. A nil
// source yields the fixed placeholder body and sentinel prompt head.
func GenerateDocumentBody(source *db.Source) Result {
	return Result{
		Body:       buildBody(source),
		PromptHead: buildPromptHead(source),
	}
}

func buildBody(source *db.Source) string {
	if source == nil {
		return noSourceBody
	}

	trimmed := strings.TrimSpace(source.Content)

	// The headline and content section branch on the pre-truncation
	// trimmed content; truncation only ever applies to the prompt head.
	headline := "Body"
	section := trimmed
	if trimmed == "" {
		headline = "Body (no content yet)"
		section = emptyContentNotice
	}

	heading := fmt.Sprintf("# %s", source.Title)
	return strings.Join([]string{heading, "", headline, section}, "\n")
}

func buildPromptHead(source *db.Source) string {
	if source == nil {
		return noSourcePromptHead
	}

	snippet := truncateRunes(collapseWhitespace(source.Content), promptHeadLimit)
	return fmt.Sprintf("mock-generate: %s | %s | %s", source.Title, source.SourceType, snippet)
}

// collapseWhitespace reduces every whitespace run to a single space and
// trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
