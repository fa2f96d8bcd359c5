// Package ingestion turns raw HTML into plain-text source content.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractedSource holds the title and plain-text content pulled from an
// HTML page, ready to be stored as a source.
type ExtractedSource struct {
	Title   string
	Content string
}

// ExtractionError indicates the HTML could not be parsed or yielded no
// usable text.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// ExtractHTML extracts a title and the visible text content from an HTML
// document. Script, style, and page-chrome elements are stripped;
// whitespace runs inside the remaining text are collapsed.
func ExtractHTML(htmlContent string) (*ExtractedSource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &ExtractionError{Message: "failed to parse HTML", Cause: err}
	}

	// Remove non-content elements before reading text
	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	var blocks []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	if len(blocks) == 0 {
		// Fragment without a <body>; fall back to the whole document.
		blocks = append(blocks, doc.Text())
	}

	content := normalizeText(strings.Join(blocks, "\n"))
	if content == "" {
		return nil, &ExtractionError{Message: "no text content found"}
	}

	return &ExtractedSource{Title: title, Content: content}, nil
}

// normalizeText collapses intra-line whitespace and drops empty lines
func normalizeText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
