package ingest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText strips any HTML markup from raw input and collapses runs of
// whitespace to a single space. Plain text passes through unchanged
// apart from whitespace normalization.
func CleanText(raw string) string {
	text := raw
	if strings.ContainsAny(raw, "<>") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			doc.Find("script, style").Remove()
			text = doc.Text()
		}
	}

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
