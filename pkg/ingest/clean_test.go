package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain text unchanged",
			raw:      "Just some plain text.",
			expected: "Just some plain text.",
		},
		{
			name:     "whitespace collapsed",
			raw:      "  too \t many\n\n spaces  ",
			expected: "too many spaces",
		},
		{
			name:     "html stripped",
			raw:      "<p>Hello <b>world</b></p>",
			expected: "Hello world",
		},
		{
			name:     "script content removed",
			raw:      `<html><script>alert("x")</script><body>Visible text</body></html>`,
			expected: "Visible text",
		},
		{
			name:     "empty input",
			raw:      "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanText(tc.raw))
		})
	}
}
