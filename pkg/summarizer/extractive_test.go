package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getprecis/precis/internal"
)

const articleText = `The city council approved the new transit plan on Tuesday. ` +
	`The plan allocates funding for twelve new bus routes across the metropolitan area. ` +
	`Council members debated the proposal for more than three hours before the vote. ` +
	`Supporters argued that expanded transit would reduce congestion on major highways. ` +
	`Opponents raised concerns about the cost of the plan and its impact on property taxes. ` +
	`The mayor praised the decision and promised construction would begin next spring. ` +
	`Transit advocates have pushed for this expansion for nearly a decade. ` +
	`The first new routes are expected to open to riders within eighteen months.`

func TestExtractiveSummaryShortTextUnchanged(t *testing.T) {
	text := "One sentence here. Another sentence follows. A third closes it."
	assert.Equal(t, text, ExtractiveSummary(text, 150))
}

func TestExtractiveSummarySelectsSubset(t *testing.T) {
	summary := ExtractiveSummary(articleText, 150)

	assert.NotEmpty(t, summary)
	assert.Less(t, internal.WordCount(summary), internal.WordCount(articleText))

	// Every selected sentence must come from the source text
	for _, sentence := range splitSentences(summary) {
		assert.Contains(t, articleText, strings.TrimSuffix(sentence, "."))
	}
}

func TestExtractiveSummaryPreservesOrder(t *testing.T) {
	summary := ExtractiveSummary(articleText, 150)

	lastPos := -1
	for _, sentence := range splitSentences(summary) {
		pos := strings.Index(articleText, strings.TrimSuffix(sentence, "."))
		assert.Greater(t, pos, lastPos, "sentences must appear in original order")
		lastPos = pos
	}
}

func TestExtractiveSummaryRespectsWordBudget(t *testing.T) {
	// Six sentences of twelve words each. With a budget of twelve words
	// only one sentence fits, and nothing further may be selected once
	// the budget is spent.
	text := `The city council approved the new transit budget after a long debate. ` +
		`Residents near the planned light rail line voiced concerns about construction noise. ` +
		`Officials promised the noise would be limited to daytime working hours only. ` +
		`The first construction phase begins next spring along the downtown river corridor. ` +
		`Funding for the project comes from state grants and federal transit money. ` +
		`Local businesses expect the new line to bring more weekend foot traffic.`

	summary := ExtractiveSummary(text, 12)
	assert.LessOrEqual(t, internal.WordCount(summary), 12)
}

func TestExtractiveSummaryEndsWithTerminator(t *testing.T) {
	summary := ExtractiveSummary(articleText, 150)
	assert.True(
		t,
		strings.HasSuffix(summary, ".") ||
			strings.HasSuffix(summary, "!") ||
			strings.HasSuffix(summary, "?"),
	)
}

func TestSplitSentences(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "periods",
			text:     "First sentence. Second sentence. Third.",
			expected: []string{"First sentence.", "Second sentence.", "Third."},
		},
		{
			name:     "mixed terminators",
			text:     "Really? Yes! It works.",
			expected: []string{"Really?", "Yes!", "It works."},
		},
		{
			name:     "single sentence",
			text:     "Just one sentence without a terminator",
			expected: []string{"Just one sentence without a terminator"},
		},
		{
			name:     "empty",
			text:     "",
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, splitSentences(tc.text))
		})
	}
}
