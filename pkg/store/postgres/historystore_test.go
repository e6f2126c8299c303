package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/getprecis/precis/pkg/models"
)

func TestGenerateLockID(t *testing.T) {
	entryUUID := uuid.New().String()
	assert.Equal(t, generateLockID(entryUUID), generateLockID(entryUUID))
	assert.NotEqual(t, generateLockID(entryUUID), generateLockID(uuid.New().String()))
}

func TestEntryToResult(t *testing.T) {
	entry := &SummaryHistorySchema{
		UUID:              uuid.New(),
		CreatedAt:         time.Now(),
		OriginalText:      "The original text prefix.",
		Summary:           "A summary.",
		OriginalWordCount: 120,
		SummaryWordCount:  2,
		CompressionRatio:  0.017,
		TokenCount:        5,
		Entities: []models.Entity{
			{Name: "Acme Corp", Label: "PERSON_ORG"},
		},
		Metadata: map[string]interface{}{"source": "upload"},
	}

	result, err := entryToResult(entry)
	assert.NoError(t, err)
	assert.Equal(t, entry.UUID, result.UUID)
	assert.Equal(t, entry.OriginalText, result.OriginalText)
	assert.Equal(t, entry.Summary, result.Summary)
	assert.Equal(t, entry.OriginalWordCount, result.OriginalWordCount)
	assert.Equal(t, entry.SummaryWordCount, result.SummaryWordCount)
	assert.Equal(t, entry.CompressionRatio, result.CompressionRatio)
	assert.Equal(t, entry.TokenCount, result.TokenCount)
	assert.Equal(t, entry.Entities, result.Entities)
	assert.Equal(t, entry.Metadata, result.Metadata)
}

func TestParseServerVersion(t *testing.T) {
	testCases := []struct {
		version  string
		expected string
		wantErr  bool
	}{
		{"15.4", "15.4.0", false},
		{"15.4 (Debian 15.4-1.pgdg120+1)", "15.4.0", false},
		{"16.1", "16.1.0", false},
		{"", "", true},
		{"not-a-version", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.version, func(t *testing.T) {
			parsed, err := parseServerVersion(tc.version)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, parsed.String())
		})
	}
}
