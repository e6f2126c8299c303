package postgres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestGenerateFixtureData(t *testing.T) {
	outputDir := t.TempDir()

	GenerateFixtureData(5, outputDir)

	data, err := os.ReadFile(filepath.Join(outputDir, "history_fixtures.yaml"))
	assert.NoError(t, err)

	var fixtures Fixtures[SummaryHistorySchema]
	err = yaml.Unmarshal(data, &fixtures)
	assert.NoError(t, err)
	assert.Len(t, fixtures, 1)
	assert.Equal(t, "SummaryHistorySchema", fixtures[0].Model)
	assert.Len(t, fixtures[0].Rows, 5)

	for _, row := range fixtures[0].Rows {
		assert.NotEmpty(t, row.Summary)
		assert.LessOrEqual(t, len([]rune(row.OriginalText)), OriginalTextStoredChars+3)
		assert.Greater(t, row.CompressionRatio, 0.0)
	}
}
