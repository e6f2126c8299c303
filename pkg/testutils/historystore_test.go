package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getprecis/precis/pkg/models"
)

func TestInMemoryHistoryStoreCapsEntries(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryHistoryStore(3)

	for i := 1; i <= 5; i++ {
		_, err := store.CreateEntry(ctx, &models.SummaryResult{
			Summary: fmt.Sprintf("summary %d", i),
		})
		assert.NoError(t, err)
	}

	count, err := store.EntryCount(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)

	// Only the most recent entries survive, oldest first.
	entries, err := store.ListEntries(ctx, 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(entries))
	assert.Equal(t, "summary 3", entries[0].Summary)
	assert.Equal(t, "summary 4", entries[1].Summary)
	assert.Equal(t, "summary 5", entries[2].Summary)
}

func TestInMemoryHistoryStoreMergesMetadata(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryHistoryStore(0)

	entry, err := store.CreateEntry(ctx, &models.SummaryResult{
		Summary:  "A summary.",
		Metadata: map[string]interface{}{"source": "upload"},
	})
	assert.NoError(t, err)

	err = store.UpdateEntryMetadata(ctx, entry.UUID, map[string]interface{}{
		"system": map[string]interface{}{"entity_labels": map[string]interface{}{"DATE": 1}},
	})
	assert.NoError(t, err)

	stored, err := store.GetEntry(ctx, entry.UUID)
	assert.NoError(t, err)
	assert.Equal(t, "upload", stored.Metadata["source"])
	assert.Contains(t, stored.Metadata, "system")
}
