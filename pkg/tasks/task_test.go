package tasks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/getprecis/precis/pkg/models"
	"github.com/getprecis/precis/pkg/testutils"
)

type fakeLLM struct {
	tokenCount int
	err        error
}

func (f *fakeLLM) Call(_ context.Context, _ string, _ int) (string, error) {
	return "", nil
}

func (f *fakeLLM) GetTokenCount(_ string) (int, error) {
	return f.tokenCount, f.err
}

func (f *fakeLLM) MaxInputTokens() int {
	return 4096
}

func newTaskMessage(t *testing.T, entry models.HistoryEntryTask) *message.Message {
	t.Helper()
	payload, err := json.Marshal(entry)
	assert.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestHistoryTokenCountTask(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewInMemoryHistoryStore(0)
	appState := &models.AppState{
		LLMClient:    &fakeLLM{tokenCount: 42},
		HistoryStore: store,
		Config:       testutils.NewTestConfig(),
	}

	entry, err := store.CreateEntry(ctx, &models.SummaryResult{Summary: "A summary."})
	assert.NoError(t, err)

	task := NewHistoryTokenCountTask(appState)
	msg := newTaskMessage(t, models.HistoryEntryTask{
		UUID:    entry.UUID,
		Summary: entry.Summary,
	})

	err = task.Execute(ctx, msg)
	assert.NoError(t, err)

	stored, err := store.GetEntry(ctx, entry.UUID)
	assert.NoError(t, err)
	assert.Equal(t, 42, stored.TokenCount)
}

func TestHistoryTokenCountTaskMissingEntry(t *testing.T) {
	ctx := context.Background()
	appState := &models.AppState{
		LLMClient:    &fakeLLM{tokenCount: 42},
		HistoryStore: testutils.NewInMemoryHistoryStore(0),
		Config:       testutils.NewTestConfig(),
	}

	task := NewHistoryTokenCountTask(appState)
	msg := newTaskMessage(t, models.HistoryEntryTask{
		UUID:    uuid.New(),
		Summary: "A summary.",
	})

	// deleted entries are not an error
	err := task.Execute(ctx, msg)
	assert.NoError(t, err)
}

func TestHistoryEntityMetadataTask(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewInMemoryHistoryStore(0)
	appState := &models.AppState{
		HistoryStore: store,
		Config:       testutils.NewTestConfig(),
	}

	entities := []models.Entity{
		{Name: "May 1, 2024", Label: "DATE"},
		{Name: "June 2, 2024", Label: "DATE"},
		{Name: "$5 million", Label: "MONEY"},
	}
	entry, err := store.CreateEntry(ctx, &models.SummaryResult{
		Summary:  "A summary.",
		Entities: entities,
	})
	assert.NoError(t, err)

	task := NewHistoryEntityMetadataTask(appState)
	msg := newTaskMessage(t, models.HistoryEntryTask{
		UUID:     entry.UUID,
		Summary:  entry.Summary,
		Entities: entities,
	})

	err = task.Execute(ctx, msg)
	assert.NoError(t, err)

	stored, err := store.GetEntry(ctx, entry.UUID)
	assert.NoError(t, err)
	system, ok := stored.Metadata["system"].(map[string]interface{})
	assert.True(t, ok)
	labels, ok := system["entity_labels"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, 2, labels["DATE"])
	assert.Equal(t, 1, labels["MONEY"])
}

func TestEntityLabelCounts(t *testing.T) {
	counts := entityLabelCounts([]models.Entity{
		{Name: "Acme", Label: "PERSON_ORG"},
		{Name: "Bolt", Label: "PERSON_ORG"},
		{Name: "$10", Label: "MONEY"},
		{Name: "mystery", Label: ""},
	})

	assert.Equal(t, 2, counts["PERSON_ORG"])
	assert.Equal(t, 1, counts["MONEY"])
	assert.Equal(t, 1, counts["UNKNOWN"])
}

func TestHistoryEntryFromPayloadInvalid(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	_, err := historyEntryFromPayload(msg)
	assert.Error(t, err)
}
