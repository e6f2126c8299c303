package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/getprecis/precis/pkg/models"
)

var _ models.Task = &HistoryTokenCountTask{}

// HistoryTokenCountTask computes the token count of a stored summary
// after the fact, so the summarize request path doesn't pay for it.
func NewHistoryTokenCountTask(appState *models.AppState) *HistoryTokenCountTask {
	return &HistoryTokenCountTask{
		BaseTask{
			appState: appState,
		},
	}
}

type HistoryTokenCountTask struct {
	BaseTask
}

func (t *HistoryTokenCountTask) Execute(
	ctx context.Context,
	msg *message.Message,
) error {
	ctx, done := context.WithTimeout(ctx, TaskTimeout*time.Second)
	defer done()

	entry, err := historyEntryFromPayload(msg)
	if err != nil {
		return fmt.Errorf("HistoryTokenCountTask payload failed: %w", err)
	}
	if entry.UUID == uuid.Nil {
		return errors.New("HistoryTokenCountTask entry UUID is empty")
	}

	log.Debugf("HistoryTokenCountTask called for entry %s", entry.UUID)

	if t.appState.LLMClient == nil {
		// no tokenizer available in fallback mode
		msg.Ack()
		return nil
	}

	tokenCount, err := t.appState.LLMClient.GetTokenCount(entry.Summary)
	if err != nil {
		return fmt.Errorf("HistoryTokenCountTask failed to get token count: %w", err)
	}

	err = t.appState.HistoryStore.UpdateEntryTokenCount(ctx, entry.UUID, tokenCount)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warnf("HistoryTokenCountTask entry not found. Was the record deleted?")
			// Don't error out
			msg.Ack()
			return nil
		}
		return fmt.Errorf("HistoryTokenCountTask update failed: %w", err)
	}

	msg.Ack()

	return nil
}

func (t *HistoryTokenCountTask) HandleError(err error) {
	log.Errorf("HistoryTokenCountTask failed: %v", err)
}
