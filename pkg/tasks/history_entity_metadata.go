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

var _ models.Task = &HistoryEntityMetadataTask{}

// HistoryEntityMetadataTask aggregates entity label counts into a
// history entry's metadata under the system key.
func NewHistoryEntityMetadataTask(appState *models.AppState) *HistoryEntityMetadataTask {
	return &HistoryEntityMetadataTask{
		BaseTask{
			appState: appState,
		},
	}
}

type HistoryEntityMetadataTask struct {
	BaseTask
}

func (t *HistoryEntityMetadataTask) Execute(
	ctx context.Context,
	msg *message.Message,
) error {
	ctx, done := context.WithTimeout(ctx, TaskTimeout*time.Second)
	defer done()

	entry, err := historyEntryFromPayload(msg)
	if err != nil {
		return fmt.Errorf("HistoryEntityMetadataTask payload failed: %w", err)
	}
	if entry.UUID == uuid.Nil {
		return errors.New("HistoryEntityMetadataTask entry UUID is empty")
	}

	log.Debugf("HistoryEntityMetadataTask called for entry %s", entry.UUID)

	if len(entry.Entities) == 0 {
		msg.Ack()
		return nil
	}

	metadata := map[string]interface{}{
		"system": map[string]interface{}{
			"entity_labels": entityLabelCounts(entry.Entities),
		},
	}

	err = t.appState.HistoryStore.UpdateEntryMetadata(ctx, entry.UUID, metadata)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warnf("HistoryEntityMetadataTask entry not found. Was the record deleted?")
			// Don't error out
			msg.Ack()
			return nil
		}
		return fmt.Errorf("HistoryEntityMetadataTask update failed: %w", err)
	}

	msg.Ack()

	return nil
}

func entityLabelCounts(entities []models.Entity) map[string]interface{} {
	counts := make(map[string]interface{}, len(entities))
	for _, entity := range entities {
		label := entity.Label
		if label == "" {
			label = "UNKNOWN"
		}
		if current, ok := counts[label].(int); ok {
			counts[label] = current + 1
		} else {
			counts[label] = 1
		}
	}
	return counts
}

func (t *HistoryEntityMetadataTask) HandleError(err error) {
	log.Errorf("HistoryEntityMetadataTask failed: %v", err)
}
