package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
)

var log = internal.GetLogger()

type BaseTask struct {
	appState *models.AppState // nolint: unused
}

func (b *BaseTask) Execute(
	ctx context.Context, // nolint: revive
	msg *message.Message, // nolint: revive
) error {
	return nil
}

func (b *BaseTask) HandleError(err error) {
	log.Errorf("Task HandleError error: %s", err)
}

func Initialize(ctx context.Context, appState *models.AppState, router models.TaskRouter) {
	log.Info("Initializing tasks")

	addTask := func(ctx context.Context, name string, taskType models.TaskTopic, enabled bool, newTask func() models.Task) {
		if enabled {
			task := newTask()
			router.AddTask(ctx, name, taskType, task)
			log.Infof("%s task added to task router", name)
		}
	}

	addTask(
		ctx,
		string(models.HistoryTokenCountTopic),
		models.HistoryTokenCountTopic,
		appState.LLMClient != nil,
		func() models.Task { return NewHistoryTokenCountTask(appState) },
	)

	addTask(
		ctx,
		string(models.HistoryEntityMetadataTopic),
		models.HistoryEntityMetadataTopic,
		true, // Always enabled
		func() models.Task { return NewHistoryEntityMetadataTask(appState) },
	)
}

// historyEntryFromPayload unmarshals the task payload published when a
// history entry is created.
func historyEntryFromPayload(msg *message.Message) (*models.HistoryEntryTask, error) {
	var entry models.HistoryEntryTask
	if err := json.Unmarshal(msg.Payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history entry task payload: %w", err)
	}
	return &entry, nil
}
