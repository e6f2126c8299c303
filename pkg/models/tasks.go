package models

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type TaskTopic string

const (
	HistoryTokenCountTopic     TaskTopic = "history_token_count"
	HistoryEntityMetadataTopic TaskTopic = "history_entity_metadata"
)

type Task interface {
	Execute(ctx context.Context, event *message.Message) error
	HandleError(err error)
}

type TaskRouter interface {
	Run(ctx context.Context) error
	AddTask(ctx context.Context, name string, taskType TaskTopic, task Task)
	IsRunning() bool
	Close() error
}

type TaskPublisher interface {
	Publish(taskType TaskTopic, metadata map[string]string, payload any) error
	Close() error
}

// HistoryEntryTask is the payload published to enrichment tasks after
// a history entry is created.
type HistoryEntryTask struct {
	UUID     uuid.UUID `json:"uuid"`
	Summary  string    `json:"summary"`
	Entities []Entity  `json:"entities,omitempty"`
}
