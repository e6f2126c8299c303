package models

import (
	"github.com/getprecis/precis/config"
)

// AppState holds the shared state of the application.
// Use cmd.NewAppState to create a new instance.
type AppState struct {
	LLMClient     LLM
	HistoryStore  HistoryStore
	TaskRouter    TaskRouter
	TaskPublisher TaskPublisher
	Config        *config.Config
}
