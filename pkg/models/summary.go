package models

import (
	"time"

	"github.com/google/uuid"
)

// SummarizeRequest is the payload of a summarize call. Ephemeral:
// created per HTTP request and discarded after the response.
type SummarizeRequest struct {
	Text string `json:"text"     validate:"required"`
	// MaxWords is the summary word budget. 0 uses the configured
	// default.
	MaxWords int `json:"max_words" validate:"gte=0,lte=1000"`
}

// SummaryResult is the outcome of a summarize call. Persisted as a
// history entry.
type SummaryResult struct {
	UUID              uuid.UUID              `json:"uuid"`
	CreatedAt         time.Time              `json:"created_at"`
	OriginalText      string                 `json:"original_text"`
	Summary           string                 `json:"summary"`
	Entities          []Entity               `json:"entities"`
	OriginalWordCount int                    `json:"original_word_count"`
	SummaryWordCount  int                    `json:"summary_word_count"`
	CompressionRatio  float64                `json:"compression_ratio"`
	TokenCount        int                    `json:"token_count,omitempty"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// HistoryListResponse wraps a page of history entries.
type HistoryListResponse struct {
	Entries    []SummaryResult `json:"entries"`
	TotalCount int             `json:"total_count"`
	RowCount   int             `json:"row_count"`
}
