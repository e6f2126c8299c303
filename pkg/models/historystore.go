package models

import (
	"context"

	"github.com/google/uuid"
)

// HistoryStore persists summarization results in insertion order.
type HistoryStore interface {
	// CreateEntry appends a new history entry and trims the history to
	// the configured cap. Returns the stored entry with its UUID and
	// timestamps populated.
	CreateEntry(ctx context.Context, result *SummaryResult) (*SummaryResult, error)
	// GetEntry retrieves a single entry by UUID.
	GetEntry(ctx context.Context, entryUUID uuid.UUID) (*SummaryResult, error)
	// ListEntries returns the most recent lastN entries in
	// chronological order. lastN <= 0 returns all retained entries.
	ListEntries(ctx context.Context, lastN int) ([]SummaryResult, error)
	// EntryCount returns the number of retained entries.
	EntryCount(ctx context.Context) (int, error)
	// UpdateEntryMetadata merges metadata into an entry's existing
	// metadata.
	UpdateEntryMetadata(
		ctx context.Context,
		entryUUID uuid.UUID,
		metadata map[string]interface{},
	) error
	// UpdateEntryTokenCount sets the token count of an entry.
	UpdateEntryTokenCount(ctx context.Context, entryUUID uuid.UUID, tokenCount int) error
	// ClearHistory soft deletes all entries.
	ClearHistory(ctx context.Context) error
	// PurgeDeleted hard deletes all soft deleted entries.
	PurgeDeleted(ctx context.Context) error
	// Close is called when the application is shutting down.
	Close() error
}
