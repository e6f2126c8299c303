package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
)

// NewInMemoryHistoryStore returns a HistoryStore backed by a slice.
// Used in tests that don't need postgres.
func NewInMemoryHistoryStore(maxEntries int) *InMemoryHistoryStore {
	return &InMemoryHistoryStore{maxEntries: maxEntries}
}

var _ models.HistoryStore = &InMemoryHistoryStore{}

type InMemoryHistoryStore struct {
	mu         sync.Mutex
	entries    []models.SummaryResult
	maxEntries int
	closed     bool
}

func (s *InMemoryHistoryStore) CreateEntry(
	_ context.Context,
	result *models.SummaryResult,
) (*models.SummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := *result
	entry.UUID = uuid.New()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, entry)

	if s.maxEntries > 0 && len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}

	return &entry, nil
}

func (s *InMemoryHistoryStore) GetEntry(
	_ context.Context,
	entryUUID uuid.UUID,
) (*models.SummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].UUID == entryUUID {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, models.NewNotFoundError("history entry " + entryUUID.String())
}

func (s *InMemoryHistoryStore) ListEntries(
	_ context.Context,
	lastN int,
) ([]models.SummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries
	if lastN > 0 && len(entries) > lastN {
		entries = entries[len(entries)-lastN:]
	}

	result := make([]models.SummaryResult, len(entries))
	copy(result, entries)
	return result, nil
}

func (s *InMemoryHistoryStore) EntryCount(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries), nil
}

func (s *InMemoryHistoryStore) UpdateEntryMetadata(
	_ context.Context,
	entryUUID uuid.UUID,
	metadata map[string]interface{},
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].UUID == entryUUID {
			s.entries[i].Metadata = internal.MergeMaps(s.entries[i].Metadata, metadata)
			return nil
		}
	}
	return models.NewNotFoundError("history entry " + entryUUID.String())
}

func (s *InMemoryHistoryStore) UpdateEntryTokenCount(
	_ context.Context,
	entryUUID uuid.UUID,
	tokenCount int,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].UUID == entryUUID {
			s.entries[i].TokenCount = tokenCount
			return nil
		}
	}
	return models.NewNotFoundError("history entry " + entryUUID.String())
}

func (s *InMemoryHistoryStore) ClearHistory(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return nil
}

func (s *InMemoryHistoryStore) PurgeDeleted(_ context.Context) error {
	return nil
}

func (s *InMemoryHistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *InMemoryHistoryStore) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
