package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
	"github.com/getprecis/precis/pkg/store"
)

// OriginalTextStoredChars caps how much of the original input is
// retained per history entry. The full text is only ever needed for the
// response to the request that created the entry.
const OriginalTextStoredChars = 200

// NewPostgresHistoryStore returns a new PostgresHistoryStore. Use this
// to correctly initialize the store.
func NewPostgresHistoryStore(
	appState *models.AppState,
	client *bun.DB,
) (*PostgresHistoryStore, error) {
	if appState == nil {
		return nil, store.NewStorageError("nil appState received", nil)
	}

	phs := &PostgresHistoryStore{
		appState: appState,
		client:   client,
	}

	if err := phs.OnStart(context.Background()); err != nil {
		return nil, store.NewStorageError("failed to run OnStart", err)
	}
	return phs, nil
}

var _ models.HistoryStore = &PostgresHistoryStore{}

type PostgresHistoryStore struct {
	appState *models.AppState
	client   *bun.DB
}

func (phs *PostgresHistoryStore) OnStart(ctx context.Context) error {
	if err := CreateSchema(ctx, phs.client); err != nil {
		return store.NewStorageError("failed to ensure postgres schema setup", err)
	}

	return nil
}

func (phs *PostgresHistoryStore) GetClient() *bun.DB {
	return phs.client
}

// CreateEntry appends a history entry and trims the history to the
// configured cap. Only a prefix of the original text is stored.
func (phs *PostgresHistoryStore) CreateEntry(
	ctx context.Context,
	result *models.SummaryResult,
) (*models.SummaryResult, error) {
	if result == nil {
		return nil, store.NewStorageError("nil SummaryResult received", nil)
	}

	entry := SummaryHistorySchema{
		OriginalText:      internal.TruncateText(result.OriginalText, OriginalTextStoredChars),
		Summary:           result.Summary,
		OriginalWordCount: result.OriginalWordCount,
		SummaryWordCount:  result.SummaryWordCount,
		CompressionRatio:  result.CompressionRatio,
		TokenCount:        result.TokenCount,
		Entities:          result.Entities,
		Metadata:          result.Metadata,
	}
	_, err := phs.client.NewInsert().
		Model(&entry).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to create history entry", err)
	}

	if err := phs.trimToMaxEntries(ctx); err != nil {
		return nil, store.NewStorageError("failed to trim history", err)
	}

	return entryToResult(&entry)
}

// trimToMaxEntries soft deletes the oldest entries above the configured
// retention cap. A cap of 0 disables trimming.
func (phs *PostgresHistoryStore) trimToMaxEntries(ctx context.Context) error {
	maxEntries := phs.appState.Config.History.MaxEntries
	if maxEntries <= 0 {
		return nil
	}

	var cursorID int64
	err := phs.client.NewSelect().
		Model((*SummaryHistorySchema)(nil)).
		Column("id").
		OrderExpr("id DESC").
		Offset(maxEntries-1).
		Limit(1).
		Scan(ctx, &cursorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to find trim cursor: %w", err)
	}

	_, err = phs.client.NewDelete().
		Model((*SummaryHistorySchema)(nil)).
		Where("id < ?", cursorID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to soft delete trimmed entries: %w", err)
	}

	return nil
}

// GetEntry retrieves a single entry by UUID.
func (phs *PostgresHistoryStore) GetEntry(
	ctx context.Context,
	entryUUID uuid.UUID,
) (*models.SummaryResult, error) {
	entry := SummaryHistorySchema{}
	err := phs.client.NewSelect().
		Model(&entry).
		Where("uuid = ?", entryUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("history entry " + entryUUID.String())
		}
		return nil, store.NewStorageError("failed to get history entry", err)
	}

	return entryToResult(&entry)
}

// ListEntries returns the most recent lastN entries in chronological
// order. lastN <= 0 returns all retained entries.
func (phs *PostgresHistoryStore) ListEntries(
	ctx context.Context,
	lastN int,
) ([]models.SummaryResult, error) {
	var entries []SummaryHistorySchema
	query := phs.client.NewSelect().
		Model(&entries).
		OrderExpr("id DESC")
	if lastN > 0 {
		query = query.Limit(lastN)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, store.NewStorageError("failed to list history entries", err)
	}

	// reverse into chronological order
	results := make([]models.SummaryResult, len(entries))
	for i := range entries {
		result, err := entryToResult(&entries[i])
		if err != nil {
			return nil, err
		}
		results[len(entries)-1-i] = *result
	}

	return results, nil
}

// EntryCount returns the number of retained entries.
func (phs *PostgresHistoryStore) EntryCount(ctx context.Context) (int, error) {
	count, err := phs.client.NewSelect().
		Model((*SummaryHistorySchema)(nil)).
		Count(ctx)
	if err != nil {
		return 0, store.NewStorageError("failed to count history entries", err)
	}

	return count, nil
}

// UpdateEntryMetadata merges metadata into an entry's existing metadata
// map, creating keys and values if they don't exist.
func (phs *PostgresHistoryStore) UpdateEntryMetadata(
	ctx context.Context,
	entryUUID uuid.UUID,
	metadata map[string]interface{},
) error {
	// Acquire a lock for this entry. This is to prevent concurrent
	// updates to the entry metadata.
	lockID, err := acquireAdvisoryLock(ctx, phs.client, entryUUID.String())
	if err != nil {
		return store.NewStorageError("failed to acquire advisory lock", err)
	}
	defer func(ctx context.Context, db bun.IDB, lockID uint64) {
		if err := releaseAdvisoryLock(ctx, db, lockID); err != nil {
			log.Errorf("failed to release advisory lock: %v", err)
		}
	}(ctx, phs.client, lockID)

	entry := SummaryHistorySchema{}
	err = phs.client.NewSelect().
		Model(&entry).
		Where("uuid = ?", entryUUID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewNotFoundError("history entry " + entryUUID.String())
		}
		return store.NewStorageError("failed to get history entry", err)
	}

	dbMetadata := entry.Metadata
	if err := mergo.Merge(&dbMetadata, metadata, mergo.WithOverride); err != nil {
		return store.NewStorageError("failed to merge metadata", err)
	}

	_, err = phs.client.NewUpdate().
		Model(&entry).
		Set("metadata = ?", dbMetadata).
		Where("uuid = ?", entryUUID).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to update entry metadata", err)
	}

	return nil
}

// UpdateEntryTokenCount sets the token count of an entry.
func (phs *PostgresHistoryStore) UpdateEntryTokenCount(
	ctx context.Context,
	entryUUID uuid.UUID,
	tokenCount int,
) error {
	res, err := phs.client.NewUpdate().
		Model((*SummaryHistorySchema)(nil)).
		Set("token_count = ?", tokenCount).
		Where("uuid = ?", entryUUID).
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to update entry token count", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return store.NewStorageError("failed to read rows affected", err)
	}
	if rows == 0 {
		return models.NewNotFoundError("history entry " + entryUUID.String())
	}

	return nil
}

// ClearHistory soft deletes all retained entries.
func (phs *PostgresHistoryStore) ClearHistory(ctx context.Context) error {
	_, err := phs.client.NewDelete().
		Model((*SummaryHistorySchema)(nil)).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to clear history", err)
	}

	return nil
}

// PurgeDeleted hard deletes all soft deleted entries.
func (phs *PostgresHistoryStore) PurgeDeleted(ctx context.Context) error {
	return purgeDeleted(ctx, phs.client)
}

func (phs *PostgresHistoryStore) Close() error {
	if phs.client != nil {
		return phs.client.Close()
	}
	return nil
}

func entryToResult(entry *SummaryHistorySchema) (*models.SummaryResult, error) {
	result := models.SummaryResult{}
	if err := copier.Copy(&result, entry); err != nil {
		return nil, store.NewStorageError("failed to copy history entry", err)
	}

	return &result, nil
}

// acquireAdvisoryLock acquires a PostgreSQL advisory lock for the given key.
func acquireAdvisoryLock(ctx context.Context, db bun.IDB, key string) (uint64, error) {
	lockID := generateLockID(key)

	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_lock(?)", lockID); err != nil {
		return 0, store.NewStorageError("failed to acquire advisory lock", err)
	}

	return lockID, nil
}

// releaseAdvisoryLock releases a PostgreSQL advisory lock for the given key.
// Accepts a bun.IDB, which can be either a *bun.DB or *bun.Tx.
func releaseAdvisoryLock(ctx context.Context, db bun.IDB, lockID uint64) error {
	if _, err := db.ExecContext(ctx, "SELECT pg_advisory_unlock(?)", lockID); err != nil {
		return store.NewStorageError("failed to release advisory lock", err)
	}

	return nil
}

// generateLockID deterministically maps a key onto a 64-bit advisory
// lock ID.
func generateLockID(key string) uint64 {
	hasher := sha256.New()
	hasher.Write([]byte(key))
	hash := hasher.Sum(nil)
	return binary.BigEndian.Uint64(hash[:8])
}
