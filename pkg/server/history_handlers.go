package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/getprecis/precis/pkg/models"
)

const DefaultHistoryLimit = 10

const OKResponse = "OK"

// GetHistoryHandler returns the most recent history entries in
// chronological order. The limit query param overrides the default of
// 10; limit=0 is the default, negative limits return everything.
func GetHistoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := extractQueryStringValueToInt[int](r, "limit")
		if err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}
		if limit == 0 {
			limit = DefaultHistoryLimit
		}

		entries, err := appState.HistoryStore.ListEntries(r.Context(), limit)
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		total, err := appState.HistoryStore.EntryCount(r.Context())
		if err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		response := models.HistoryListResponse{
			Entries:    entries,
			TotalCount: total,
			RowCount:   len(entries),
		}
		if err := encodeJSON(w, response); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// GetHistoryEntryHandler returns a single history entry by UUID.
func GetHistoryEntryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entryUUID := parseUUIDFromURL(r, w, "entryUUID")
		if entryUUID == uuid.Nil {
			return
		}

		entry, err := appState.HistoryStore.GetEntry(r.Context(), entryUUID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				renderError(w, err, http.StatusNotFound)
				return
			}
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := encodeJSON(w, entry); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// DeleteHistoryHandler clears the history. Entries are soft deleted
// and hard deleted later by the purge processor.
func DeleteHistoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := appState.HistoryStore.ClearHistory(r.Context()); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(OKResponse))
	}
}
