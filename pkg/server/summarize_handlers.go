package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/extractors"
	"github.com/getprecis/precis/pkg/ingest"
	"github.com/getprecis/precis/pkg/models"
	"github.com/getprecis/precis/pkg/summarizer"
)

var log = internal.GetLogger()

var validate = validator.New()

// PostSummarizeHandler summarizes the posted text, extracts entities,
// persists a history entry, and responds with the stored result.
func PostSummarizeHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request models.SummarizeRequest
		if err := decodeJSON(r, &request); err != nil {
			renderError(w, fmt.Errorf("failed to decode request: %w", err), http.StatusBadRequest)
			return
		}
		if err := validate.Struct(&request); err != nil {
			renderError(w, err, http.StatusBadRequest)
			return
		}

		result, err := summarizeAndStore(r, appState, request.Text, request.MaxWords)
		if err != nil {
			renderSummarizeError(w, err)
			return
		}

		if err := encodeJSON(w, result); err != nil {
			renderError(w, err, http.StatusInternalServerError)
			return
		}
	}
}

// summarizeAndStore runs the summarize pipeline: clean, summarize,
// extract entities, compute analytics, persist, and publish enrichment
// tasks.
func summarizeAndStore(
	r *http.Request,
	appState *models.AppState,
	text string,
	maxWords int,
) (*models.SummaryResult, error) {
	ctx := r.Context()

	text = ingest.CleanText(text)

	summary, err := summarizer.Summarize(ctx, appState, text, maxWords)
	if err != nil {
		return nil, err
	}

	entities := extractors.ExtractEntities(ctx, appState, text)

	originalWords := internal.WordCount(text)
	summaryWords := internal.WordCount(summary)

	result := &models.SummaryResult{
		OriginalText:      text,
		Summary:           summary,
		Entities:          entities,
		OriginalWordCount: originalWords,
		SummaryWordCount:  summaryWords,
		CompressionRatio:  summarizer.CompressionRatio(originalWords, summaryWords),
	}

	entry, err := appState.HistoryStore.CreateEntry(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to store history entry: %w", err)
	}

	publishEnrichmentTasks(ctx, appState, entry)

	// respond with the full input text, not the stored prefix
	entry.OriginalText = text

	return entry, nil
}

// publishEnrichmentTasks hands the stored entry to the async enrichment
// tasks. Publish failures are logged, not surfaced: the entry is
// already stored and the response should not fail over enrichment.
func publishEnrichmentTasks(
	ctx context.Context,
	appState *models.AppState,
	entry *models.SummaryResult,
) {
	if appState.TaskPublisher == nil {
		return
	}

	payload := models.HistoryEntryTask{
		UUID:     entry.UUID,
		Summary:  entry.Summary,
		Entities: entry.Entities,
	}
	metadata := map[string]string{
		"correlation_id": middleware.GetReqID(ctx),
	}

	for _, topic := range []models.TaskTopic{
		models.HistoryTokenCountTopic,
		models.HistoryEntityMetadataTopic,
	} {
		if err := appState.TaskPublisher.Publish(topic, metadata, payload); err != nil {
			log.Errorf("failed to publish %s task: %v", topic, err)
		}
	}
}

func renderSummarizeError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrTextTooShort) {
		renderError(w, err, http.StatusBadRequest)
		return
	}
	renderError(w, err, http.StatusInternalServerError)
}
