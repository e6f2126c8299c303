package extractors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
)

const MaxEntities = 20

const nerRetryAttempts = 3
const nerRetryDelay = time.Second

var log = internal.GetLogger()

// ExtractEntities returns the named entities found in text. The
// external NLP server is used when configured; otherwise, or when the
// server call fails, pattern-matching extraction is used so a request
// never fails for lack of an NER model.
func ExtractEntities(
	ctx context.Context,
	appState *models.AppState,
	text string,
) []models.Entity {
	if !appState.Config.Extractors.Entities.Enabled {
		return nil
	}

	if appState.Config.NLP.ServerURL == "" {
		return FallbackEntities(text)
	}

	entities, err := callEntityExtractor(ctx, appState, text)
	if err != nil {
		log.Warnf("entity extraction call failed, using pattern fallback: %v", err)
		return FallbackEntities(text)
	}

	return dedupeEntities(entities)
}

// callEntityExtractor POSTs the text to the NLP server's /entities
// endpoint. The request is retried on transient failures.
func callEntityExtractor(
	ctx context.Context,
	appState *models.AppState,
	text string,
) ([]models.Entity, error) {
	url := appState.Config.NLP.ServerURL + "/entities"

	requestBody := models.EntityRequest{
		Texts: []models.EntityRequestRecord{
			{
				UUID:     uuid.New().String(),
				Text:     text,
				Language: "en",
			},
		},
	}
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling entity request: %w", err)
	}

	var response models.EntityResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(
				ctx,
				http.MethodPost,
				url,
				bytes.NewBuffer(jsonBody),
			)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("entity extractor returned status %d", resp.StatusCode)
			}

			bodyBytes, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			return json.Unmarshal(bodyBytes, &response)
		},
		retry.Attempts(nerRetryAttempts),
		retry.Delay(nerRetryDelay),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}

	if len(response.Texts) == 0 {
		return nil, nil
	}

	return response.Texts[0].Entities, nil
}

// dedupeEntities drops duplicate and trivial entities, capping the
// result at MaxEntities.
func dedupeEntities(entities []models.Entity) []models.Entity {
	seen := make(map[string]struct{}, len(entities))
	result := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if len(e.Name) <= 1 {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		result = append(result, e)
		if len(result) >= MaxEntities {
			break
		}
	}
	return result
}
