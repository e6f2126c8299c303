package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
)

// MinSummarizeWords is the minimum input size accepted for
// summarization.
const MinSummarizeWords = 20

var log = internal.GetLogger()

// Summarize produces a summary of text at most maxWords long. The
// configured LLM is used when available; any LLM failure falls back to
// extractive summarization so a request never fails for lack of a
// model.
func Summarize(
	ctx context.Context,
	appState *models.AppState,
	text string,
	maxWords int,
) (string, error) {
	text = strings.TrimSpace(text)
	wordCount := internal.WordCount(text)
	if wordCount < MinSummarizeWords {
		return "", models.ErrTextTooShort
	}

	if maxWords <= 0 {
		maxWords = appState.Config.Summarizer.MaxWords
	}

	if appState.LLMClient == nil {
		return ExtractiveSummary(text, maxWords), nil
	}

	summary, err := llmSummarize(ctx, appState, text, wordCount, maxWords)
	if err != nil {
		log.Warnf("llm summarization failed, using extractive fallback: %v", err)
		return ExtractiveSummary(text, maxWords), nil
	}

	// The model is instructed to stay under budget but isn't trusted to
	if internal.WordCount(summary) > wordCount {
		words := strings.Fields(summary)
		summary = strings.Join(words[:wordCount], " ")
	}

	return summary, nil
}

// llmSummarize summarizes text with the configured LLM. Long inputs are
// split into word chunks, each chunk is summarized independently, and
// the combined result is re-summarized when it still exceeds maxWords.
func llmSummarize(
	ctx context.Context,
	appState *models.AppState,
	text string,
	wordCount int,
	maxWords int,
) (string, error) {
	chunkWords := appState.Config.Summarizer.ChunkWords
	minWords := appState.Config.Summarizer.MinWords

	if wordCount <= chunkWords {
		// Dynamic budget: aim for 40% of the input, within bounds
		budget := wordCount * 2 / 5
		if budget < minWords {
			budget = minWords
		}
		if budget > maxWords {
			budget = maxWords
		}
		return summarizeChunk(ctx, appState.LLMClient, text, budget)
	}

	words := strings.Fields(text)
	summaries := make([]string, 0, (len(words)+chunkWords-1)/chunkWords)
	for start := 0; start < len(words); start += chunkWords {
		end := start + chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[start:end], " ")

		chunkBudget := (end - start) * 3 / 10
		if chunkBudget > 100 {
			chunkBudget = 100
		}
		if chunkBudget < minWords {
			chunkBudget = minWords
		}

		chunkSummary, err := summarizeChunk(ctx, appState.LLMClient, chunk, chunkBudget)
		if err != nil {
			return "", fmt.Errorf("chunk summarization failed: %w", err)
		}
		summaries = append(summaries, chunkSummary)
	}

	combined := strings.Join(summaries, " ")
	if internal.WordCount(combined) <= maxWords {
		return combined, nil
	}

	return summarizeChunk(ctx, appState.LLMClient, combined, maxWords)
}

func summarizeChunk(
	ctx context.Context,
	llm models.LLM,
	text string,
	maxWords int,
) (string, error) {
	prompt, err := internal.ParsePrompt(summaryPromptTemplate, summaryPromptData{
		MaxWords: maxWords,
		Text:     text,
	})
	if err != nil {
		return "", fmt.Errorf("error parsing summary prompt: %w", err)
	}

	promptTokens, err := llm.GetTokenCount(prompt)
	if err != nil {
		return "", err
	}
	if promptTokens >= llm.MaxInputTokens() {
		return "", fmt.Errorf(
			"prompt of %d tokens exceeds model context of %d",
			promptTokens,
			llm.MaxInputTokens(),
		)
	}

	// Rough words-to-tokens headroom for the completion
	summary, err := llm.Call(ctx, prompt, maxWords*2)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(summary), nil
}

// CompressionRatio is the summary word count divided by the original
// word count, clamped to (0, 1].
func CompressionRatio(originalWords, summaryWords int) float64 {
	if originalWords <= 0 || summaryWords <= 0 {
		return 1
	}
	ratio := float64(summaryWords) / float64(originalWords)
	if ratio > 1 {
		return 1
	}
	return ratio
}
