package llms

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkoukk/tiktoken-go"

	"github.com/getprecis/precis/config"
	"github.com/getprecis/precis/pkg/models"
)

const EncodingFallback = "cl100k_base"

var _ models.LLM = &OpenAILLM{}

// OpenAILLM calls an OpenAI (or OpenAI-compatible) chat completion
// endpoint. Requests are retried with a backoff on transient failures.
type OpenAILLM struct {
	client    openai.Client
	model     string
	maxTokens int
	encoding  *tiktoken.Tiktoken

	timeout     time.Duration
	maxAttempts uint
}

func NewOpenAILLM(_ context.Context, cfg *config.Config) (*OpenAILLM, error) {
	apiKey := cfg.LLM.OpenAIAPIKey
	if apiKey == "" {
		return nil, errors.New(
			"OpenAI API key not set. Ensure PRECIS_OPENAI_API_KEY is set in your environment",
		)
	}

	model, err := GetLLMModelName(cfg)
	if err != nil {
		return nil, err
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(
			NewRetryableHTTPClient(MaxOpenAIAPIRequestAttempts, OpenAIAPITimeout).StandardClient(),
		),
	}
	if cfg.LLM.OpenAIEndpoint != "" {
		options = append(options, option.WithBaseURL(cfg.LLM.OpenAIEndpoint))
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Custom deployments won't resolve to a known encoding
		encoding, err = tiktoken.GetEncoding(EncodingFallback)
		if err != nil {
			return nil, NewLLMError("error loading tokenizer encoding", err)
		}
	}

	maxTokens, ok := MaxLLMTokensMap[model]
	if !ok {
		maxTokens = MaxTokensFallback
	}

	return &OpenAILLM{
		client:      openai.NewClient(options...),
		model:       model,
		maxTokens:   maxTokens,
		encoding:    encoding,
		timeout:     OpenAIAPITimeout,
		maxAttempts: 3,
	}, nil
}

// Call runs a chat completion against the prompt and returns the
// completion text.
func (l *OpenAILLM) Call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = MaxTokensFallback
	}

	retryCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var completion string
	err := retry.Do(
		func() error {
			resp, err := l.client.Chat.Completions.New(retryCtx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(l.model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.UserMessage(prompt),
				},
				Temperature:         openai.Float(DefaultTemperature),
				MaxCompletionTokens: openai.Int(int64(maxTokens)),
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return errors.New("chat completion choices are missing")
			}
			completion = strings.TrimSpace(resp.Choices[0].Message.Content)
			if completion == "" {
				return errors.New("chat completion content is empty")
			}
			return nil
		},
		retry.Attempts(l.maxAttempts),
		retry.Context(retryCtx),
	)
	if err != nil {
		return "", NewLLMError("chat completion failed", err)
	}

	return completion, nil
}

// GetTokenCount returns the number of tokens in the given text.
func (l *OpenAILLM) GetTokenCount(text string) (int, error) {
	return len(l.encoding.Encode(text, nil, nil)), nil
}

// MaxInputTokens returns the context budget of the configured model.
func (l *OpenAILLM) MaxInputTokens() int {
	return l.maxTokens
}
