package llms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getprecis/precis/config"
)

func TestNewLLMClient(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     *config.Config
		wantNil bool
		wantErr bool
	}{
		{
			name:    "empty service returns nil client",
			cfg:     &config.Config{},
			wantNil: true,
			wantErr: false,
		},
		{
			name: "openai with valid model",
			cfg: &config.Config{
				LLM: config.LLM{
					Service:      "openai",
					Model:        "gpt-3.5-turbo",
					OpenAIAPIKey: "test-key",
				},
			},
			wantErr: false,
		},
		{
			name: "openai with invalid model",
			cfg: &config.Config{
				LLM: config.LLM{
					Service:      "openai",
					Model:        "not-a-model",
					OpenAIAPIKey: "test-key",
				},
			},
			wantErr: true,
		},
		{
			name: "custom endpoint skips model validation",
			cfg: &config.Config{
				LLM: config.LLM{
					Service:        "openai",
					Model:          "local-llama",
					OpenAIAPIKey:   "test-key",
					OpenAIEndpoint: "http://localhost:8080/v1",
				},
			},
			wantErr: false,
		},
		{
			name: "openai without api key",
			cfg: &config.Config{
				LLM: config.LLM{
					Service: "openai",
					Model:   "gpt-3.5-turbo",
				},
			},
			wantErr: true,
		},
		{
			name: "unknown service",
			cfg: &config.Config{
				LLM: config.LLM{Service: "copperhead"},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewLLMClient(context.Background(), tc.cfg)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.wantNil {
				assert.Nil(t, client)
			} else {
				assert.NotNil(t, client)
			}
		})
	}
}

func TestGetLLMModelName(t *testing.T) {
	t.Run("invalid model name", func(t *testing.T) {
		cfg := &config.Config{LLM: config.LLM{Model: "gpt-nonexistent"}}
		_, err := GetLLMModelName(cfg)
		require.Error(t, err)
	})

	t.Run("valid model name", func(t *testing.T) {
		cfg := &config.Config{LLM: config.LLM{Model: "gpt-4"}}
		model, err := GetLLMModelName(cfg)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4", model)
	})

	t.Run("custom endpoint bypasses validation", func(t *testing.T) {
		cfg := &config.Config{
			LLM: config.LLM{Model: "anything", OpenAIEndpoint: "http://localhost:8080"},
		}
		model, err := GetLLMModelName(cfg)
		require.NoError(t, err)
		assert.Equal(t, "anything", model)
	})
}

func TestOpenAILLMTokenCount(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLM{
			Service:      "openai",
			Model:        "gpt-3.5-turbo",
			OpenAIAPIKey: "test-key",
		},
	}
	client, err := NewOpenAILLM(context.Background(), cfg)
	require.NoError(t, err)

	count, err := client.GetTokenCount("the quick brown fox jumps over the lazy dog")
	require.NoError(t, err)
	assert.Greater(t, count, 0)

	empty, err := client.GetTokenCount("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty)

	assert.Equal(t, MaxLLMTokensMap["gpt-3.5-turbo"], client.MaxInputTokens())
}
