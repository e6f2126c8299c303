package config

// Config holds the configuration of the application.
// Use config.LoadConfig to create a new instance.
type Config struct {
	LLM        LLM              `mapstructure:"llm"`
	NLP        NLP              `mapstructure:"nlp"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Extractors ExtractorsConfig `mapstructure:"extractors"`
	Store      StoreConfig      `mapstructure:"store"`
	History    HistoryConfig    `mapstructure:"history"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
}

type LLM struct {
	// Service is the LLM backend. Only "openai" (and OpenAI-compatible
	// endpoints) is supported. Empty disables the LLM and precis falls
	// back to extractive summarization.
	Service string `mapstructure:"service"`
	Model   string `mapstructure:"model"`
	// OpenAIAPIKey is loaded from ENV, not the config file.
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_endpoint"`
}

// NLP configures the external NLP server used for entity extraction.
// An empty ServerURL enables the pattern-matching fallback.
type NLP struct {
	ServerURL string `mapstructure:"server_url"`
}

type SummarizerConfig struct {
	// MaxWords is the default summary word budget when a request does
	// not specify one.
	MaxWords int `mapstructure:"max_words"`
	MinWords int `mapstructure:"min_words"`
	// ChunkWords is the chunk size, in words, used to split very long
	// inputs before LLM summarization.
	ChunkWords int `mapstructure:"chunk_words"`
}

// ExtractorsConfig holds the configuration for all extractors.
type ExtractorsConfig struct {
	Entities EntityExtractorConfig `mapstructure:"entities"`
}

type EntityExtractorConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type StoreConfig struct {
	Type     string         `mapstructure:"type"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type HistoryConfig struct {
	// MaxEntries caps the number of retained history entries. Older
	// entries are soft deleted when the cap is exceeded. 0 disables
	// trimming.
	MaxEntries int `mapstructure:"max_entries"`
	// PurgeEvery is the interval, in minutes, between hard deletes of
	// soft deleted rows. 0 disables the purge processor.
	PurgeEvery int `mapstructure:"purge_every"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// MaxUploadMB caps the size of uploaded documents.
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	// Secret is loaded from ENV, not the config file.
	Secret   string `mapstructure:"secret"`
	Required bool   `mapstructure:"required"`
}
