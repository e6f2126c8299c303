package config

import (
	"strings"

	"github.com/getprecis/precis/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PRECIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	if err := viper.BindEnv("llm.openai_api_key", "PRECIS_OPENAI_API_KEY"); err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}
	if err := viper.BindEnv("auth.secret", "PRECIS_AUTH_SECRET"); err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}
	// PORT is the conventional platform-provided listen port
	if err := viper.BindEnv("server.port", "PORT", "PRECIS_SERVER_PORT"); err != nil {
		log.Fatalf("Error binding environment variable: %s", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults fills in defaults for values that are zero after
// unmarshalling.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 10
	}
	if cfg.Summarizer.MaxWords == 0 {
		cfg.Summarizer.MaxWords = 150
	}
	if cfg.Summarizer.MinWords == 0 {
		cfg.Summarizer.MinWords = 30
	}
	if cfg.Summarizer.ChunkWords == 0 {
		cfg.Summarizer.ChunkWords = 800
	}
	if cfg.History.MaxEntries == 0 {
		cfg.History.MaxEntries = 50
	}
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Warn(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
