// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///bookdam.db)
	DBURL string `envconfig:"DB_URL" default:"sqlite:///bookdam.db"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// JWTSecret signs access tokens. Required when serving the API.
	// Env: JWT_SECRET
	JWTSecret string `envconfig:"JWT_SECRET"`

	// JWTAccessMinutes is the access token lifetime in minutes.
	// Env: JWT_ACCESS_MINUTES (default: 30)
	JWTAccessMinutes int `envconfig:"JWT_ACCESS_MINUTES" default:"30"`

	// CORSAllowedOrigins is a comma-separated origin allow-list.
	// Env: CORS_ALLOWED_ORIGINS
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// AladinAPIKey is the TTB key for the Aladin ItemSearch API,
	// used only by the fetch-books command.
	// Env: ALADIN_API_KEY
	AladinAPIKey string `envconfig:"ALADIN_API_KEY"`

	// AI configures the LLM / embedding endpoint.
	AI AIEnv `envconfig:"AI_ENDPOINT"`

	// EmbedLazyLimit caps on-demand embeddings computed per recommendation request.
	// Env: AI_EMBED_LAZY_LIMIT (default: 10)
	EmbedLazyLimit int `envconfig:"AI_EMBED_LAZY_LIMIT" default:"10"`

	// MaxEmbedChars caps the character length of any text sent for embedding.
	// Env: AI_MAX_EMBED_CHARS (default: 2500)
	MaxEmbedChars int `envconfig:"AI_MAX_EMBED_CHARS" default:"2500"`
}

// AIEnv holds environment configuration for the AI endpoint.
type AIEnv struct {
	// Provider selects the backend: gemini or openai.
	// Env: AI_ENDPOINT_PROVIDER (default: gemini)
	Provider string `envconfig:"PROVIDER" default:"gemini"`

	// BaseURL overrides the provider's default base URL (e.g. a proxy).
	// Env: AI_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// APIKey authenticates against the provider.
	// Env: AI_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Model is the text-generation model identifier.
	// Env: AI_ENDPOINT_MODEL (default: gemini-2.5-flash)
	Model string `envconfig:"MODEL" default:"gemini-2.5-flash"`

	// EmbedModel is the embedding model identifier.
	// Env: AI_ENDPOINT_EMBED_MODEL (default: text-embedding-004)
	EmbedModel string `envconfig:"EMBED_MODEL" default:"text-embedding-004"`

	// ConnectTimeout is the connection timeout in seconds.
	// Env: AI_ENDPOINT_CONNECT_TIMEOUT (default: 5)
	ConnectTimeout float64 `envconfig:"CONNECT_TIMEOUT" default:"5"`

	// Timeout is the per-request timeout in seconds.
	// Env: AI_ENDPOINT_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`
}

// LoadFromEnv reads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts environment configuration to application configuration.
func (e EnvConfig) ToAppConfig() AppConfig {
	var origins []string
	for _, o := range strings.Split(e.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	format := LogFormatPretty
	if strings.EqualFold(e.LogFormat, "json") {
		format = LogFormatJSON
	}

	return AppConfig{
		host:           e.Host,
		port:           e.Port,
		dbURL:          e.DBURL,
		logLevel:       strings.ToUpper(e.LogLevel),
		logFormat:      format,
		jwtSecret:      e.JWTSecret,
		jwtAccessTTL:   time.Duration(e.JWTAccessMinutes) * time.Minute,
		corsOrigins:    origins,
		aladinAPIKey:   e.AladinAPIKey,
		ai:             e.AI.toEndpoint(),
		embedLazyLimit: e.EmbedLazyLimit,
		maxEmbedChars:  e.MaxEmbedChars,
	}
}

func (a AIEnv) toEndpoint() Endpoint {
	return Endpoint{
		provider:       strings.ToLower(a.Provider),
		baseURL:        a.BaseURL,
		apiKey:         a.APIKey,
		model:          a.Model,
		embedModel:     a.EmbedModel,
		connectTimeout: time.Duration(a.ConnectTimeout * float64(time.Second)),
		timeout:        time.Duration(a.Timeout * float64(time.Second)),
	}
}
