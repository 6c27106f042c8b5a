package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingAPIKey indicates the AI endpoint is configured without an API key.
// This is a startup-time configuration error: there is no fallback for a fully
// unconfigured AI service.
var ErrMissingAPIKey = errors.New("AI endpoint API key is not configured")

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures the AI text-generation / embedding endpoint.
type Endpoint struct {
	provider       string
	baseURL        string
	apiKey         string
	model          string
	embedModel     string
	connectTimeout time.Duration
	timeout        time.Duration
}

// Provider returns the provider name (gemini or openai).
func (e Endpoint) Provider() string { return e.provider }

// BaseURL returns the base URL override, if any.
func (e Endpoint) BaseURL() string { return e.baseURL }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Model returns the text-generation model identifier.
func (e Endpoint) Model() string { return e.model }

// EmbedModel returns the embedding model identifier.
func (e Endpoint) EmbedModel() string { return e.embedModel }

// ConnectTimeout returns the connection timeout.
func (e Endpoint) ConnectTimeout() time.Duration { return e.connectTimeout }

// Timeout returns the per-request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// AppConfig is the resolved application configuration.
type AppConfig struct {
	host           string
	port           int
	dbURL          string
	logLevel       string
	logFormat      LogFormat
	jwtSecret      string
	jwtAccessTTL   time.Duration
	corsOrigins    []string
	aladinAPIKey   string
	ai             Endpoint
	embedLazyLimit int
	maxEmbedChars  int
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port listen address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level name.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// JWTSecret returns the token signing secret.
func (c AppConfig) JWTSecret() string { return c.jwtSecret }

// JWTAccessTTL returns the access token lifetime.
func (c AppConfig) JWTAccessTTL() time.Duration { return c.jwtAccessTTL }

// CORSOrigins returns the allowed CORS origins.
func (c AppConfig) CORSOrigins() []string { return c.corsOrigins }

// AladinAPIKey returns the Aladin TTB key.
func (c AppConfig) AladinAPIKey() string { return c.aladinAPIKey }

// AI returns the AI endpoint configuration.
func (c AppConfig) AI() Endpoint { return c.ai }

// EmbedLazyLimit returns the per-request lazy embedding budget.
func (c AppConfig) EmbedLazyLimit() int { return c.embedLazyLimit }

// MaxEmbedChars returns the embedding input character cap.
func (c AppConfig) MaxEmbedChars() int { return c.maxEmbedChars }

// ValidateAI verifies the AI endpoint is usable. A missing API key is fatal
// because every recommendation depends on the endpoint existing, even though
// individual call failures degrade gracefully.
func (c AppConfig) ValidateAI() error {
	if c.ai.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Default returns the built-in configuration, matching the environment
// variable defaults. The AI endpoint has no API key and must be set (or
// a provider injected) before recommendations work.
func Default() AppConfig {
	return AppConfig{
		host:         "0.0.0.0",
		port:         8080,
		dbURL:        "sqlite:///bookdam.db",
		logLevel:     "INFO",
		logFormat:    LogFormatPretty,
		jwtAccessTTL: 30 * time.Minute,
		ai: Endpoint{
			provider:       "gemini",
			model:          "gemini-2.5-flash",
			embedModel:     "text-embedding-004",
			connectTimeout: 5 * time.Second,
			timeout:        30 * time.Second,
		},
		embedLazyLimit: 10,
		maxEmbedChars:  2500,
	}
}

// AppConfigOption mutates an AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost overrides the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort overrides the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDBURL overrides the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithJWTSecret overrides the token signing secret.
func WithJWTSecret(secret string) AppConfigOption {
	return func(c *AppConfig) { c.jwtSecret = secret }
}

// WithAladinAPIKey overrides the Aladin TTB key.
func WithAladinAPIKey(key string) AppConfigOption {
	return func(c *AppConfig) { c.aladinAPIKey = key }
}

// WithCORSOrigins overrides the allowed CORS origins.
func WithCORSOrigins(origins ...string) AppConfigOption {
	return func(c *AppConfig) { c.corsOrigins = origins }
}

// Apply returns a copy of the config with the options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
