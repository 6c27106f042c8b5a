package bookdam

import (
	"log/slog"

	"github.com/bookdam/bookdam/infrastructure/aladin"
	"github.com/bookdam/bookdam/infrastructure/provider"
	"github.com/bookdam/bookdam/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	appConfig config.AppConfig
	logger    *slog.Logger
	ai        provider.Provider
	aladin    []aladin.ClientOption
}

func newClientConfig() *clientConfig {
	return &clientConfig{appConfig: config.Default()}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig replaces the whole application configuration, usually one
// loaded from the environment.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) { c.appConfig = cfg }
}

// WithConfigOptions applies overrides on top of the current
// configuration.
func WithConfigOptions(opts ...config.AppConfigOption) Option {
	return func(c *clientConfig) { c.appConfig = c.appConfig.Apply(opts...) }
}

// WithDBURL sets the database URL.
func WithDBURL(url string) Option {
	return WithConfigOptions(config.WithDBURL(url))
}

// WithLogger sets the logger. When unset one is built from the
// configured log level and format.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithProvider injects the AI provider, bypassing endpoint
// configuration. Tests use this to substitute fakes.
func WithProvider(p provider.Provider) Option {
	return func(c *clientConfig) { c.ai = p }
}

// WithAladinOptions forwards options to the Aladin client, such as a
// base URL override for tests.
func WithAladinOptions(opts ...aladin.ClientOption) Option {
	return func(c *clientConfig) { c.aladin = append(c.aladin, opts...) }
}
