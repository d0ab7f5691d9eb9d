package internal

import "github.com/subhashbohra/acloudresume-site/internal/updateservice"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	source updateservice.Source
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithSource overrides the feed source built from configuration. Used by
// callers that already hold a fetcher, and by tests.
func WithSource(src updateservice.Source) Option {
	return func(a *application) {
		a.source = src
	}
}
