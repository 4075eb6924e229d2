package webhooks

import (
	"log/slog"

	"github.com/swhkit/webhooks/svix"
)

// Option configures a Webhooks instance.
type Option func(*Webhooks) error

// WithConfigFile sets the YAML configuration file to read settings from.
// Settings given through other options take precedence over the file.
func WithConfigFile(path string) Option {
	return func(w *Webhooks) error {
		w.configFile = path
		return nil
	}
}

// WithServerURL sets the base URL of the delivery service REST API.
func WithServerURL(url string) Option {
	return func(w *Webhooks) error {
		w.config.ServerURL = url
		return nil
	}
}

// WithAuthToken sets the bearer token used against the delivery service.
func WithAuthToken(token string) Option {
	return func(w *Webhooks) error {
		w.config.AuthToken = token
		return nil
	}
}

// WithEventRetentionPeriod sets the number of days sent events are retained,
// taking precedence over any configuration file value.
func WithEventRetentionPeriod(days int) Option {
	return func(w *Webhooks) error {
		w.config.EventRetentionPeriod = days
		w.retentionSet = true
		return nil
	}
}

// WithLogger sets the structured logger for the Webhooks instance.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Webhooks) error {
		w.logger = logger
		return nil
	}
}

// WithClient sets the delivery service client directly, bypassing the HTTP
// client construction. Used to plug in a test double.
func WithClient(client svix.Client) Option {
	return func(w *Webhooks) error {
		w.client = client
		return nil
	}
}
