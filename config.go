package webhooks

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ConfigFileEnvVar names the environment variable holding the default
// configuration file path, consulted when no explicit file is given.
const ConfigFileEnvVar = "SWH_CONFIG_FILENAME"

// DefaultEventRetentionPeriod is the number of days sent events remain
// queryable when no retention period is configured.
const DefaultEventRetentionPeriod = 90

// Config holds the configuration for a Webhooks instance.
type Config struct {
	// ServerURL is the base URL of the delivery service REST API.
	ServerURL string

	// AuthToken is the bearer token used to authenticate against the
	// delivery service.
	AuthToken string

	// EventRetentionPeriod is the number of days sent events are retained,
	// in days.
	EventRetentionPeriod int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EventRetentionPeriod: DefaultEventRetentionPeriod,
	}
}

// loadConfigFile merges settings from a YAML configuration file into cfg.
// Fields already set on cfg (by options) take precedence over the file;
// retentionSet reports whether the retention period was set explicitly.
//
// Expected layout:
//
//	webhooks:
//	  event_retention_period: 90
//	  svix:
//	    server_url: http://localhost:8071
//	    auth_token: <token>
func loadConfigFile(cfg *Config, path string, retentionSet bool) error {
	if path == "" {
		path = os.Getenv(ConfigFileEnvVar)
	}
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("webhooks: reading config file %s: %w", path, err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = v.GetString("webhooks.svix.server_url")
	}
	if cfg.AuthToken == "" {
		cfg.AuthToken = v.GetString("webhooks.svix.auth_token")
	}
	if !retentionSet {
		if period := v.GetInt("webhooks.event_retention_period"); period > 0 {
			cfg.EventRetentionPeriod = period
		}
	}
	return nil
}
