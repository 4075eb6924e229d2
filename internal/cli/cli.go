// Package cli implements the swh-webhooks command line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	webhooks "github.com/swhkit/webhooks"
)

// flags shared by every subcommand.
var (
	configFile string
	serverURL  string
	authToken  string
)

// New builds the swh-webhooks root command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "swh-webhooks",
		Short:         "Manage webhook event types, endpoints and events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&configFile, "config-file", "C", "",
		"configuration file path (defaults to $"+webhooks.ConfigFileEnvVar+")")
	flags.StringVarP(&serverURL, "svix-url", "u", os.Getenv("SVIX_URL"),
		"URL of the Svix server REST API (defaults to $SVIX_URL)")
	flags.StringVarP(&authToken, "svix-token", "t", os.Getenv("SVIX_TOKEN"),
		"bearer token for the Svix server REST API (defaults to $SVIX_TOKEN)")

	root.AddCommand(newEventTypeCommand())
	root.AddCommand(newEndpointCommand())
	root.AddCommand(newEventCommand())
	return root
}

// newClient wires a Webhooks client from the persistent flags.
func newClient() (*webhooks.Webhooks, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	return webhooks.New(
		webhooks.WithConfigFile(configFile),
		webhooks.WithServerURL(serverURL),
		webhooks.WithAuthToken(authToken),
		webhooks.WithLogger(logger),
	)
}
