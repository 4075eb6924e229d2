package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/swhkit/webhooks/endpoint"
)

func newEndpointCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Manage webhook endpoints",
	}
	cmd.AddCommand(
		newEndpointCreateCommand(),
		newEndpointListCommand(),
		newEndpointGetSecretCommand(),
		newEndpointDeleteCommand(),
	)
	return cmd
}

func newEndpointCreateCommand() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "create EVENT_TYPE_NAME URL",
		Short: "Register an endpoint receiving events of a given type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			return w.EndpointCreate(cmd.Context(), endpoint.Endpoint{
				EventTypeName: args[0],
				URL:           args[1],
				Channel:       channel,
			})
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "",
		"restrict the endpoint to events sent to this channel")
	return cmd
}

func newEndpointListCommand() *cobra.Command {
	var opts endpoint.ListOptions
	cmd := &cobra.Command{
		Use:   "list EVENT_TYPE_NAME",
		Short: "List endpoints receiving events of a given type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			for ep, err := range w.EndpointsList(cmd.Context(), args[0], opts) {
				if err != nil {
					return err
				}
				if ep.Channel != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (channel: %s)\n", ep.URL, ep.Channel)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), ep.URL)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Channel, "channel", "",
		"list endpoints for this channel (plus endpoints without one)")
	cmd.Flags().BoolVar(&opts.Ascending, "ascending", false,
		"list endpoints in creation order instead of newest first")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0,
		"maximum number of endpoints to list (0 for no limit)")
	return cmd
}

func newEndpointGetSecretCommand() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "get-secret EVENT_TYPE_NAME URL",
		Short: "Print the secret used to verify deliveries to an endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			secret, err := w.EndpointGetSecret(cmd.Context(), endpoint.Endpoint{
				EventTypeName: args[0],
				URL:           args[1],
				Channel:       channel,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secret)
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "channel of the endpoint")
	return cmd
}

func newEndpointDeleteCommand() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "delete EVENT_TYPE_NAME URL",
		Short: "Unregister an endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			return w.EndpointDelete(cmd.Context(), endpoint.Endpoint{
				EventTypeName: args[0],
				URL:           args[1],
				Channel:       channel,
			})
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "", "channel of the endpoint")
	return cmd
}
