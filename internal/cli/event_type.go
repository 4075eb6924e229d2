package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/swhkit/webhooks/catalog"
)

func newEventTypeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event-type",
		Short: "Manage webhook event types",
	}
	cmd.AddCommand(
		newEventTypeAddCommand(),
		newEventTypeGetCommand(),
		newEventTypeListCommand(),
		newEventTypeDeleteCommand(),
	)
	return cmd
}

func newEventTypeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME DESCRIPTION SCHEMA_FILE",
		Short: "Register a webhook event type, updating it if it already exists",
		Long: `Register a webhook event type. NAME must be in the form '<group>.<event>'.
SCHEMA_FILE contains the JSON Schema of the event payload; use - to read
it from standard input.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := readSchema(args[2])
			if err != nil {
				return err
			}
			w, err := newClient()
			if err != nil {
				return err
			}
			return w.EventTypeCreate(cmd.Context(), catalog.EventType{
				Name:        args[0],
				Description: args[1],
				Schema:      schema,
			})
		},
	}
}

func newEventTypeGetCommand() *cobra.Command {
	var dumpSchema bool
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Display a registered event type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			et, err := w.EventTypeGet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name: %s\n", et.Name)
			fmt.Fprintf(out, "Description: %s\n", et.Description)
			if dumpSchema {
				schema, err := json.MarshalIndent(et.Schema, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Schema:\n%s\n", schema)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dumpSchema, "dump-schema", false, "also print the event type's JSON Schema")
	return cmd
}

func newEventTypeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered event types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			types, err := w.EventTypesList(cmd.Context())
			if err != nil {
				return err
			}
			for _, et := range types {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", et.Name, et.Description)
			}
			return nil
		},
	}
}

func newEventTypeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an event type (it can be revived by re-adding it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newClient()
			if err != nil {
				return err
			}
			return w.EventTypeDelete(cmd.Context(), args[0])
		},
	}
}

// readSchema loads a JSON Schema document from a file, or stdin for "-".
func readSchema(path string) (map[string]any, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	return schema, nil
}
