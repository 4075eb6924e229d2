package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newEventCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Send webhook events",
	}
	cmd.AddCommand(newEventSendCommand())
	return cmd
}

func newEventSendCommand() *cobra.Command {
	var channel string
	cmd := &cobra.Command{
		Use:   "send EVENT_TYPE_NAME PAYLOAD_FILE",
		Short: "Send an event to the endpoints of an event type",
		Long: `Send an event. PAYLOAD_FILE contains the JSON payload, validated against
the event type's schema before dispatch; use - to read it from standard
input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[1])
			if err != nil {
				return err
			}
			w, err := newClient()
			if err != nil {
				return err
			}
			sent, err := w.EventSend(cmd.Context(), args[0], payload, channel)
			if err != nil {
				return err
			}
			if sent == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no endpoint subscribed to the event, nothing was sent")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "message %s accepted at %s\n",
				sent.ID, sent.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
			return nil
		},
	}
	cmd.Flags().StringVar(&channel, "channel", "",
		"send the event to this channel only")
	return cmd
}

func readPayload(path string) (map[string]any, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading payload: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}
	return payload, nil
}
