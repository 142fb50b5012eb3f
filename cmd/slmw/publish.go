package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hsuehlab/shopline-middleware/internal/client"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:     "publish <type>",
	Short:   "Publish an event",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		dataFlag, _ := cmd.Flags().GetString("data")
		timestamp, _ := cmd.Flags().GetString("timestamp")

		data, err := readDataArg(dataFlag)
		if err != nil {
			return err
		}

		event, err := apiClient.PublishEvent(context.Background(), &client.PublishEventRequest{
			Type:      args[0],
			Source:    source,
			Data:      data,
			Timestamp: timestamp,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(event)
		} else {
			printEventTable(event)
		}
		return nil
	},
}

// readDataArg interprets the --data flag: a literal JSON document, "@file"
// to read from a file, or "-" to read from stdin.
func readDataArg(arg string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case arg == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		raw = b
	case strings.HasPrefix(arg, "@"):
		b, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("reading data file: %w", err)
		}
		raw = b
	default:
		raw = []byte(arg)
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("data is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func init() {
	publishCmd.Flags().StringP("source", "s", "", "event source system")
	publishCmd.Flags().StringP("data", "d", "{}", "event payload: JSON, @file, or - for stdin")
	publishCmd.Flags().String("timestamp", "", "event timestamp (RFC 3339; defaults to server time)")
}
