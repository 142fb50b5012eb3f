package main

import (
	"context"

	"github.com/hsuehlab/shopline-middleware/internal/client"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List events, newest first",
	GroupID: "events",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")
		eventType, _ := cmd.Flags().GetString("type")
		source, _ := cmd.Flags().GetString("source")

		result, err := apiClient.ListEvents(context.Background(), &client.ListEventsRequest{
			Page:   page,
			Limit:  limit,
			Type:   eventType,
			Source: source,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(result)
		} else {
			printEventListTable(result)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Int("page", 0, "page number (1-based)")
	listCmd.Flags().Int("limit", 0, "events per page")
	listCmd.Flags().StringP("type", "t", "", "filter by event type")
	listCmd.Flags().StringP("source", "s", "", "filter by source system")
}
