package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the middleware server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := apiClient.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			printJSON(health)
		} else {
			fmt.Printf("Status:      %s\n", health.Status)
			fmt.Printf("Version:     %s\n", health.Version)
			fmt.Printf("Environment: %s\n", health.Environment)
			fmt.Printf("Uptime:      %.0fs\n", health.Uptime)
		}

		if health.Status != "ok" {
			return fmt.Errorf("unhealthy: %s", health.Status)
		}
		return nil
	},
}
