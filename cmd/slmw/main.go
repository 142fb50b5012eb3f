package main

import (
	"os"

	"github.com/hsuehlab/shopline-middleware/internal/client"
	"github.com/hsuehlab/shopline-middleware/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	apiClient client.Client
)

func defaultServerURL() string {
	if s := os.Getenv("SLMW_SERVER"); s != "" {
		return s
	}
	if u := activeProfileURL(); u != "" {
		return u
	}
	return "http://localhost:3001"
}

func defaultToken() string {
	if s := os.Getenv("SLMW_TOKEN"); s != "" {
		return s
	}
	return activeProfileToken()
}

var rootCmd = &cobra.Command{
	Use:   "slmw <command>",
	Short: "CLI client for the Shopline middleware platform",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor(os.Stdout) {
			ui.ForceNoColor()
		}
		apiClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if apiClient != nil {
			apiClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "middleware server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for API auth")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "events", Title: "Events:"},
		&cobra.Group{ID: "shopline", Title: "Shopline:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Events
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)

	// Shopline
	rootCmd.AddCommand(shoplineCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
