package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hsuehlab/shopline-middleware/internal/client"
	"github.com/spf13/cobra"
)

var shoplineCmd = &cobra.Command{
	Use:     "shopline",
	Short:   "Query the Shopline upstream through the middleware proxy",
	GroupID: "shopline",
}

var shoplineShopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Show the connected shop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := apiClient.Shop(context.Background())
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

var shoplineProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := apiClient.Products(context.Background(), upstreamRequest(cmd))
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

var shoplineOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := apiClient.Orders(context.Background(), upstreamRequest(cmd))
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

func upstreamRequest(cmd *cobra.Command) *client.ListUpstreamRequest {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	status, _ := cmd.Flags().GetString("status")
	return &client.ListUpstreamRequest{Page: page, Limit: limit, Status: status}
}

// printRaw pretty-prints an upstream JSON payload.
func printRaw(raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// Not JSON after all; print as-is.
		fmt.Println(string(raw))
		return nil
	}
	printJSON(v)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{shoplineProductsCmd, shoplineOrdersCmd} {
		c.Flags().Int("page", 0, "page number")
		c.Flags().Int("limit", 0, "results per page")
		c.Flags().String("status", "", "filter by status")
	}

	shoplineCmd.AddCommand(shoplineShopCmd)
	shoplineCmd.AddCommand(shoplineProductsCmd)
	shoplineCmd.AddCommand(shoplineOrdersCmd)
}
