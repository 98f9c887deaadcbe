package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngs/google-mcp-client/pkg/client"
	"github.com/ngs/google-mcp-client/pkg/config"
)

func newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Inspect the server's configured Google accounts",
		Long: `Runs the multi-account checks: lists accounts via accounts_list, fetches
details via accounts_details and verifies calendar access for the
configured account via calendar_list.`,
		RunE: withSession(func(ctx context.Context, s *client.Session, cfg *config.Config) error {
			result, err := s.CallTool(ctx, "accounts_list", nil)
			if err != nil {
				return fmt.Errorf("accounts_list: %w", err)
			}

			var listing struct {
				Count    int `json:"count"`
				Accounts []struct {
					Email  string `json:"email"`
					Active bool   `json:"active"`
				} `json:"accounts"`
			}
			if client.ExtractJSON(result, &listing) {
				fmt.Printf("Found %d account(s)\n", listing.Count)
				for _, account := range listing.Accounts {
					fmt.Printf("  - %s (active: %v)\n", account.Email, account.Active)
				}
			} else if text, ok := client.ExtractTextResult(result); ok {
				fmt.Println(text)
			}

			detailArgs := accountArgs(cfg)
			if _, err := s.CallTool(ctx, "accounts_details", detailArgs); err != nil {
				return fmt.Errorf("accounts_details: %w", err)
			}
			fmt.Println("Account details retrieved")

			if _, err := s.CallTool(ctx, "calendar_list", detailArgs); err != nil {
				return fmt.Errorf("calendar_list: %w", err)
			}
			fmt.Println("Calendar access verified")
			return nil
		}),
	}
}

// accountArgs names the account explicitly when one is configured. The
// server falls back to its own default account otherwise.
func accountArgs(cfg *config.Config) map[string]interface{} {
	args := map[string]interface{}{}
	if cfg.Account != "" {
		args["account"] = cfg.Account
	}
	return args
}
