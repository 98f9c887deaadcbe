package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngs/google-mcp-client/pkg/client"
	"github.com/ngs/google-mcp-client/pkg/config"
)

func newToolsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the server exposes",
		Long: `Launches the server, performs the initialize handshake, fetches the
tool catalogue via tools/list and prints it.`,
		RunE: withSession(func(ctx context.Context, s *client.Session, cfg *config.Config) error {
			tools, err := s.ListTools(ctx)
			if err != nil {
				return fmt.Errorf("tools/list: %w", err)
			}

			if asJSON {
				out, err := json.MarshalIndent(tools, "", "  ")
				if err != nil {
					return fmt.Errorf("encode: %w", err)
				}
				fmt.Println(string(out))
				return nil
			}

			if info := s.ServerInfo(); info != nil {
				fmt.Printf("Server: %s %s\n", info.Name, info.Version)
			}
			fmt.Printf("Tools (%d):\n", len(tools))
			for _, tool := range tools {
				fmt.Printf("  %-30s %s\n", tool.Name, tool.Description)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalogue as JSON")
	return cmd
}
