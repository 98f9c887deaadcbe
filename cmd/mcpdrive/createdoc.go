package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ngs/google-mcp-client/pkg/client"
	"github.com/ngs/google-mcp-client/pkg/config"
)

func newCreateDocCmd() *cobra.Command {
	var title, file string

	cmd := &cobra.Command{
		Use:   "create-doc",
		Short: "Create a Google Doc and fill it with a markdown file",
		Long: `Creates a new Google Doc via docs_document_create, extracts the document
ID from the nested JSON payload, and replaces the document body with the
markdown file via docs_document_format. Prints the document URL.`,
		RunE: withSession(func(ctx context.Context, s *client.Session, cfg *config.Config) error {
			content, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			createArgs := map[string]interface{}{"title": title}
			if cfg.Account != "" {
				createArgs["account"] = cfg.Account
			}
			result, err := s.CallTool(ctx, "docs_document_create", createArgs)
			if err != nil {
				return fmt.Errorf("docs_document_create: %w", err)
			}
			if result.IsError {
				text, _ := client.ExtractTextResult(result)
				return fmt.Errorf("docs_document_create: tool failed: %s", text)
			}

			documentID, ok := client.ExtractDocumentID(result)
			if !ok {
				return fmt.Errorf("docs_document_create: no document ID in reply")
			}

			formatArgs := map[string]interface{}{
				"document_id":      documentID,
				"markdown_content": string(content),
				"mode":             "replace",
			}
			if cfg.Account != "" {
				formatArgs["account"] = cfg.Account
			}
			result, err = s.CallTool(ctx, "docs_document_format", formatArgs)
			if err != nil {
				return fmt.Errorf("docs_document_format: %w", err)
			}
			if result.IsError {
				text, _ := client.ExtractTextResult(result)
				return fmt.Errorf("docs_document_format: tool failed: %s", text)
			}

			fmt.Printf("Document URL: https://docs.google.com/document/d/%s/edit\n", documentID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "title for the new document")
	cmd.Flags().StringVar(&file, "file", "", "markdown file to load into the document")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("file")
	return cmd
}
