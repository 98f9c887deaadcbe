// Package mcp is the root of the Google MCP stdio client.
//
// The client launches a Google MCP server as a child process and speaks
// newline-delimited JSON-RPC 2.0 over its stdin/stdout: an initialize
// handshake, the initialized notification, then synchronous tools/list
// and tools/call requests. Tool results arrive in a content envelope
// whose text items often carry JSON one level deep; the Extract helpers
// unwrap that.
//
// # Sub-packages
//
//   - pkg/client: the session client (handshake, tool calls, unwrapping)
//   - pkg/transport: the stdio process transport
//   - pkg/protocol: JSON-RPC and MCP wire types
//   - pkg/errors: the client error taxonomy
//   - pkg/logging: structured logging
//   - pkg/observability: Prometheus metrics and OpenTelemetry tracing
//   - pkg/config: YAML driver configuration
//
// # Driving a server
//
//	session := mcp.NewCommandSession(transport.Config{
//	    Command: "./google-mcp-server",
//	}, mcp.WithClientInfo("my-driver", "1.0.0"))
//
//	ctx := context.Background()
//	if err := session.Start(ctx); err != nil {
//	    // handle launch failure
//	}
//	defer session.Close(5 * time.Second)
//
//	if _, err := session.Initialize(ctx); err != nil {
//	    // handle handshake failure
//	}
//
//	result, err := session.CallTool(ctx, "docs_document_create",
//	    map[string]any{"title": "Notes"})
//	if err != nil {
//	    // handle call failure
//	}
//	if id, ok := mcp.ExtractDocumentID(result); ok {
//	    fmt.Println(id)
//	}
//
// The cmd/mcpdrive command wraps these flows into a CLI.
package mcp
