// Package pkg holds the components of the Google MCP stdio client.
//
// Each sub-package covers one concern:
//
//   - client: session lifecycle, initialize handshake, tool calls and
//     result unwrapping
//   - transport: the child process and its newline-delimited JSON-RPC
//     pipes
//   - protocol: wire types for JSON-RPC 2.0 and the MCP methods
//   - errors: the structured error taxonomy raised by the client
//   - logging: leveled, structured logging with text and JSON output
//   - observability: optional Prometheus metrics and OpenTelemetry
//     tracing hooks
//   - config: YAML configuration for the scripted drivers
package pkg
