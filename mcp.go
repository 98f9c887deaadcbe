package mcp

import (
	"github.com/ngs/google-mcp-client/pkg/client"
	"github.com/ngs/google-mcp-client/pkg/protocol"
	"github.com/ngs/google-mcp-client/pkg/transport"
)

// Version is the client library version reported in the initialize
// handshake by default.
const Version = "1.0.0"

// ProtocolVersion is the protocol revision requested during initialize.
const ProtocolVersion = protocol.ProtocolVersion

// These exports provide direct access to the core components.
var (
	// NewSession creates a session over an existing transport.
	NewSession = client.New

	// NewCommandSession creates a session that spawns the given server
	// command.
	NewCommandSession = client.NewCommand

	// NewStdioTransport creates a newline-delimited JSON-RPC transport
	// over a child process's pipes.
	NewStdioTransport = transport.NewStdio
)

// Session options
var (
	WithClientInfo      = client.WithClientInfo
	WithProtocolVersion = client.WithProtocolVersion
	WithCapability      = client.WithCapability
	WithLogger          = client.WithLogger
	WithInstrumentation = client.WithInstrumentation
	WithLenientOrdering = client.WithLenientOrdering
)

// Result helpers for the nested-JSON content envelope.
var (
	ExtractTextResult = client.ExtractTextResult
	ExtractJSON       = client.ExtractJSON
	ExtractDocumentID = client.ExtractDocumentID
)
