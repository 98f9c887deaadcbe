package protocol

// ProtocolVersion is the MCP protocol revision this client requests
// during the initialize handshake.
const ProtocolVersion = "2024-11-05"

// Methods for session lifecycle and tool access. These are the methods
// the google-mcp-server dialect of MCP understands.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodListTools   = "tools/list"
	MethodCallTool    = "tools/call"
)

// ClientInfo identifies the client in the initialize handshake.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ServerInfo identifies the server in the initialize reply.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams are the parameters of the initialize request.
// Capabilities is a free-form object; the reference server only inspects
// the presence of keys (e.g. {"tools": {}}).
type InitializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ClientInfo      ClientInfo             `json:"clientInfo"`
}

// InitializeResult is the result of a successful initialize request.
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities,omitempty"`
	ServerInfo      ServerInfo             `json:"serverInfo"`
}
