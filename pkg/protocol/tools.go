package protocol

import (
	"encoding/json"
)

// Tool describes a named remote operation exposed by the server. The
// input schema is opaque to this client and kept raw.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListToolsResult is the result of a tools/list request.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams are the parameters of a tools/call request. Arguments
// is the tool's input object, opaque to the transport.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ContentItem is one entry of a result's content envelope. Items of type
// "text" carry the tool's actual result as a JSON-encoded string in Text;
// this double encoding is a protocol convention, so the transport never
// needs to know each tool's result shape.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ContentTypeText is the content item type whose Text field carries the
// nested payload.
const ContentTypeText = "text"

// CallToolResult is the result of a tools/call request. IsError marks a
// tool-level failure reported inside a successful JSON-RPC response.
type CallToolResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// FirstText returns the text of the first content item of type "text",
// or false if the envelope holds no such item.
func (r *CallToolResult) FirstText() (string, bool) {
	for _, item := range r.Content {
		if item.Type == ContentTypeText {
			return item.Text, true
		}
	}
	return "", false
}
