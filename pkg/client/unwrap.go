package client

import (
	"encoding/json"

	"github.com/ngs/google-mcp-client/pkg/protocol"
)

// Tool results travel double-encoded: the outer envelope is decoded
// strictly, the inner text is decoded permissively. The helpers below
// return ok=false instead of an error for absent or malformed inner
// payloads, because the upstream tool's result shape is not under this
// client's control.

// ExtractTextResult returns the text of the first content item of type
// "text", or false if the result has no such item.
func ExtractTextResult(result *protocol.CallToolResult) (string, bool) {
	if result == nil {
		return "", false
	}
	return result.FirstText()
}

// ExtractJSON decodes the first text content item into v. It returns
// false when there is no text item or the text is not valid JSON.
func ExtractJSON(result *protocol.CallToolResult, v interface{}) bool {
	text, ok := ExtractTextResult(result)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(text), v) == nil
}

// ExtractDocumentID reads the documentId field from the nested JSON
// document of a tool result. False, never an error, for missing text,
// non-JSON text, or a payload without the field.
func ExtractDocumentID(result *protocol.CallToolResult) (string, bool) {
	var payload struct {
		DocumentID string `json:"documentId"`
	}
	if !ExtractJSON(result, &payload) {
		return "", false
	}
	if payload.DocumentID == "" {
		return "", false
	}
	return payload.DocumentID, true
}
