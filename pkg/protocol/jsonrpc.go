// Package protocol defines the JSON-RPC 2.0 message types and the MCP
// method surface spoken by the stdio session client. Messages are framed
// as single lines of JSON terminated by a newline.
package protocol

import (
	"encoding/json"
	"fmt"
)

const (
	// JSONRPCVersion is the only supported JSON-RPC version.
	JSONRPCVersion = "2.0"
)

// ErrorCode represents a JSON-RPC 2.0 error code.
type ErrorCode int

// Standard error codes as per the JSON-RPC 2.0 specification.
const (
	ParseError     ErrorCode = -32700
	InvalidRequest ErrorCode = -32600
	MethodNotFound ErrorCode = -32601
	InvalidParams  ErrorCode = -32602
	InternalError  ErrorCode = -32603
)

// Server-defined error codes observed from MCP servers.
const (
	// ServerInitError indicates an error during server initialization.
	ServerInitError ErrorCode = -32000
	// ToolNotFound indicates the named tool is not registered.
	ToolNotFound ErrorCode = -32001
)

// Request is a JSON-RPC 2.0 request. ID is an int64 for calls issued by
// this client; it is decoded as interface{} so responses echoing a
// different numeric representation still match.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest builds a request with the given id, method and params.
// Params may be nil; anything else must be JSON-serializable.
func NewRequest(id int64, method string, params interface{}) (*Request, error) {
	if method == "" {
		return nil, fmt.Errorf("method must not be empty")
	}
	paramsJSON, err := marshalOptional(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	return &Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  paramsJSON,
	}, nil
}

// Notification is a JSON-RPC 2.0 notification: a request without an id,
// for which no reply will ever arrive.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewNotification builds a notification with the given method and params.
func NewNotification(method string, params interface{}) (*Notification, error) {
	if method == "" {
		return nil, fmt.Errorf("method must not be empty")
	}
	paramsJSON, err := marshalOptional(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}
	return &Notification{
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  paramsJSON,
	}, nil
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result and Error is
// populated in a well-formed response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// IsError reports whether the response carries a JSON-RPC error member.
func (r *Response) IsError() bool {
	return r.Error != nil
}

// Error is the JSON-RPC 2.0 error object.
type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface so callers that choose to treat a
// tool-level failure as an error can wrap it directly.
func (e *Error) Error() string {
	return fmt.Sprintf("rpc error: code = %d desc = %s", e.Code, e.Message)
}

// ParseResponse decodes a single line received from the peer. The data
// must be a structurally valid response: valid JSON carrying the jsonrpc
// version marker. A populated Error member is not a parse failure.
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if resp.JSONRPC != JSONRPCVersion {
		return nil, fmt.Errorf("unexpected jsonrpc version %q", resp.JSONRPC)
	}
	return &resp, nil
}

func marshalOptional(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
