package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ngs/google-mcp-client/pkg/errors"
	"github.com/ngs/google-mcp-client/pkg/protocol"
)

// mockTransport implements transport.Transport for testing.
type mockTransport struct {
	started       bool
	closed        int
	closeGrace    time.Duration
	calls         []sentCall
	notifications []string
	responses     map[string]*protocol.Response
	callErr       error
}

type sentCall struct {
	method string
	params interface{}
	id     int64
}

func newMockTransport() *mockTransport {
	return &mockTransport{responses: make(map[string]*protocol.Response)}
}

func (m *mockTransport) Start(ctx context.Context) error {
	m.started = true
	return nil
}

func (m *mockTransport) Call(ctx context.Context, method string, params interface{}, id int64) (*protocol.Response, error) {
	m.calls = append(m.calls, sentCall{method: method, params: params, id: id})
	if m.callErr != nil {
		return nil, m.callErr
	}
	if resp, ok := m.responses[method]; ok {
		return resp, nil
	}
	return &protocol.Response{JSONRPC: protocol.JSONRPCVersion, ID: id, Result: json.RawMessage(`{}`)}, nil
}

func (m *mockTransport) Notify(ctx context.Context, method string, params interface{}) error {
	m.notifications = append(m.notifications, method)
	return nil
}

func (m *mockTransport) Close(grace time.Duration) error {
	m.closed++
	m.closeGrace = grace
	return nil
}

func (m *mockTransport) respondWith(t *testing.T, method string, result interface{}) {
	t.Helper()
	data, err := json.Marshal(result)
	require.NoError(t, err)
	m.responses[method] = &protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      1,
		Result:  data,
	}
}

func initResponse(t *testing.T, m *mockTransport) {
	t.Helper()
	m.respondWith(t, protocol.MethodInitialize, protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolVersion,
		ServerInfo:      protocol.ServerInfo{Name: "google-mcp-server", Version: "0.4.0"},
	})
}

func TestInitializeHandshake(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)

	s := New(m, WithClientInfo("doc-driver", "1.0.0"))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, m.started)

	result, err := s.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "google-mcp-server", result.ServerInfo.Name)
	assert.Equal(t, "google-mcp-server", s.ServerInfo().Name)

	// The handshake is the first call on the session and carries id 1.
	require.Len(t, m.calls, 1)
	assert.Equal(t, protocol.MethodInitialize, m.calls[0].method)
	assert.Equal(t, int64(1), m.calls[0].id)

	params, ok := m.calls[0].params.(*protocol.InitializeParams)
	require.True(t, ok)
	assert.Equal(t, "doc-driver", params.ClientInfo.Name)
	assert.Equal(t, protocol.ProtocolVersion, params.ProtocolVersion)
	assert.Contains(t, params.Capabilities, "tools")

	// Initialized notification follows a successful handshake.
	assert.Equal(t, []string{protocol.MethodInitialized}, m.notifications)
}

func TestInitializeTwiceIsNoop(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)
	_, err = s.Initialize(context.Background())
	require.NoError(t, err)

	assert.Len(t, m.calls, 1)
	assert.Len(t, m.notifications, 1)
}

func TestInitializeServerError(t *testing.T) {
	m := newMockTransport()
	m.responses[protocol.MethodInitialize] = &protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      1,
		Error:   &protocol.Error{Code: protocol.ServerInitError, Message: "no credentials"},
	}

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.Error(t, err)

	var rpcErr *protocol.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ServerInitError, rpcErr.Code)

	// A failed handshake leaves the session uninitialized.
	assert.Empty(t, m.notifications)
	_, err = s.ListTools(context.Background())
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidSequence))
}

func TestOrderingEnforced(t *testing.T) {
	m := newMockTransport()
	s := New(m)

	_, err := s.Call(context.Background(), protocol.MethodListTools, nil)
	require.Error(t, err)
	assert.True(t, mcperrors.IsCategory(err, mcperrors.CategoryProtocol))
	assert.Empty(t, m.calls, "no request must reach the wire before initialize")
}

func TestLenientOrdering(t *testing.T) {
	m := newMockTransport()
	s := New(m, WithLenientOrdering())

	_, err := s.Call(context.Background(), protocol.MethodListTools, nil)
	require.NoError(t, err)
	assert.Len(t, m.calls, 1)
}

func TestCallDoesNotRaiseErrorMember(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)
	m.responses["tools/call"] = &protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      2,
		Error:   &protocol.Error{Code: protocol.MethodNotFound, Message: "Method not found"},
	}

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	resp, err := s.Call(context.Background(), "tools/call", nil)
	require.NoError(t, err, "Call returns the error member as data")
	assert.True(t, resp.IsError())
}

func TestCallIDsAreUnique(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	_, err = s.Call(context.Background(), protocol.MethodListTools, nil)
	require.NoError(t, err)
	_, err = s.Call(context.Background(), protocol.MethodListTools, nil)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for _, call := range m.calls {
		assert.False(t, seen[call.id], "duplicate request id %d", call.id)
		seen[call.id] = true
	}
}

func TestListTools(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)
	m.respondWith(t, protocol.MethodListTools, protocol.ListToolsResult{
		Tools: []protocol.Tool{
			{Name: "docs_document_create", Description: "Create a document"},
			{Name: "accounts_list"},
		},
	})

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	tools, err := s.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "docs_document_create", tools[0].Name)
}

func TestCallTool(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)
	m.respondWith(t, protocol.MethodCallTool, protocol.CallToolResult{
		Content: []protocol.ContentItem{
			{Type: protocol.ContentTypeText, Text: `{"documentId":"abc123"}`},
		},
	})

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	result, err := s.CallTool(context.Background(), "docs_document_create",
		map[string]string{"title": "Notes"})
	require.NoError(t, err)

	id, ok := ExtractDocumentID(result)
	require.True(t, ok)
	assert.Equal(t, "abc123", id)

	params, ok := m.calls[1].params.(*protocol.CallToolParams)
	require.True(t, ok)
	assert.Equal(t, "docs_document_create", params.Name)
	assert.JSONEq(t, `{"title":"Notes"}`, string(params.Arguments))
}

func TestCallToolNilArguments(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)
	m.respondWith(t, protocol.MethodCallTool, protocol.CallToolResult{})

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	_, err = s.CallTool(context.Background(), "accounts_list", nil)
	require.NoError(t, err)

	params := m.calls[1].params.(*protocol.CallToolParams)
	assert.JSONEq(t, `{}`, string(params.Arguments))

	// A typed nil map marshals to null; it must still go out as {}.
	var typedNil map[string]interface{}
	_, err = s.CallTool(context.Background(), "accounts_details", typedNil)
	require.NoError(t, err)

	params = m.calls[2].params.(*protocol.CallToolParams)
	assert.JSONEq(t, `{}`, string(params.Arguments))
}

func TestCallToolRPCError(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)
	m.responses[protocol.MethodCallTool] = &protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      2,
		Error:   &protocol.Error{Code: protocol.ToolNotFound, Message: "unknown tool"},
	}

	s := New(m)
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	_, err = s.CallTool(context.Background(), "nope", nil)
	var rpcErr *protocol.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, protocol.ToolNotFound, rpcErr.Code)
}

// fakeInstrumentation records the hook invocations the session makes.
type fakeInstrumentation struct {
	spans     []string
	calls     []string
	toolCalls []string
}

func (f *fakeInstrumentation) StartSpan(ctx context.Context, method string) (context.Context, func(error)) {
	f.spans = append(f.spans, method)
	return ctx, func(error) {}
}

func (f *fakeInstrumentation) RecordCall(ctx context.Context, method, status string, duration time.Duration) {
	f.calls = append(f.calls, method+":"+status)
}

func (f *fakeInstrumentation) RecordToolCall(tool, status string) {
	f.toolCalls = append(f.toolCalls, tool+":"+status)
}

func TestInstrumentationRecordsToolCalls(t *testing.T) {
	m := newMockTransport()
	initResponse(t, m)
	m.respondWith(t, protocol.MethodCallTool, protocol.CallToolResult{
		Content: []protocol.ContentItem{{Type: protocol.ContentTypeText, Text: "done"}},
	})

	instr := &fakeInstrumentation{}
	s := New(m, WithInstrumentation(instr))
	_, err := s.Initialize(context.Background())
	require.NoError(t, err)

	_, err = s.CallTool(context.Background(), "docs_document_create", nil)
	require.NoError(t, err)
	assert.Contains(t, instr.toolCalls, "docs_document_create:ok")
	assert.Contains(t, instr.spans, protocol.MethodCallTool)
	assert.Contains(t, instr.calls, protocol.MethodCallTool+":ok")

	// A tool-level failure flag surfaces in the per-tool status.
	m.respondWith(t, protocol.MethodCallTool, protocol.CallToolResult{IsError: true})
	_, err = s.CallTool(context.Background(), "docs_document_format", nil)
	require.NoError(t, err)
	assert.Contains(t, instr.toolCalls, "docs_document_format:tool_error")

	// An RPC error member counts as a failed tool call.
	m.responses[protocol.MethodCallTool] = &protocol.Response{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      4,
		Error:   &protocol.Error{Code: protocol.ToolNotFound, Message: "unknown tool"},
	}
	_, err = s.CallTool(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, instr.toolCalls, "nope:error")
}

func TestClose(t *testing.T) {
	m := newMockTransport()
	s := New(m)

	require.NoError(t, s.Close(3*time.Second))
	assert.Equal(t, 1, m.closed)
	assert.Equal(t, 3*time.Second, m.closeGrace)
}

func TestSessionIDIsStable(t *testing.T) {
	s := New(newMockTransport())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, s.ID(), s.ID())
}
