// Package client implements the client side of the stdio MCP dialect:
// one child process per session, an initialize handshake, and synchronous
// tool calls whose results may nest JSON one level deep inside a text
// content envelope.
package client

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	mcperrors "github.com/ngs/google-mcp-client/pkg/errors"
	"github.com/ngs/google-mcp-client/pkg/logging"
	"github.com/ngs/google-mcp-client/pkg/protocol"
	"github.com/ngs/google-mcp-client/pkg/transport"
)

// Instrumentation receives timing and outcome data for every RPC call.
// Implemented by pkg/observability; kept as an interface here so the
// client carries no metrics dependencies.
type Instrumentation interface {
	// StartSpan opens a span for an RPC call. The returned func closes
	// the span with the call's outcome.
	StartSpan(ctx context.Context, method string) (context.Context, func(err error))

	// RecordCall records the outcome and duration of an RPC call.
	RecordCall(ctx context.Context, method, status string, duration time.Duration)

	// RecordToolCall records the outcome of one tools/call by tool name.
	RecordToolCall(tool, status string)
}

// Session owns one server process and the sequence of requests issued
// against it. At most one request is in flight at any time.
type Session struct {
	transport transport.Transport
	logger    logging.Logger
	instr     Instrumentation

	id              string
	clientInfo      protocol.ClientInfo
	protocolVersion string
	capabilities    map[string]interface{}
	lenientOrdering bool

	nextID      atomic.Int64
	initialized atomic.Bool
	initMu      sync.Mutex
	serverInfo  *protocol.ServerInfo
}

// Option configures a Session.
type Option func(*Session)

// WithClientInfo sets the client name and version sent during the
// initialize handshake.
func WithClientInfo(name, version string) Option {
	return func(s *Session) {
		s.clientInfo = protocol.ClientInfo{Name: name, Version: version}
	}
}

// WithProtocolVersion overrides the protocol revision requested during
// initialize.
func WithProtocolVersion(version string) Option {
	return func(s *Session) {
		s.protocolVersion = version
	}
}

// WithCapability announces a capability in the initialize handshake.
func WithCapability(name string, value interface{}) Option {
	return func(s *Session) {
		s.capabilities[name] = value
	}
}

// WithLogger sets the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithInstrumentation attaches metrics and tracing to every call.
func WithInstrumentation(instr Instrumentation) Option {
	return func(s *Session) {
		s.instr = instr
	}
}

// WithLenientOrdering disables the check that Initialize must complete
// before other calls. The reference drivers never enforced ordering;
// this restores that behavior for peers that tolerate it.
func WithLenientOrdering() Option {
	return func(s *Session) {
		s.lenientOrdering = true
	}
}

// New creates a session over the given transport.
func New(t transport.Transport, options ...Option) *Session {
	s := &Session{
		transport:       t,
		logger:          logging.NewNop(),
		id:              uuid.NewString(),
		clientInfo:      protocol.ClientInfo{Name: "google-mcp-client", Version: "1.0.0"},
		protocolVersion: protocol.ProtocolVersion,
		capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.WithFields(logging.String("session_id", s.id))
	return s
}

// NewCommand creates a session that will spawn the server described by
// the transport config.
func NewCommand(cfg transport.Config, options ...Option) *Session {
	return New(transport.NewStdio(cfg), options...)
}

// ID returns the session's identifier, used for log correlation.
func (s *Session) ID() string {
	return s.id
}

// Start launches the server process. It does not perform the handshake;
// call Initialize next.
func (s *Session) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.WithError(err).Error("failed to start server process")
		return err
	}
	s.logger.Info("session started")
	return nil
}

// Initialize performs the initialize handshake and, on success, sends
// the initialized notification. It must complete before any other call
// on the session. A JSON-RPC error member in the reply is returned as a
// *protocol.Error. Calling Initialize again is a no-op.
func (s *Session) Initialize(ctx context.Context) (*protocol.InitializeResult, error) {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.initialized.Load() {
		result := &protocol.InitializeResult{ProtocolVersion: s.protocolVersion}
		if s.serverInfo != nil {
			result.ServerInfo = *s.serverInfo
		}
		return result, nil
	}

	params := &protocol.InitializeParams{
		ProtocolVersion: s.protocolVersion,
		Capabilities:    s.capabilities,
		ClientInfo:      s.clientInfo,
	}

	resp, err := s.call(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		s.logger.Error("server rejected initialize",
			logging.Int("code", int(resp.Error.Code)),
			logging.String("message", resp.Error.Message))
		return nil, resp.Error
	}

	var result protocol.InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, mcperrors.InvalidMessage(protocol.MethodInitialize, err)
	}
	s.serverInfo = &result.ServerInfo
	s.initialized.Store(true)

	s.logger.Info("session initialized",
		logging.String("server", result.ServerInfo.Name),
		logging.String("server_version", result.ServerInfo.Version),
		logging.String("protocol_version", result.ProtocolVersion))

	if err := s.NotifyInitialized(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}

// NotifyInitialized sends the post-handshake initialized notification.
// Fire-and-forget: if the peer never reads it, no error surfaces here.
func (s *Session) NotifyInitialized(ctx context.Context) error {
	return s.transport.Notify(ctx, protocol.MethodInitialized, nil)
}

// Call issues a raw request and returns the parsed response. A JSON-RPC
// error member is returned inside the response as data, never as an
// error; protocol-level success or failure is a payload concern of the
// caller.
func (s *Session) Call(ctx context.Context, method string, params interface{}) (*protocol.Response, error) {
	if err := s.checkReady(method); err != nil {
		return nil, err
	}
	return s.call(ctx, method, params)
}

func (s *Session) call(ctx context.Context, method string, params interface{}) (*protocol.Response, error) {
	if s.instr != nil {
		var finish func(err error)
		ctx, finish = s.instr.StartSpan(ctx, method)
		start := time.Now()
		resp, err := s.transport.Call(ctx, method, params, s.nextID.Add(1))
		status := "ok"
		switch {
		case err != nil:
			status = "error"
		case resp.IsError():
			status = "rpc_error"
		}
		s.instr.RecordCall(ctx, method, status, time.Since(start))
		finish(err)
		return resp, err
	}
	return s.transport.Call(ctx, method, params, s.nextID.Add(1))
}

// ListTools fetches the server's tool catalogue.
func (s *Session) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	resp, err := s.Call(ctx, protocol.MethodListTools, nil)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, resp.Error
	}

	var result protocol.ListToolsResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, mcperrors.InvalidMessage(protocol.MethodListTools, err)
	}
	return result.Tools, nil
}

// CallTool invokes a named tool. Arguments must be JSON-serializable.
// A JSON-RPC error member is returned as a *protocol.Error; tool-level
// failures reported through the result's isError flag are left in the
// returned result for the caller to inspect.
func (s *Session) CallTool(ctx context.Context, name string, arguments interface{}) (*protocol.CallToolResult, error) {
	args, err := json.Marshal(arguments)
	if err != nil {
		return nil, mcperrors.WrapError(err, mcperrors.CodeInvalidParams,
			"could not marshal tool arguments", mcperrors.CategoryInternal, mcperrors.SeverityError)
	}
	// Nil and typed-nil arguments both go out as an empty object; the
	// reference peer expects "arguments" to always be an object.
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage(`{}`)
	}

	params := &protocol.CallToolParams{Name: name, Arguments: args}
	result, err := s.callTool(ctx, params)
	s.recordToolCall(name, result, err)
	return result, err
}

func (s *Session) callTool(ctx context.Context, params *protocol.CallToolParams) (*protocol.CallToolResult, error) {
	resp, err := s.Call(ctx, protocol.MethodCallTool, params)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, resp.Error
	}

	var result protocol.CallToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, mcperrors.InvalidMessage(protocol.MethodCallTool, err)
	}
	return &result, nil
}

func (s *Session) recordToolCall(tool string, result *protocol.CallToolResult, err error) {
	if s.instr == nil {
		return
	}
	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case result != nil && result.IsError:
		status = "tool_error"
	}
	s.instr.RecordToolCall(tool, status)
}

// ServerInfo returns the server identity from the initialize reply, or
// nil before the handshake.
func (s *Session) ServerInfo() *protocol.ServerInfo {
	return s.serverInfo
}

// Close tears the session down: graceful termination first, a kill after
// the grace period. Safe to call on every exit path.
func (s *Session) Close(grace time.Duration) error {
	err := s.transport.Close(grace)
	if err != nil {
		s.logger.WithError(err).Warn("session closed with error")
		return err
	}
	s.logger.Info("session closed")
	return nil
}

func (s *Session) checkReady(method string) error {
	if s.lenientOrdering || method == protocol.MethodInitialize {
		return nil
	}
	if !s.initialized.Load() {
		return mcperrors.NotInitialized(method)
	}
	return nil
}
