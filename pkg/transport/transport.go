// Package transport provides the stdio transport used to drive an
// external MCP server process. Messages are newline-delimited JSON; at
// most one request is in flight per transport, so no correlation beyond
// the single pending id is needed.
package transport

import (
	"context"
	"io"
	"time"

	"github.com/ngs/google-mcp-client/pkg/logging"
	"github.com/ngs/google-mcp-client/pkg/protocol"
)

// DefaultReadTimeout bounds the blocking read for a reply. A
// non-responding peer would otherwise hang the caller forever.
const DefaultReadTimeout = 10 * time.Second

// DefaultGracePeriod is how long Close waits for the process to exit
// after a termination request before killing it.
const DefaultGracePeriod = 5 * time.Second

// Transport is the synchronous request/reply primitive over a child
// process's standard streams.
type Transport interface {
	// Start launches the server process and begins draining its stderr.
	Start(ctx context.Context) error

	// Call writes one request line and, because id-bearing requests
	// expect a reply, blocks reading one response line.
	Call(ctx context.Context, method string, params interface{}, id int64) (*protocol.Response, error)

	// Notify writes one id-less request line and does not wait. If the
	// peer never reads it, no error surfaces locally.
	Notify(ctx context.Context, method string, params interface{}) error

	// Close requests graceful termination, killing the process if it has
	// not exited within grace. Safe to call repeatedly and on an
	// already-exited process.
	Close(grace time.Duration) error
}

// Config configures a stdio transport.
type Config struct {
	// Command is the server executable; Args are passed verbatim.
	Command string
	Args    []string

	// Dir is the working directory for the process. Empty means inherit.
	Dir string

	// Env entries (KEY=VALUE) are appended to the inherited environment.
	Env []string

	// ReadTimeout bounds each blocking read for a reply. Zero selects
	// DefaultReadTimeout; negative disables the deadline.
	ReadTimeout time.Duration

	// Logger receives transport diagnostics and the server's stderr.
	Logger logging.Logger

	// Reader and Writer override the process pipes so tests can exercise
	// framing without spawning. When both are set no process is started.
	Reader io.Reader
	Writer io.Writer
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	return c
}
