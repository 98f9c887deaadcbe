package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	mcperrors "github.com/ngs/google-mcp-client/pkg/errors"
	"github.com/ngs/google-mcp-client/pkg/logging"
	"github.com/ngs/google-mcp-client/pkg/protocol"
)

// maxLineSize bounds a single reply line. Formatted document payloads
// travel as one line, so the limit is generous.
const maxLineSize = 10 * 1024 * 1024

// StdioTransport drives a child process over newline-delimited JSON on
// its standard streams. It is the only owner of the process; stderr is
// drained as diagnostics and never parsed as protocol data.
type StdioTransport struct {
	config Config
	logger logging.Logger

	cmd    *exec.Cmd
	stdin  io.Closer
	writer *bufio.Writer
	mu     sync.Mutex // guards writer

	lines      chan []byte
	readClosed chan struct{}
	readErr    error // set before readClosed is closed
	done       chan struct{}
	drain      *errgroup.Group

	// staleReplies counts replies still owed to calls that stopped
	// waiting (timeout, cancellation). Calls are single in flight, so
	// only Call touches it.
	staleReplies int

	started  bool
	stopOnce sync.Once
	stopErr  error
}

var _ Transport = (*StdioTransport)(nil)

// NewStdio creates a stdio transport from config. The process is not
// launched until Start.
func NewStdio(config Config) *StdioTransport {
	config = config.withDefaults()
	return &StdioTransport{
		config:     config,
		logger:     config.Logger.WithFields(logging.String("component", "transport")),
		lines:      make(chan []byte, 1),
		readClosed: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the server process with stdin, stdout and stderr piped,
// or attaches to the configured streams when both overrides are set.
func (t *StdioTransport) Start(ctx context.Context) error {
	if t.started {
		return nil
	}

	if t.config.Reader != nil && t.config.Writer != nil {
		t.writer = bufio.NewWriter(t.config.Writer)
		go t.readLoop(t.config.Reader)
		t.started = true
		return nil
	}

	cmd := exec.Command(t.config.Command, t.config.Args...)
	cmd.Dir = t.config.Dir
	if len(t.config.Env) > 0 {
		cmd.Env = append(os.Environ(), t.config.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return mcperrors.LaunchFailed(t.config.Command, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return mcperrors.LaunchFailed(t.config.Command, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return mcperrors.LaunchFailed(t.config.Command, err)
	}

	if err := cmd.Start(); err != nil {
		return mcperrors.LaunchFailed(t.config.Command, err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.writer = bufio.NewWriter(stdin)

	go t.readLoop(stdout)

	g, _ := errgroup.WithContext(ctx)
	t.drain = g
	g.Go(func() error {
		return t.drainStderr(stderr)
	})

	t.logger.Info("server process started",
		logging.String("command", t.config.Command),
		logging.Int("pid", cmd.Process.Pid))
	t.started = true
	return nil
}

// Call writes one request line and blocks reading one reply line. The
// read is bounded by the configured timeout; JSON-RPC error members in a
// well-formed reply are returned as data, never as an error. A reply
// that arrives after its call gave up waiting is discarded, never
// delivered to a later call.
func (t *StdioTransport) Call(ctx context.Context, method string, params interface{}, id int64) (*protocol.Response, error) {
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, mcperrors.WrapError(err, mcperrors.CodeInvalidParams,
			"could not build request", mcperrors.CategoryInternal, mcperrors.SeverityError)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, mcperrors.WrapError(err, mcperrors.CodeInvalidParams,
			"could not marshal request", mcperrors.CategoryInternal, mcperrors.SeverityError)
	}

	if err := t.writeLine(data); err != nil {
		return nil, mcperrors.PipeError("write_request", err)
	}
	t.logger.Debug("request sent",
		logging.String("method", method),
		logging.Any("id", id))

	var timeout <-chan time.Time
	if t.config.ReadTimeout > 0 {
		timer := time.NewTimer(t.config.ReadTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case line := <-t.lines:
			if t.discardStale(method) {
				continue
			}
			return t.parseLine(method, line)
		case <-t.readClosed:
			// A final reply may still be buffered when the stream closes.
			for {
				select {
				case line := <-t.lines:
					if t.discardStale(method) {
						continue
					}
					return t.parseLine(method, line)
				default:
					if errors.Is(t.readErr, io.EOF) {
						return nil, mcperrors.NoResponse(method)
					}
					return nil, mcperrors.PipeError("read_reply", t.readErr)
				}
			}
		case <-timeout:
			t.staleReplies++
			return nil, mcperrors.ReadTimeout(method, t.config.ReadTimeout)
		case <-ctx.Done():
			t.staleReplies++
			return nil, ctx.Err()
		}
	}
}

// discardStale reports whether the just-received line answers an
// abandoned earlier request and must be dropped rather than delivered
// as the current call's reply.
func (t *StdioTransport) discardStale(method string) bool {
	if t.staleReplies == 0 {
		return false
	}
	t.staleReplies--
	t.logger.Warn("discarding reply to an abandoned request",
		logging.String("method", method))
	return true
}

func (t *StdioTransport) parseLine(method string, line []byte) (*protocol.Response, error) {
	resp, err := protocol.ParseResponse(line)
	if err != nil {
		return nil, mcperrors.InvalidMessage(method, err)
	}
	t.logger.Debug("reply received",
		logging.String("method", method),
		logging.Bool("is_error", resp.IsError()))
	return resp, nil
}

// Notify writes one id-less request line and does not wait for a reply.
func (t *StdioTransport) Notify(ctx context.Context, method string, params interface{}) error {
	notif, err := protocol.NewNotification(method, params)
	if err != nil {
		return mcperrors.WrapError(err, mcperrors.CodeInvalidParams,
			"could not build notification", mcperrors.CategoryInternal, mcperrors.SeverityError)
	}

	data, err := json.Marshal(notif)
	if err != nil {
		return mcperrors.WrapError(err, mcperrors.CodeInvalidParams,
			"could not marshal notification", mcperrors.CategoryInternal, mcperrors.SeverityError)
	}

	if err := t.writeLine(data); err != nil {
		return mcperrors.PipeError("write_notification", err)
	}
	t.logger.Debug("notification sent", logging.String("method", method))
	return nil
}

// Close asks the process to exit by closing its stdin and sending
// SIGTERM, then kills it if it is still alive after grace. Idempotent.
func (t *StdioTransport) Close(grace time.Duration) error {
	t.stopOnce.Do(func() {
		close(t.done)
		t.stopErr = t.shutdown(grace)
	})
	return t.stopErr
}

func (t *StdioTransport) shutdown(grace time.Duration) error {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	t.mu.Lock()
	if t.writer != nil {
		_ = t.writer.Flush()
	}
	t.mu.Unlock()

	if t.cmd == nil {
		return nil
	}

	if t.stdin != nil {
		_ = t.stdin.Close()
	}
	// Signal errors just mean the process is already gone.
	_ = t.cmd.Process.Signal(syscall.SIGTERM)

	waitCh := make(chan error, 1)
	go func() { waitCh <- t.cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-time.After(grace):
		t.logger.Warn("server did not exit within grace period, killing it",
			logging.Duration("grace", grace))
		_ = t.cmd.Process.Kill()
		waitErr = <-waitCh
	}

	if t.drain != nil {
		if err := t.drain.Wait(); err != nil {
			t.logger.Warn("stderr drain ended with error", logging.ErrorField(err))
		}
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return mcperrors.PipeError("wait", waitErr)
	}
	t.logger.Info("server process stopped")
	return nil
}

func (t *StdioTransport) writeLine(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writer == nil {
		return errors.New("transport not started")
	}
	if _, err := t.writer.Write(data); err != nil {
		return err
	}
	if err := t.writer.WriteByte('\n'); err != nil {
		return err
	}
	return t.writer.Flush()
}

// readLoop feeds stdout lines to the single pending Call. It exits on
// EOF, read error or Close.
func (t *StdioTransport) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		data := make([]byte, len(line))
		copy(data, line)

		select {
		case t.lines <- data:
		case <-t.done:
			return
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	t.readErr = err
	close(t.readClosed)
}

// drainStderr forwards the server's stderr to the logger line by line.
func (t *StdioTransport) drainStderr(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			t.logger.Debug("server stderr", logging.String("line", line))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
