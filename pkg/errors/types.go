// Package errors provides structured error handling for the stdio session
// client. Channel-level failures (launch, transport, protocol) are raised
// as ClientError values; JSON-RPC error payloads inside well-formed
// responses are returned as data and never constructed here.
package errors

import (
	"fmt"
	"time"
)

// Category classifies an error for programmatic handling.
type Category string

const (
	// CategoryLaunch covers failures to spawn the server process.
	CategoryLaunch Category = "launch"
	// CategoryTransport covers write/read failures on the process pipes.
	CategoryTransport Category = "transport"
	// CategoryProtocol covers non-JSON or structurally invalid lines and
	// out-of-order session use.
	CategoryProtocol Category = "protocol"
	// CategoryTimeout covers expired read deadlines.
	CategoryTimeout Category = "timeout"
	// CategoryConfig covers invalid driver configuration.
	CategoryConfig Category = "config"
	// CategoryInternal covers bugs in this client.
	CategoryInternal Category = "internal"
)

// Severity indicates how critical an error is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Context records where an error occurred.
type Context struct {
	Method    string    `json:"method,omitempty"`
	Command   string    `json:"command,omitempty"`
	Component string    `json:"component,omitempty"`
	Operation string    `json:"operation,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientError is the interface implemented by all errors raised by the
// session client.
type ClientError interface {
	error

	// Code returns the numeric error code.
	Code() int

	// Message returns a human-readable error message.
	Message() string

	// Detail returns additional technical detail for diagnostics.
	Detail() string

	// Category returns the error category for classification.
	Category() Category

	// Severity returns the error severity level.
	Severity() Severity

	// Context returns where the error occurred.
	Context() *Context

	// WithContext returns a copy of the error with the provided context.
	WithContext(ctx *Context) ClientError

	// WithDetail returns a copy of the error with additional detail.
	WithDetail(detail string) ClientError

	// Unwrap returns the underlying cause, if any.
	Unwrap() error
}

type baseError struct {
	code     int
	message  string
	detail   string
	category Category
	severity Severity
	context  *Context
	cause    error
}

func (e *baseError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("%s: %s", e.message, e.detail)
	}
	return e.message
}

func (e *baseError) Code() int          { return e.code }
func (e *baseError) Message() string    { return e.message }
func (e *baseError) Detail() string     { return e.detail }
func (e *baseError) Category() Category { return e.category }
func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) Context() *Context  { return e.context }
func (e *baseError) Unwrap() error      { return e.cause }

func (e *baseError) WithContext(ctx *Context) ClientError {
	clone := *e
	if ctx != nil && ctx.Timestamp.IsZero() {
		ctx.Timestamp = time.Now()
	}
	clone.context = ctx
	return &clone
}

func (e *baseError) WithDetail(detail string) ClientError {
	clone := *e
	if clone.detail != "" {
		clone.detail = fmt.Sprintf("%s; %s", clone.detail, detail)
	} else {
		clone.detail = detail
	}
	return &clone
}

// NewError creates a ClientError with the given code, message and
// classification.
func NewError(code int, message string, category Category, severity Severity) ClientError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		context:  &Context{Timestamp: time.Now()},
	}
}

// WrapError wraps an existing error as a ClientError, preserving it for
// errors.Is / errors.As traversal.
func WrapError(err error, code int, message string, category Category, severity Severity) ClientError {
	return &baseError{
		code:     code,
		message:  message,
		category: category,
		severity: severity,
		cause:    err,
		context:  &Context{Timestamp: time.Now()},
	}
}

// AsClientError extracts a ClientError from err, reporting whether it is
// one.
func AsClientError(err error) (ClientError, bool) {
	if err == nil {
		return nil, false
	}
	cerr, ok := err.(ClientError)
	return cerr, ok
}

// IsCategory reports whether err is a ClientError of the given category.
func IsCategory(err error, category Category) bool {
	if cerr, ok := AsClientError(err); ok {
		return cerr.Category() == category
	}
	return false
}

// IsCode reports whether err is a ClientError with the given code.
func IsCode(err error, code int) bool {
	if cerr, ok := AsClientError(err); ok {
		return cerr.Code() == code
	}
	return false
}
