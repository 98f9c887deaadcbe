package errors

import (
	"fmt"
	"time"
)

// LaunchErrorData carries structured data for launch failures.
type LaunchErrorData struct {
	Command string `json:"command"`
	Reason  string `json:"reason,omitempty"`
}

// TransportErrorData carries structured data for pipe-level failures.
type TransportErrorData struct {
	Operation string        `json:"operation,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

// LaunchFailed creates an error for a server process that could not be
// found or started.
func LaunchFailed(command string, cause error) ClientError {
	message := fmt.Sprintf("failed to launch server process %q", command)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}
	return WrapError(cause, CodeLaunchFailed, message, CategoryLaunch, SeverityCritical).
		WithContext(&Context{Command: command, Component: "transport", Operation: "start"})
}

// PipeError creates an error for a failed write or read on the process
// pipes (broken pipe, closed stream, short write).
func PipeError(operation string, cause error) ClientError {
	message := fmt.Sprintf("stdio pipe error during %s", operation)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}
	return WrapError(cause, CodeTransportError, message, CategoryTransport, SeverityError).
		WithContext(&Context{Component: "transport", Operation: operation})
}

// NoResponse creates an error for a stream that closed before any reply
// line arrived, e.g. when the server crashed on startup.
func NoResponse(method string) ClientError {
	message := fmt.Sprintf("server closed the stream before replying to %q", method)
	return NewError(CodeNoResponse, message, CategoryTransport, SeverityError).
		WithContext(&Context{Method: method, Component: "transport", Operation: "read_reply"})
}

// ReadTimeout creates an error for an expired read deadline.
func ReadTimeout(method string, timeout time.Duration) ClientError {
	message := fmt.Sprintf("no reply to %q within %v", method, timeout)
	return NewError(CodeReadTimeout, message, CategoryTimeout, SeverityError).
		WithContext(&Context{Method: method, Component: "transport", Operation: "read_reply"})
}

// InvalidMessage creates an error for a line that is not valid JSON or
// not a structurally valid response.
func InvalidMessage(detail string, cause error) ClientError {
	message := "invalid message from server"
	if detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	return WrapError(cause, CodeProtocolError, message, CategoryProtocol, SeverityError).
		WithContext(&Context{Component: "transport", Operation: "parse_reply"})
}

// NotInitialized creates an error for a call issued before the initialize
// handshake completed.
func NotInitialized(method string) ClientError {
	message := fmt.Sprintf("cannot call %q before initialize has completed", method)
	return NewError(CodeInvalidSequence, message, CategoryProtocol, SeverityError).
		WithContext(&Context{Method: method, Component: "client", Operation: "ordering_check"})
}

// InvalidConfig creates an error for a rejected configuration value.
func InvalidConfig(field, reason string) ClientError {
	message := fmt.Sprintf("invalid configuration: %s %s", field, reason)
	return NewError(CodeConfigError, message, CategoryConfig, SeverityError).
		WithContext(&Context{Component: "config", Operation: "validate"})
}
