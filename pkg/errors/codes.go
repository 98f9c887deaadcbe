package errors

// JSON-RPC 2.0 standard error codes, mirrored from the protocol package
// so this package stays import-free of it.
const (
	CodeParseError     int = -32700
	CodeInvalidRequest int = -32600
	CodeMethodNotFound int = -32601
	CodeInvalidParams  int = -32602
	CodeInternalError  int = -32603
)

// Client-side error codes. These never travel on the wire; they classify
// failures of the channel itself.
const (
	// Launch errors (-32510 to -32519)
	CodeLaunchFailed int = -32510 // Server process could not be started

	// Transport errors (-32520 to -32529)
	CodeTransportError int = -32520 // Write/read failure on the process pipes
	CodeNoResponse     int = -32521 // Stream closed before a reply line arrived
	CodeReadTimeout    int = -32522 // Read deadline expired awaiting a reply

	// Protocol errors (-32530 to -32539)
	CodeProtocolError   int = -32530 // Non-JSON or structurally invalid line
	CodeInvalidSequence int = -32531 // Session used before initialize completed

	// Configuration errors (-32540 to -32549)
	CodeConfigError int = -32540 // Invalid driver configuration
)

// CodeInfo provides human-readable information about an error code.
type CodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

var codeRegistry = map[int]CodeInfo{
	CodeParseError:     {CodeParseError, "ParseError", "Invalid JSON was received", CategoryProtocol, SeverityError},
	CodeInvalidRequest: {CodeInvalidRequest, "InvalidRequest", "Invalid Request object", CategoryProtocol, SeverityError},
	CodeMethodNotFound: {CodeMethodNotFound, "MethodNotFound", "Method does not exist", CategoryProtocol, SeverityError},
	CodeInvalidParams:  {CodeInvalidParams, "InvalidParams", "Invalid method parameters", CategoryProtocol, SeverityError},
	CodeInternalError:  {CodeInternalError, "InternalError", "Internal JSON-RPC error", CategoryInternal, SeverityError},

	CodeLaunchFailed: {CodeLaunchFailed, "LaunchFailed", "Server process could not be started", CategoryLaunch, SeverityCritical},

	CodeTransportError: {CodeTransportError, "TransportError", "Pipe write or read failed", CategoryTransport, SeverityError},
	CodeNoResponse:     {CodeNoResponse, "NoResponse", "Stream closed before a reply arrived", CategoryTransport, SeverityError},
	CodeReadTimeout:    {CodeReadTimeout, "ReadTimeout", "Read deadline expired", CategoryTimeout, SeverityError},

	CodeProtocolError:   {CodeProtocolError, "ProtocolError", "Invalid line received from server", CategoryProtocol, SeverityError},
	CodeInvalidSequence: {CodeInvalidSequence, "InvalidSequence", "Call issued before initialize completed", CategoryProtocol, SeverityError},

	CodeConfigError: {CodeConfigError, "ConfigError", "Invalid configuration", CategoryConfig, SeverityError},
}

// LookupCode returns information about a known error code.
func LookupCode(code int) (CodeInfo, bool) {
	info, ok := codeRegistry[code]
	return info, ok
}

// CodeName returns the symbolic name of a code, or "Unknown" for codes
// outside the registry.
func CodeName(code int) string {
	if info, ok := codeRegistry[code]; ok {
		return info.Name
	}
	return "Unknown"
}
