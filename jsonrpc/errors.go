package jsonrpc

// Error codes defined by the JSON-RPC 2.0 specification, plus the
// codes this server assigns from the application range.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeServerError is the base of the implementation-defined
	// server error range (-32000 to -32099).
	CodeServerError = -32000

	// CodeNotFound is returned when a method targets an entity
	// that does not exist.
	CodeNotFound = 1001
)

// Error is a JSON-RPC error object. It implements the error interface
// so handlers can return it directly; the dispatcher serializes it
// into the response envelope unchanged.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewParseError reports unparseable JSON (-32700).
func NewParseError(data interface{}) *Error {
	return &Error{Code: CodeParseError, Message: "Parse error", Data: data}
}

// NewInvalidRequestError reports a payload that is valid JSON but not a
// valid request object (-32600).
func NewInvalidRequestError(data interface{}) *Error {
	return &Error{Code: CodeInvalidRequest, Message: "Invalid Request", Data: data}
}

// NewMethodNotFoundError reports an unregistered method (-32601).
func NewMethodNotFoundError(data interface{}) *Error {
	return &Error{Code: CodeMethodNotFound, Message: "Method not found", Data: data}
}

// NewInvalidParamsError reports params that fail the method's schema or
// semantic checks (-32602).
func NewInvalidParamsError(data interface{}) *Error {
	return &Error{Code: CodeInvalidParams, Message: "Invalid params", Data: data}
}

// NewInternalError reports a server-side failure (-32603). The message
// is deliberately generic; the cause belongs in the server log, not on
// the wire.
func NewInternalError(data interface{}) *Error {
	return &Error{Code: CodeInternalError, Message: "Internal error", Data: data}
}
