package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/izaqyos/toyMCP/endpoint"
	"github.com/izaqyos/toyMCP/logger"
)

// Version is the only protocol version this server speaks.
const Version = "2.0"

// Request is the JSON-RPC request envelope. ID is kept raw so the
// response can echo it byte for byte and so its JSON type can be
// checked without guessing at Go types.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// Response is the JSON-RPC response envelope. ID has no omitempty:
// error responses for unidentifiable requests must carry "id":null,
// which a nil RawMessage marshals to.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

var nullID = json.RawMessage("null")

// isNotification reports whether the request carries no usable id.
// Both an absent id and an explicit null mark a notification.
func (r *Request) isNotification() bool {
	return len(r.ID) == 0 || bytes.Equal(r.ID, nullID)
}

// validID reports whether id is a string, number, or null. Objects,
// arrays, and booleans are not legal request identifiers.
func validID(id json.RawMessage) bool {
	if len(id) == 0 {
		return true
	}
	switch id[0] {
	case '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	case 'n':
		return bytes.Equal(id, nullID)
	}
	return false
}

// Dispatcher executes single JSON-RPC requests against an immutable
// method registry. It holds no mutable state, so one dispatcher safely
// serves concurrent requests.
// Use endpoint.Handler(d.Endpoint, processors...) to create an http.Handler.
type Dispatcher struct {
	registry *Registry
	log      logger.Logger
}

// NewDispatcher creates a dispatcher over registry. A nil log disables
// dispatcher logging.
func NewDispatcher(registry *Registry, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Dispatcher{registry: registry, log: log}
}

// Dispatch runs one request body through the protocol state machine and
// returns the response envelope. A nil response means the request was a
// notification: side effects have happened, but nothing is written back.
//
// Error precedence is strict. Malformed JSON is a parse error; valid
// JSON that is not a request object (batch arrays included) is an
// invalid request; only a well-formed request can reach method lookup,
// params validation, and the handler.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) *Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return errorResponse(nil, NewParseError(nil))
		}
		// Parseable JSON of the wrong shape: a top-level array or
		// primitive, or envelope fields of the wrong JSON type.
		return errorResponse(nil, NewInvalidRequestError(nil))
	}

	if req.JSONRPC != Version || req.Method == "" || !validID(req.ID) {
		return errorResponse(nil, NewInvalidRequestError(nil))
	}

	if req.isNotification() {
		// Notifications execute with full side effects, but the
		// outcome is discarded, errors included.
		if _, err := d.call(ctx, &req); err != nil {
			d.log.WithErr(err).WithFields(map[string]interface{}{
				"method": req.Method,
			}).Debug("notification discarded an error")
		}
		return nil
	}

	result, err := d.call(ctx, &req)
	if err != nil {
		return errorResponse(req.ID, d.mapError(req.Method, err))
	}
	return &Response{JSONRPC: Version, Result: result, ID: req.ID}
}

// call resolves the method, validates params against its schema, and
// invokes the handler. A panicking handler is recovered here so one bad
// request cannot take the server down.
func (d *Dispatcher) call(ctx context.Context, req *Request) (result interface{}, err error) {
	m, ok := d.registry.methods[req.Method]
	if !ok {
		return nil, NewMethodNotFoundError(req.Method)
	}
	if err := m.checkParams(req.Params); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.WithFields(map[string]interface{}{
				"method": req.Method,
				"panic":  r,
			}).Error("recovered panic in rpc handler")
			result, err = nil, NewInternalError(nil)
		}
	}()

	return m.desc.Handler(ctx, req.Params)
}

// mapError folds a handler error into the response taxonomy. Error
// values pass through with their code; anything else becomes a generic
// internal error with the cause logged, never put on the wire.
func (d *Dispatcher) mapError(methodName string, err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	d.log.WithErr(err).WithFields(map[string]interface{}{
		"method": methodName,
	}).Error("rpc handler failed")
	return NewInternalError(nil)
}

func errorResponse(id json.RawMessage, rpcErr *Error) *Response {
	return &Response{JSONRPC: Version, Error: rpcErr, ID: id}
}

// rpcParams captures the raw request body. Parsing is deferred to the
// dispatcher: JSON-RPC errors must become 200 responses with an error
// body, not the 400 the default json body decoder would produce.
type rpcParams struct {
	Body []byte `body:""`
}

// Endpoint is the endpoint function that serves JSON-RPC over HTTP.
// Pass to endpoint.Handler() to create an http.Handler.
func (d *Dispatcher) Endpoint(w http.ResponseWriter, r *http.Request, params rpcParams) (endpoint.Renderer, error) {
	if r.Method != http.MethodPost {
		return nil, endpoint.Error(http.StatusMethodNotAllowed, "JSON-RPC requires POST method", nil)
	}

	// Per JSON-RPC over HTTP, the request Content-Type must be application/json.
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return nil, endpoint.Error(http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
	}

	resp := d.Dispatch(r.Context(), params.Body)
	if resp == nil {
		return &endpoint.NoContentRenderer{}, nil
	}
	return &endpoint.JSONRenderer{Value: resp}, nil
}
