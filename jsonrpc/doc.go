// Package jsonrpc provides a JSON-RPC 2.0 server endpoint with a fixed
// method table, integrated with the endpoint processor chain.
//
// This package implements the JSON-RPC 2.0 specification (https://www.jsonrpc.org/specification)
// and JSON-RPC over HTTP (https://www.simple-is-better.org/json-rpc/transport_http.html)
// for single requests. Batch arrays are rejected as invalid requests.
//
// # Basic Usage
//
// Build a registry from descriptors, wrap it in a dispatcher, and serve
// via HTTP:
//
//	registry := jsonrpc.NewRegistry(
//	    jsonrpc.Descriptor{
//	        Name:        "echo",
//	        Description: "Returns its params unchanged.",
//	        Params:      json.RawMessage(`{"type":"object"}`),
//	        Handler: func(ctx context.Context, params json.RawMessage) (interface{}, error) {
//	            return params, nil
//	        },
//	    },
//	)
//	d := jsonrpc.NewDispatcher(registry, log)
//	http.Handle("/rpc", endpoint.Handler(d.Endpoint))
//	http.ListenAndServe(":8080", nil)
//
// # Method Table
//
// The registry is immutable: the full method set is declared up front
// as a descriptor list and cannot change at runtime. Each descriptor
// may carry a JSON Schema for its params; the dispatcher validates the
// params member against it before the handler runs, so handlers only
// see structurally valid input. A descriptor without a schema declares
// a method without parameters.
//
// # Notifications
//
// A request whose id is absent or null is a notification. Its handler
// runs with full side effects, but no response envelope is produced and
// the HTTP response is 204 No Content.
//
// # Error Handling
//
// Handlers return *Error for protocol-level failures:
//
//	return nil, jsonrpc.NewError(jsonrpc.CodeNotFound, "Item not found")
//
// Any other error value is logged server-side and reported to the
// client as a generic internal error.
//
// Standard error codes are defined as constants:
//   - CodeParseError (-32700)
//   - CodeInvalidRequest (-32600)
//   - CodeMethodNotFound (-32601)
//   - CodeInvalidParams (-32602)
//   - CodeInternalError (-32603)
//   - CodeServerError (-32000), base of the server error range
//   - CodeNotFound (1001), application range
//
// # Processor Integration
//
// Processors can be passed to endpoint.Handler for cross-cutting concerns:
//
//	http.Handle("/rpc", endpoint.Handler(d.Endpoint, authProcessor, loggingProcessor))
//
// Processor errors return HTTP error responses (not JSON-RPC errors).
package jsonrpc
