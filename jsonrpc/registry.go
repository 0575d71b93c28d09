package jsonrpc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// HandlerFunc executes a single method call. Params carries the raw
// bytes of the request's params member, already validated against the
// method's schema when one is declared.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Descriptor declares one entry of the method table.
type Descriptor struct {
	Name        string
	Description string

	// Params is a JSON Schema for the params member. nil means the
	// method takes no parameters and any supplied params are ignored.
	Params json.RawMessage

	// Result is a short description of the result shape, surfaced by
	// discovery only.
	Result string

	Handler HandlerFunc
}

// method pairs a descriptor with its compiled schema.
type method struct {
	desc   Descriptor
	schema *gojsonschema.Schema
}

// Registry is an immutable method table. It is built once from a fixed
// descriptor list and exposes no mutation API: the set of callable
// methods is closed at construction, so adding a method means adding a
// descriptor to the table in source.
type Registry struct {
	order   []string
	methods map[string]*method
}

// NewRegistry compiles descriptors into a registry. The descriptor
// list is part of the program rather than its input, so an invalid
// entry (empty name, nil handler, duplicate name, unparseable schema)
// panics.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{
		order:   make([]string, 0, len(descriptors)),
		methods: make(map[string]*method, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Name == "" {
			panic("jsonrpc: descriptor with empty method name")
		}
		if d.Handler == nil {
			panic("jsonrpc: method " + d.Name + " has no handler")
		}
		if _, exists := r.methods[d.Name]; exists {
			panic("jsonrpc: method name collision: " + d.Name)
		}
		m := &method{desc: d}
		if d.Params != nil {
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(d.Params))
			if err != nil {
				panic("jsonrpc: invalid params schema for " + d.Name + ": " + err.Error())
			}
			m.schema = schema
		}
		r.order = append(r.order, d.Name)
		r.methods[d.Name] = m
	}
	return r
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	m, ok := r.methods[name]
	if !ok {
		return Descriptor{}, false
	}
	return m.desc, true
}

// Descriptors returns the method table in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.methods[name].desc)
	}
	return out
}

// checkParams validates params against the method's schema. Absent
// params validate as JSON null, which object schemas reject, so a
// method with required parameters cannot be called without them.
func (m *method) checkParams(params json.RawMessage) error {
	if m.schema == nil {
		return nil
	}
	if len(params) == 0 {
		params = json.RawMessage("null")
	}
	result, err := m.schema.Validate(gojsonschema.NewBytesLoader(params))
	if err != nil {
		return NewInvalidParamsError(err.Error())
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		details = append(details, resultErr.String())
	}
	return NewInvalidParamsError(strings.Join(details, "; "))
}
