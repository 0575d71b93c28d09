package service

import (
	"context"
	"encoding/json"
)

// MethodInfo is one method table entry as reported by service.discover.
type MethodInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Params      json.RawMessage `json:"params,omitempty"`
	Result      string          `json:"result,omitempty"`
}

// Discovery is the service.discover result.
type Discovery struct {
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Description string       `json:"description,omitempty"`
	Methods     []MethodInfo `json:"methods"`
}

// discover reports the service identity and every method in
// registration order. Params schemas are echoed as registered, so
// what a client validates against is exactly what the server enforces.
func (s *Service) discover(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	descs := s.registry.Descriptors()
	methods := make([]MethodInfo, 0, len(descs))
	for _, d := range descs {
		methods = append(methods, MethodInfo{
			Name:        d.Name,
			Description: d.Description,
			Params:      d.Params,
			Result:      d.Result,
		})
	}
	return Discovery{
		Name:        s.info.Name,
		Version:     s.info.Version,
		Description: s.info.Description,
		Methods:     methods,
	}, nil
}
