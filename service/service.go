// Package service assembles the JSON-RPC method table for the to-do
// service: the item methods backed by a store.ItemRepository, plus
// service.discover so clients can enumerate what the server offers.
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/izaqyos/toyMCP/jsonrpc"
	"github.com/izaqyos/toyMCP/logger"
	"github.com/izaqyos/toyMCP/store"
)

// Method names as they appear on the wire. The table is closed: these
// four methods are the whole callable surface, and adding one means
// adding a descriptor in New.
const (
	MethodDiscover   = "service.discover"
	MethodItemList   = "item.list"
	MethodItemAdd    = "item.add"
	MethodItemRemove = "item.remove"
)

// Param schemas live next to the methods they guard. The registry
// compiles them at construction and discovery echoes them verbatim.
var (
	addItemSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"text": {
				"type": "string",
				"description": "Item text. Leading and trailing whitespace is trimmed."
			}
		},
		"required": ["text"]
	}`)

	removeItemSchema = json.RawMessage(`{
		"type": "object",
		"properties": {
			"id": {
				"type": "integer",
				"description": "Id of the item to remove."
			}
		},
		"required": ["id"]
	}`)
)

// Info identifies the service in discovery responses.
type Info struct {
	Name        string
	Version     string
	Description string
}

// Service owns the method table and the handlers behind it.
type Service struct {
	info     Info
	repo     store.ItemRepository
	log      logger.Logger
	registry *jsonrpc.Registry
}

// New wires the item methods to repo and builds the method table.
func New(info Info, repo store.ItemRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNullLogger()
	}
	s := &Service{info: info, repo: repo, log: log}
	s.registry = jsonrpc.NewRegistry(
		jsonrpc.Descriptor{
			Name:        MethodDiscover,
			Description: "Describe this service and the methods it exposes.",
			Result:      "object",
			Handler:     s.discover,
		},
		jsonrpc.Descriptor{
			Name:        MethodItemList,
			Description: "List all to-do items in creation order.",
			Result:      "array",
			Handler:     s.listItems,
		},
		jsonrpc.Descriptor{
			Name:        MethodItemAdd,
			Description: "Add a to-do item and return it.",
			Params:      addItemSchema,
			Result:      "object",
			Handler:     s.addItem,
		},
		jsonrpc.Descriptor{
			Name:        MethodItemRemove,
			Description: "Remove a to-do item by id and return the removed item.",
			Params:      removeItemSchema,
			Result:      "object",
			Handler:     s.removeItem,
		},
	)
	return s
}

// Registry returns the compiled method table for dispatch.
func (s *Service) Registry() *jsonrpc.Registry {
	return s.registry
}

func (s *Service) listItems(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	return s.repo.List(ctx)
}

type addItemParams struct {
	Text string `json:"text"`
}

func (s *Service) addItem(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p addItemParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(err.Error())
	}
	item, err := s.repo.Add(ctx, p.Text)
	if errors.Is(err, store.ErrEmptyText) {
		return nil, jsonrpc.NewInvalidParamsError("text must not be empty")
	}
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]interface{}{"id": item.ID}).Info("item added")
	return item, nil
}

type removeItemParams struct {
	ID int64 `json:"id"`
}

func (s *Service) removeItem(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p removeItemParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, jsonrpc.NewInvalidParamsError(err.Error())
	}
	item, err := s.repo.Remove(ctx, p.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, jsonrpc.NewError(jsonrpc.CodeNotFound, "Item not found")
	}
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]interface{}{"id": item.ID}).Info("item removed")
	return item, nil
}
