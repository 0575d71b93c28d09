package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izaqyos/toyMCP/jsonrpc"
	"github.com/izaqyos/toyMCP/store"
)

func newTestService(t *testing.T) (*Service, *jsonrpc.Dispatcher) {
	t.Helper()
	svc := New(Info{
		Name:        "toymcp",
		Version:     "1.0.0",
		Description: "A to-do list over JSON-RPC.",
	}, store.NewMemoryRepository(), nil)
	return svc, jsonrpc.NewDispatcher(svc.Registry(), nil)
}

func dispatch(t *testing.T, d *jsonrpc.Dispatcher, body string) *jsonrpc.Response {
	t.Helper()
	return d.Dispatch(context.Background(), []byte(body))
}

type failingRepo struct{ err error }

func (f failingRepo) List(ctx context.Context) ([]store.Item, error) { return nil, f.err }
func (f failingRepo) Add(ctx context.Context, text string) (store.Item, error) {
	return store.Item{}, f.err
}
func (f failingRepo) Remove(ctx context.Context, id int64) (store.Item, error) {
	return store.Item{}, f.err
}

func TestMethodTable(t *testing.T) {
	svc, _ := newTestService(t)

	descs := svc.Registry().Descriptors()
	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{MethodDiscover, MethodItemList, MethodItemAdd, MethodItemRemove}, names)
}

func TestDiscover(t *testing.T) {
	_, d := newTestService(t)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"service.discover","id":1}`)
	require.Nil(t, resp.Error)

	disco, ok := resp.Result.(Discovery)
	require.True(t, ok, "result should be a Discovery, got %T", resp.Result)
	assert.Equal(t, "toymcp", disco.Name)
	assert.Equal(t, "1.0.0", disco.Version)

	require.Len(t, disco.Methods, 4)
	assert.Equal(t, MethodDiscover, disco.Methods[0].Name)
	assert.Equal(t, MethodItemList, disco.Methods[1].Name)
	assert.Equal(t, MethodItemAdd, disco.Methods[2].Name)
	assert.Equal(t, MethodItemRemove, disco.Methods[3].Name)

	// Parameterless methods advertise no schema; the others echo the
	// registered schema.
	assert.Nil(t, disco.Methods[0].Params)
	assert.Nil(t, disco.Methods[1].Params)
	assert.JSONEq(t, string(addItemSchema), string(disco.Methods[2].Params))
	assert.JSONEq(t, string(removeItemSchema), string(disco.Methods[3].Params))
}

func TestItemLifecycle(t *testing.T) {
	_, d := newTestService(t)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.add","params":{"text":"buy milk"},"id":1}`)
	require.Nil(t, resp.Error)
	added, ok := resp.Result.(store.Item)
	require.True(t, ok, "result should be an Item, got %T", resp.Result)
	assert.Equal(t, int64(1), added.ID)
	assert.Equal(t, "buy milk", added.Text)

	resp = dispatch(t, d, `{"jsonrpc":"2.0","method":"item.add","params":{"text":"  walk dog  "},"id":2}`)
	require.Nil(t, resp.Error)
	assert.Equal(t, "walk dog", resp.Result.(store.Item).Text)

	resp = dispatch(t, d, `{"jsonrpc":"2.0","method":"item.list","id":3}`)
	require.Nil(t, resp.Error)
	items := resp.Result.([]store.Item)
	require.Len(t, items, 2)
	assert.Equal(t, "buy milk", items[0].Text)
	assert.Equal(t, "walk dog", items[1].Text)

	resp = dispatch(t, d, `{"jsonrpc":"2.0","method":"item.remove","params":{"id":1},"id":4}`)
	require.Nil(t, resp.Error)
	assert.Equal(t, "buy milk", resp.Result.(store.Item).Text)

	resp = dispatch(t, d, `{"jsonrpc":"2.0","method":"item.list","id":5}`)
	require.Nil(t, resp.Error)
	items = resp.Result.([]store.Item)
	require.Len(t, items, 1)
	assert.Equal(t, "walk dog", items[0].Text)
}

func TestEmptyListSerializesAsArray(t *testing.T) {
	_, d := newTestService(t)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.list","id":1}`)
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestAddValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing params", `{"jsonrpc":"2.0","method":"item.add","id":1}`},
		{"missing text", `{"jsonrpc":"2.0","method":"item.add","params":{},"id":1}`},
		{"text not a string", `{"jsonrpc":"2.0","method":"item.add","params":{"text":123},"id":1}`},
		{"empty text", `{"jsonrpc":"2.0","method":"item.add","params":{"text":""},"id":1}`},
		{"whitespace only text", `{"jsonrpc":"2.0","method":"item.add","params":{"text":"   "},"id":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, d := newTestService(t)
			resp := dispatch(t, d, tc.body)
			require.NotNil(t, resp.Error)
			assert.Equal(t, jsonrpc.CodeInvalidParams, resp.Error.Code)
			assert.Contains(t, resp.Error.Data.(string), "text")
		})
	}

	// Nothing is stored when validation rejects the call.
	_, d := newTestService(t)
	dispatch(t, d, `{"jsonrpc":"2.0","method":"item.add","params":{"text":"   "},"id":1}`)
	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.list","id":2}`)
	require.Nil(t, resp.Error)
	assert.Empty(t, resp.Result.([]store.Item))
}

func TestRemoveValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing params", `{"jsonrpc":"2.0","method":"item.remove","id":1}`},
		{"missing id", `{"jsonrpc":"2.0","method":"item.remove","params":{},"id":1}`},
		{"id not a number", `{"jsonrpc":"2.0","method":"item.remove","params":{"id":"1"},"id":1}`},
		{"id not an integer", `{"jsonrpc":"2.0","method":"item.remove","params":{"id":1.5},"id":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, d := newTestService(t)
			resp := dispatch(t, d, tc.body)
			require.NotNil(t, resp.Error)
			assert.Equal(t, jsonrpc.CodeInvalidParams, resp.Error.Code)
		})
	}
}

func TestRemoveMissingItem(t *testing.T) {
	_, d := newTestService(t)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.remove","params":{"id":999},"id":1}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.CodeNotFound, resp.Error.Code)
	assert.Equal(t, "Item not found", resp.Error.Message)
}

func TestRemoveTwiceReportsNotFound(t *testing.T) {
	_, d := newTestService(t)

	dispatch(t, d, `{"jsonrpc":"2.0","method":"item.add","params":{"text":"once"},"id":1}`)
	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.remove","params":{"id":1},"id":2}`)
	require.Nil(t, resp.Error)

	resp = dispatch(t, d, `{"jsonrpc":"2.0","method":"item.remove","params":{"id":1},"id":3}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.CodeNotFound, resp.Error.Code)
}

func TestUnknownMethod(t *testing.T) {
	_, d := newTestService(t)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.clear","id":1}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "item.clear", resp.Error.Data)
}

func TestNotificationAddStillPersists(t *testing.T) {
	_, d := newTestService(t)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.add","params":{"text":"silent"}}`)
	assert.Nil(t, resp)

	resp = dispatch(t, d, `{"jsonrpc":"2.0","method":"item.list","id":1}`)
	require.Nil(t, resp.Error)
	items := resp.Result.([]store.Item)
	require.Len(t, items, 1)
	assert.Equal(t, "silent", items[0].Text)
}

func TestRepositoryFailureIsHidden(t *testing.T) {
	repoErr := errors.New("pq: connection refused")
	svc := New(Info{Name: "toymcp", Version: "1.0.0"}, failingRepo{err: repoErr}, nil)
	d := jsonrpc.NewDispatcher(svc.Registry(), nil)

	resp := dispatch(t, d, `{"jsonrpc":"2.0","method":"item.list","id":1}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.CodeInternalError, resp.Error.Code)
	assert.Equal(t, "Internal error", resp.Error.Message)
	assert.Nil(t, resp.Error.Data)
}
