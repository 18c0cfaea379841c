package statesrv

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sourcegraph/jsonrpc2"
)

// fakeProvider is an in-memory provider with a flat path map.
type fakeProvider struct {
	mu    sync.Mutex
	state map[string]any
	tree  string
}

func (p *fakeProvider) GetState(path string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.state[path]
	return v, ok
}

func (p *fakeProvider) SetState(path string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state[path] = value
}

func (p *fakeProvider) StatePaths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	paths := make([]string, 0, len(p.state))
	for k := range p.state {
		paths = append(paths, k)
	}
	return paths
}

func (p *fakeProvider) TreeText() string { return p.tree }

func dial(t *testing.T, prov Provider) *jsonrpc2.Conn {
	t.Helper()
	ctx := context.Background()
	server, client := net.Pipe()
	go New(prov).ServeConn(ctx, server)

	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(client, jsonrpc2.PlainObjectCodec{}),
		jsonrpc2.HandlerWithError(func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
			return nil, nil
		}))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGetSet(t *testing.T) {
	prov := &fakeProvider{state: map[string]any{"count": 1.0}}
	conn := dial(t, prov)
	ctx := context.Background()

	var got getResult
	if err := conn.Call(ctx, "state/get", getParams{Path: "count"}, &got); err != nil {
		t.Fatal(err)
	}
	if !got.OK || got.Value != 1.0 {
		t.Errorf("get count = %+v", got)
	}

	if err := conn.Call(ctx, "state/get", getParams{Path: "missing"}, &got); err != nil {
		t.Fatal(err)
	}
	if got.OK {
		t.Errorf("get missing reported ok: %+v", got)
	}

	var empty struct{}
	if err := conn.Call(ctx, "state/set", setParams{Path: "count", Value: 7}, &empty); err != nil {
		t.Fatal(err)
	}
	if v, _ := prov.GetState("count"); v != 7.0 {
		t.Errorf("after set, count = %v, want 7", v)
	}
}

func TestPathsAndTree(t *testing.T) {
	prov := &fakeProvider{
		state: map[string]any{"a": 1, "b": 2},
		tree:  "node root\n",
	}
	conn := dial(t, prov)
	ctx := context.Background()

	var pr pathsResult
	if err := conn.Call(ctx, "state/paths", struct{}{}, &pr); err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"a": true, "b": true}
	got := map[string]bool{}
	for _, p := range pr.Paths {
		got[p] = true
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}

	var tr treeResult
	if err := conn.Call(ctx, "tree", struct{}{}, &tr); err != nil {
		t.Fatal(err)
	}
	if tr.Text != "node root\n" {
		t.Errorf("tree = %q", tr.Text)
	}
}

func TestErrors(t *testing.T) {
	conn := dial(t, &fakeProvider{state: map[string]any{}})
	ctx := context.Background()

	var out any
	err := conn.Call(ctx, "nope", struct{}{}, &out)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("unknown method error = %v", err)
	}

	err = conn.Call(ctx, "state/get", getParams{}, &out)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeInvalidParams {
		t.Errorf("empty path error = %v", err)
	}
}
