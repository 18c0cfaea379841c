// Package statesrv exposes a running engine's state tree and rendered
// element tree over JSON-RPC, so external tools can inspect and poke a
// live application.
//
// Methods:
//
//	state/get   {"path": p}              -> {"value": v, "ok": bool}
//	state/set   {"path": p, "value": v}  -> {}
//	state/paths {}                       -> {"paths": [...]}
//	tree        {}                       -> {"text": serialized tree}
package statesrv

import (
	"context"
	"encoding/json"
	"net"

	"github.com/sourcegraph/jsonrpc2"
)

// Provider is what the server needs from the engine. It decouples the
// server from concrete types; implementations must be safe for
// concurrent use.
type Provider interface {
	GetState(path string) (any, bool)
	SetState(path string, value any)
	StatePaths() []string
	TreeText() string
}

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Server serves the inspection protocol for one provider.
type Server struct {
	prov Provider
}

// New creates a server around the given provider.
func New(prov Provider) *Server {
	return &Server{prov: prov}
}

type method func(json.RawMessage) (any, error)

func (s *Server) methods() map[string]method {
	return map[string]method{
		"state/get":   s.get,
		"state/set":   s.set,
		"state/paths": s.paths,
		"tree":        s.tree,
	}
}

// Handler returns the jsonrpc2 handler for one connection.
func (s *Server) Handler() jsonrpc2.Handler {
	methods := s.methods()
	return jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var raw json.RawMessage
		if req.Params != nil {
			raw = *req.Params
		}
		return fn(raw)
	})
}

// ServeConn serves one connection until it closes.
func (s *Server) ServeConn(ctx context.Context, rwc net.Conn) {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.PlainObjectCodec{}), s.Handler())
	<-conn.DisconnectNotify()
}

// Serve accepts connections from the listener until it is closed or
// the context is canceled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		lis.Close()
	}()
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.ServeConn(ctx, conn)
	}
}

type getParams struct {
	Path string `json:"path"`
}

type getResult struct {
	Value any  `json:"value"`
	OK    bool `json:"ok"`
}

func (s *Server) get(raw json.RawMessage) (any, error) {
	var p getParams
	if json.Unmarshal(raw, &p) != nil || p.Path == "" {
		return nil, errInvalidParams
	}
	v, ok := s.prov.GetState(p.Path)
	return getResult{Value: v, OK: ok}, nil
}

type setParams struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

func (s *Server) set(raw json.RawMessage) (any, error) {
	var p setParams
	if json.Unmarshal(raw, &p) != nil || p.Path == "" {
		return nil, errInvalidParams
	}
	s.prov.SetState(p.Path, p.Value)
	return struct{}{}, nil
}

type pathsResult struct {
	Paths []string `json:"paths"`
}

func (s *Server) paths(json.RawMessage) (any, error) {
	return pathsResult{Paths: s.prov.StatePaths()}, nil
}

type treeResult struct {
	Text string `json:"text"`
}

func (s *Server) tree(json.RawMessage) (any, error) {
	return treeResult{Text: s.prov.TreeText()}, nil
}
