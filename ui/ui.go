// Package ui ties the reactive pieces together: an Engine owns one
// store, one component registry, and one renderer over a host surface.
// Engines are explicitly constructed, never ambient, so independent
// render trees can coexist and be tested in isolation.
package ui

import (
	"sort"
	"sync"

	"github.com/eswat2/sudoku-juris/ui/diag"
	"github.com/eswat2/sudoku-juris/ui/render"
	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/view"
)

// Engine is the framework context for one render tree.
//
// The engine core is single-threaded: mutations and the re-renders
// they trigger run on the caller's goroutine. The engine's exported
// mutators take a mutex so external collaborators (the inspection
// server, timers) can drive it from other goroutines.
type Engine struct {
	mu       sync.Mutex
	store    *state.Store
	registry *view.Registry
	renderer *render.Renderer
	sink     diag.Sink
	root     *render.RenderNode
}

type config struct {
	initial map[string]any
	policy  state.Policy
	sink    diag.Sink
}

// Option configures an Engine.
type Option func(*config)

// WithInitialState seeds the store's value tree.
func WithInitialState(initial map[string]any) Option {
	return func(c *config) { c.initial = initial }
}

// WithPolicy sets the store's no-op-write notification policy.
func WithPolicy(p state.Policy) Option {
	return func(c *config) { c.policy = p }
}

// WithSink routes diagnostics to the given sink instead of glog.
func WithSink(s diag.Sink) Option {
	return func(c *config) { c.sink = s }
}

// New creates an engine rendering onto the given host.
func New(host render.Host, opts ...Option) *Engine {
	c := config{sink: diag.Glog{}}
	for _, o := range opts {
		o(&c)
	}
	st := state.New(c.initial, state.WithPolicy(c.policy))
	st.Debugf = c.sink.Debugf
	reg := view.NewRegistry()
	return &Engine{
		store:    st,
		registry: reg,
		renderer: render.New(st, reg, host, render.WithSink(c.sink)),
		sink:     c.sink,
	}
}

// Store returns the engine's state store.
func (e *Engine) Store() *state.Store { return e.store }

// Registry returns the engine's component registry.
func (e *Engine) Registry() *view.Registry { return e.registry }

// Register binds a component name.
func (e *Engine) Register(name string, fn view.Component) {
	e.registry.Register(name, fn)
}

// Render mounts the descriptor tree under the given host element and
// remembers the root for Close.
func (e *Engine) Render(d *view.Node, under render.Element) *render.RenderNode {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.root = e.renderer.Render(d, under)
	return e.root
}

// Set writes a store path, triggering the synchronous notification
// flush.
func (e *Engine) Set(path string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Set(path, value)
}

// Get reads a store path outside any tracked evaluation.
func (e *Engine) Get(path string) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(path)
}

// GetState implements the inspection provider read.
func (e *Engine) GetState(path string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetOK(path)
}

// SetState implements the inspection provider write.
func (e *Engine) SetState(path string, value any) {
	e.Set(path, value)
}

// StatePaths implements the inspection provider path listing.
func (e *Engine) StatePaths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	paths := e.store.Paths()
	sort.Strings(paths)
	return paths
}

// Close unmounts the render tree. Idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.root.Unmount()
	e.root = nil
}
