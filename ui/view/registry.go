package view

import (
	"errors"
	"fmt"

	"github.com/eswat2/sudoku-juris/ui/state"
)

// ErrComponentNotFound is returned by Resolve for unregistered names.
// The renderer reports it and renders the affected subtree empty;
// sibling subtrees are unaffected.
var ErrComponentNotFound = errors.New("component not found")

// Props carries a component invocation's attributes. Reactive values
// have already been resolved by the renderer inside the component's
// tracked evaluation.
type Props map[string]any

// Int returns the prop as an int, or def when absent or mistyped.
func (p Props) Int(k string, def int) int {
	if v, ok := p[k].(int); ok {
		return v
	}
	return def
}

// String returns the prop as a string, or def when absent or mistyped.
func (p Props) String(k, def string) string {
	if v, ok := p[k].(string); ok {
		return v
	}
	return def
}

// Context is the sanctioned store access for components. All reads go
// through the renderer's active dependency collector, so a component's
// subscription always reflects what it actually read.
type Context struct {
	reader state.Reader
}

// NewContext wraps a tracked reader. Only the renderer should call
// this.
func NewContext(r state.Reader) *Context {
	return &Context{reader: r}
}

// Get returns the store value at path, or nil if absent.
func (c *Context) Get(path string) any {
	return c.reader.Get(path)
}

// GetOK returns the store value at path and whether it is present.
func (c *Context) GetOK(path string) (any, bool) {
	return c.reader.GetOK(path)
}

// Component is a pure function from props and tracked store reads to a
// fresh descriptor tree. Same props and same store contents must yield
// the same tree.
type Component func(props Props, ctx *Context) (*Node, error)

// Registry maps component names to component functions.
type Registry struct {
	components map[string]Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// Register binds a name to a component. Re-registering a name replaces
// the previous binding.
func (g *Registry) Register(name string, fn Component) {
	g.components[name] = fn
}

// Has reports whether name is registered.
func (g *Registry) Has(name string) bool {
	_, ok := g.components[name]
	return ok
}

// Resolve returns the component registered under name.
func (g *Registry) Resolve(name string) (Component, error) {
	fn, ok := g.components[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	return fn, nil
}
