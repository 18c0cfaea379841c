// Package state implements the hierarchical reactive state store.
//
// A path is a dotted string ("sudoku.selectedRow") naming a slot in a
// tree of nested mappings. Writes go through Set, which synchronously
// notifies every subscription whose recorded path set is related to
// the written path (the path itself, an ancestor, or a descendant).
// Reads go through Get/GetOK and are observed by the active dependency
// collector when performed inside Track.
//
// The store is single-threaded by contract: all mutations and the
// re-evaluations they trigger run on the caller's goroutine. Callers
// that drive the store from multiple goroutines must serialize access
// themselves (ui.Engine does).
package state

import (
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Policy controls whether a Set to a value deeply equal to the current
// value notifies subscribers.
type Policy int

const (
	// NotifyAlways fires subscribers on every Set, even no-op writes.
	NotifyAlways Policy = iota
	// NotifyOnChange compares the new value against the old one
	// (go-cmp deep equality) and skips notification when equal.
	NotifyOnChange
)

// Reader is the read-only store surface handed to reactive functions.
type Reader interface {
	Get(path string) any
	GetOK(path string) (any, bool)
}

type write struct {
	path  string
	value any
}

// Store is a hierarchical path-keyed value store with per-path
// subscriptions and batched synchronous notification.
type Store struct {
	root   map[string]any
	policy Policy

	// Subscriber index: read path -> subscriptions that recorded it.
	// Mutated only by Subscribe/Update/Cancel, read during Set.
	index map[string]map[*Subscription]struct{}
	seq   uint64 // registration order for deterministic notification

	collectors []*collector

	flushing bool
	pending  []write

	// Debugf receives path-resolution diagnostics. Nil drops them.
	Debugf func(format string, args ...any)
}

// Option configures a Store.
type Option func(*Store)

// WithPolicy sets the no-op-write notification policy.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// New creates a store around the given initial value tree. The tree is
// used as-is; pass nil for an empty store.
func New(initial map[string]any, opts ...Option) *Store {
	if initial == nil {
		initial = make(map[string]any)
	}
	s := &Store{
		root:  initial,
		index: make(map[string]map[*Subscription]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Split breaks a dotted path into segments.
func Split(path string) []string {
	return strings.Split(path, ".")
}

// Related reports whether two paths name the same slot or one names an
// ancestor of the other. A subscription that read "sudoku" must fire
// when "sudoku.selectedRow" changes, and vice versa.
func Related(a, b string) bool {
	if a == b {
		return true
	}
	return strings.HasPrefix(b, a+".") || strings.HasPrefix(a, b+".")
}

// Get returns the value at path, or nil if absent. Reads through a
// non-mapping intermediate resolve to absent.
func (s *Store) Get(path string) any {
	v, _ := s.GetOK(path)
	return v
}

// GetOK returns the value at path and whether it is present.
func (s *Store) GetOK(path string) (any, bool) {
	s.observe(path)
	cur := any(s.root)
	for _, seg := range Split(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			s.debugf("state: read %s through non-mapping value", path)
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set replaces the value at path, creating intermediate mappings as
// needed, and notifies related subscriptions before returning. A Set
// performed while a notification pass is running is queued and applied
// in the same outer flush, so every subscriber settles exactly once
// per batch.
func (s *Store) Set(path string, value any) {
	s.pending = append(s.pending, write{path, value})
	if s.flushing {
		return
	}
	s.flushing = true
	defer func() { s.flushing = false }()

	for len(s.pending) > 0 {
		dirty := s.drainWrites()
		for _, sub := range dirty {
			if sub.active {
				sub.notify()
			}
		}
	}
}

// drainWrites applies all queued writes and returns the affected
// subscriptions, deduplicated, in registration order.
func (s *Store) drainWrites() []*Subscription {
	seen := make(map[*Subscription]struct{})
	var dirty []*Subscription
	for len(s.pending) > 0 {
		w := s.pending[0]
		s.pending = s.pending[1:]
		if !s.apply(w) {
			continue
		}
		for _, sub := range s.affected(w.path) {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			dirty = append(dirty, sub)
		}
	}
	// Registration order, deterministic per run.
	sort.Slice(dirty, func(i, j int) bool { return dirty[i].seq < dirty[j].seq })
	return dirty
}

// apply performs one write and reports whether subscribers should be
// notified under the current policy.
func (s *Store) apply(w write) bool {
	segs := Split(w.path)
	m := s.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			if _, present := m[seg]; present {
				s.debugf("state: write %s replaces non-mapping intermediate %q", w.path, seg)
			}
			next = make(map[string]any)
			m[seg] = next
		}
		m = next
	}
	leaf := segs[len(segs)-1]
	old, had := m[leaf]
	m[leaf] = w.value
	if s.policy == NotifyOnChange && had && deepEqual(old, w.value) {
		return false
	}
	return true
}

func deepEqual(a, b any) bool {
	// go-cmp panics on incomparable values (functions and such); a
	// store holding those is outside the serializable-data contract,
	// so treat them as always unequal rather than crashing the flush.
	eq := false
	func() {
		defer func() { _ = recover() }()
		eq = cmp.Equal(a, b)
	}()
	return eq
}

// affected returns subscriptions whose path set is related to path,
// unordered and possibly with duplicates (callers dedupe).
func (s *Store) affected(path string) []*Subscription {
	var out []*Subscription
	for read, subs := range s.index {
		if !Related(read, path) {
			continue
		}
		for sub := range subs {
			out = append(out, sub)
		}
	}
	return out
}

// Root returns the underlying value tree. Callers serializing the
// store must treat it as read-only.
func (s *Store) Root() map[string]any {
	return s.root
}

// Paths returns every leaf path currently present, unsorted.
func (s *Store) Paths() []string {
	var out []string
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(p, sub)
				continue
			}
			out = append(out, p)
		}
	}
	walk("", s.root)
	return out
}

func (s *Store) debugf(format string, args ...any) {
	if s.Debugf != nil {
		s.Debugf(format, args...)
	}
}

// Subscription binds a set of read paths to a notification callback.
// The renderer owns subscriptions; the store's index only references
// them.
type Subscription struct {
	store  *Store
	seq    uint64
	paths  []string
	notify func()
	active bool
}

// Subscribe registers a callback for the given read paths. The paths
// slice is not retained by the caller afterwards.
func (s *Store) Subscribe(paths []string, notify func()) *Subscription {
	s.seq++
	sub := &Subscription{store: s, seq: s.seq, notify: notify, active: true}
	sub.attach(paths)
	return sub
}

// Update replaces the subscription's path set with the paths from its
// most recent evaluation. Stale entries are removed before new ones
// are added, so abandoned conditional branches never fire again.
func (sub *Subscription) Update(paths []string) {
	if !sub.active {
		return
	}
	sub.detach()
	sub.attach(paths)
}

// Cancel removes the subscription from the store index. Idempotent.
func (sub *Subscription) Cancel() {
	if !sub.active {
		return
	}
	sub.active = false
	sub.detach()
}

// Paths returns the currently recorded read paths.
func (sub *Subscription) Paths() []string {
	return sub.paths
}

func (sub *Subscription) attach(paths []string) {
	sub.paths = append([]string(nil), paths...)
	for _, p := range paths {
		m := sub.store.index[p]
		if m == nil {
			m = make(map[*Subscription]struct{})
			sub.store.index[p] = m
		}
		m[sub] = struct{}{}
	}
}

func (sub *Subscription) detach() {
	for _, p := range sub.paths {
		m := sub.store.index[p]
		delete(m, sub)
		if len(m) == 0 {
			delete(sub.store.index, p)
		}
	}
	sub.paths = nil
}
