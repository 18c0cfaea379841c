// Package diag is the diagnostics sink for the UI engine.
//
// Render-time failures never abort sibling or ancestor work; they are
// reported here and the engine degrades to a stale or empty fragment.
// The default sink writes through glog so diagnostics end up wherever
// the host program routes its logs.
package diag

import (
	"fmt"

	"github.com/golang/glog"
)

// Sink receives engine diagnostics.
type Sink interface {
	// Error reports a render-time failure tied to one render node.
	Error(nodeID, detail string, err error)
	// Debugf reports low-severity diagnostics (path resolution misses
	// and the like). Implementations may drop these entirely.
	Debugf(format string, args ...any)
}

// Glog is the default sink. Errors go to glog.Error; debug output is
// emitted only at verbosity 2 and above.
type Glog struct{}

func (Glog) Error(nodeID, detail string, err error) {
	glog.Errorf("render %s: %s: %v", nodeID, detail, err)
}

func (Glog) Debugf(format string, args ...any) {
	if glog.V(2) {
		glog.InfoDepth(1, fmt.Sprintf(format, args...))
	}
}

// Entry is one reported error, retained by Record for assertions.
type Entry struct {
	NodeID string
	Detail string
	Err    error
}

// Record is a sink that keeps everything in memory. Tests use it to
// assert that a failing evaluation is reported exactly once.
type Record struct {
	Entries []Entry
	Debug   []string
}

func (r *Record) Error(nodeID, detail string, err error) {
	r.Entries = append(r.Entries, Entry{NodeID: nodeID, Detail: detail, Err: err})
}

func (r *Record) Debugf(format string, args ...any) {
	r.Debug = append(r.Debug, fmt.Sprintf(format, args...))
}

// Discard drops everything.
type Discard struct{}

func (Discard) Error(string, string, error) {}
func (Discard) Debugf(string, ...any)       {}
