package state

import "fmt"

// collector records the paths read during one tracked evaluation.
type collector struct {
	paths []string
	seen  map[string]struct{}
}

func (c *collector) add(path string) {
	if _, ok := c.seen[path]; ok {
		return
	}
	c.seen[path] = struct{}{}
	c.paths = append(c.paths, path)
}

// observe records a read into the innermost active collector, if any.
// A read outside Track is an ordinary untracked read.
func (s *Store) observe(path string) {
	if n := len(s.collectors); n > 0 {
		s.collectors[n-1].add(path)
	}
}

// Track evaluates fn with a fresh dependency collector active and
// returns fn's result together with the paths it read. Collectors form
// a stack, so a tracked function that triggers a nested tracked
// evaluation does not corrupt the outer collection.
//
// If fn returns an error or panics, the collector is still finalized
// with the paths read up to the failure and the error is returned.
func (s *Store) Track(fn func(Reader) (any, error)) (result any, paths []string, err error) {
	c := &collector{seen: make(map[string]struct{})}
	s.collectors = append(s.collectors, c)
	defer func() {
		s.collectors = s.collectors[:len(s.collectors)-1]
		paths = c.paths
		if r := recover(); r != nil {
			err = fmt.Errorf("tracked evaluation panicked: %v", r)
		}
	}()
	result, err = fn(s)
	return result, c.paths, err
}
