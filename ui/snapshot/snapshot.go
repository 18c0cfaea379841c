// Package snapshot serializes the full store value tree to YAML and
// persists snapshots in a bolt database. It is the persistence
// collaborator the engine core imposes no schema on: paths are
// strings, values are arbitrary serializable data.
package snapshot

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eswat2/sudoku-juris/ui/state"
)

// Marshal encodes a store value tree.
func Marshal(root map[string]any) ([]byte, error) {
	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a value tree previously produced by Marshal.
func Unmarshal(data []byte) (map[string]any, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	if root == nil {
		root = make(map[string]any)
	}
	return root, nil
}

// Restore builds a fresh store from an encoded snapshot. Get returns
// identical values for every path present in the original.
func Restore(data []byte, opts ...state.Option) (*state.Store, error) {
	root, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return state.New(root, opts...), nil
}
