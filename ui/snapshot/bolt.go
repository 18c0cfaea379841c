package snapshot

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/eswat2/sudoku-juris/ui/state"
)

// ErrNoSnapshot is returned by Load when the named snapshot does not
// exist.
var ErrNoSnapshot = errors.New("no such snapshot")

const bucketSnapshot = "snapshot"

// DB wraps a bolt database holding named store snapshots.
type DB struct {
	db *bolt.DB
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshot))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: init %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Save encodes the store's full value tree and stores it under name.
func (d *DB) Save(name string, st *state.Store) error {
	data, err := Marshal(st.Root())
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshot))
		return b.Put([]byte(name), data)
	})
}

// Load returns the value tree stored under name.
func (d *DB) Load(name string) (map[string]any, error) {
	var data []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshot))
		v := b.Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: %q", ErrNoSnapshot, name)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Names lists the stored snapshot names.
func (d *DB) Names() ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshot))
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
