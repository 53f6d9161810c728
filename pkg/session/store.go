package session

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned when no value exists for an ID
var ErrNotFound = errors.New("not found")

// StoreConfig selects where session data lives
type StoreConfig struct {
	DataDir  string
	InMemory bool
}

// Store persists opaque values keyed by KSUID
type Store struct {
	db *pebble.DB
}

// OpenStore opens the pebble database described by cfg. An in-memory store
// keeps nothing across restarts.
func OpenStore(cfg StoreConfig) (*Store, error) {
	opts := &pebble.Options{}
	path := cfg.DataDir
	if cfg.InMemory {
		opts.FS = vfs.NewMem()
		path = ""
	} else if path == "" {
		return nil, fmt.Errorf("session data directory is required")
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return &Store{db: db}, nil
}

// Create stores data under a freshly generated ID
func (s *Store) Create(data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Read returns a copy of the value stored under id
func (s *Store) Read(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	// pebble's buffer is only valid until closer.Close
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Update replaces the value stored under id
func (s *Store) Update(id ksuid.KSUID, data []byte) error {
	return s.db.Set(id.Bytes(), data, pebble.Sync)
}

// Delete removes id. Deleting a missing id is not an error.
func (s *Store) Delete(id ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.Sync)
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}
