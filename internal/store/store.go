// Package store persists a single production snapshot (the raw text plus
// the analyzed script) so work can be resumed later. Voice assignments and
// ambiance settings are deliberately not persisted; they are re-derived as
// defaults on load.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/example/audiodrama/internal/script"
)

// Snapshot is the unit of persistence.
type Snapshot struct {
	RawText string         `json:"raw_text"`
	Script  *script.Script `json:"script"`
}

var (
	ErrNoSavedData   = errors.New("no saved production")
	ErrCorruptData   = errors.New("saved production is corrupt")
	ErrNothingToSave = errors.New("nothing to save")
)

var (
	bucketName  = []byte("production")
	snapshotKey = []byte("current")
)

// Store keeps at most one snapshot under a fixed key in a bolt file.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save serializes snap under the fixed key, unconditionally overwriting any
// prior snapshot. An all-empty snapshot is a caller error, not stored.
func (s *Store) Save(snap Snapshot) error {
	if snap.RawText == "" && snap.Script == nil {
		return ErrNothingToSave
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(snapshotKey, data)
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

// Load returns the stored snapshot. Restoring it also resets voice
// assignments to defaults and discards any produced artifact; that policy
// lives in the orchestrator.
func (s *Store) Load() (Snapshot, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return ErrNoSavedData
		}
		v := b.Get(snapshotKey)
		if v == nil {
			return ErrNoSavedData
		}
		data = append(data, v...)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if snap.Script != nil {
		if err := snap.Script.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptData, err)
		}
	}

	return snap, nil
}

// HasSavedData reports whether a snapshot exists. It never fails; any
// trouble reading the store reads as "nothing saved".
func (s *Store) HasSavedData() bool {
	found := false

	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b != nil && b.Get(snapshotKey) != nil {
			found = true
		}
		return nil
	})

	return found
}
