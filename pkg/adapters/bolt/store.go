package bolt

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/inet/pkg/domain"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

var bucket = []byte("nets")

// Store implements ports.NetStore on a single bbolt file. Snapshots are
// msgpack-encoded in one bucket keyed by net id.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Save replaces the snapshot stored under snap.ID.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(snap.ID), data)
	})
}

// Load decodes the snapshot for id.
func (s *Store) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		// Bytes returned by Get are only valid inside the transaction;
		// Unmarshal copies what it keeps.
		raw := tx.Bucket(bucket).Get([]byte(id))
		if raw == nil {
			return domain.ErrNetNotFound
		}
		snap = new(domain.Snapshot)
		return msgpack.Unmarshal(raw, snap)
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Delete removes id. Missing keys are ignored by bbolt.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(id))
	})
}

// List returns the ids in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
