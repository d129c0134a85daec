package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/inet/internal/logging"
	"github.com/aretw0/inet/pkg/domain"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
)

const keyPrefix = "net/"

// Options configures the badger store.
type Options struct {
	// Dir holds the data files. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// Logger receives badger's own log lines. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Store implements ports.NetStore on BadgerDB with msgpack values.
type Store struct {
	db *badger.DB
}

// Open starts a badger database.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badger: Options.Dir is required for on-disk mode")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(slogAdapter{logger.With("component", "badger")})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}

func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(snap.ID), data)
	})
}

func (s *Store) Load(_ context.Context, id string) (*domain.Snapshot, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNetNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := msgpack.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// List iterates keys only; values are never read.
func (s *Store) List(_ context.Context) ([]string, error) {
	var ids []string
	prefix := []byte(keyPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	return ids, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// slogAdapter satisfies badger.Logger.
type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
