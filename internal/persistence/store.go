package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Store is the BadgerDB-backed primary store for the single live
// snapshot. It is safe for concurrent use; BadgerDB handles its own
// locking.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewStore wraps an already-opened BadgerDB instance. The caller owns
// db's lifecycle and must close it when the process shuts down.
func NewStore(db *badger.DB, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("persistence: badger db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}, nil
}

// Save persists s under the single fixed storage key, overwriting
// whatever snapshot (if any) was there before.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	blob, err := marshal(snap)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(storageKey), blob)
	})
	if err != nil {
		return fmt.Errorf("persistence: writing snapshot: %w", err)
	}
	s.logger.Info("snapshot saved", slog.Int("nodes", len(snap.Domain.Nodes)), slog.Int("edges", len(snap.Domain.Edges)))
	return nil
}

// Load returns the current snapshot and whether a usable snapshot was
// found at all, after checking it against ttl. A missing key, a
// corrupted blob, an incomplete snapshot, or one older than ttl all
// resolve to (Snapshot{}, false, nil) — "no restoration", never an
// error the caller must handle specially.
func (s *Store) Load(ctx context.Context, now time.Time, ttl time.Duration) (Snapshot, bool, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storageKey))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("persistence: reading snapshot: %w", err)
	}

	snap, err := unmarshal(blob)
	if err != nil {
		s.logger.Warn("discarding corrupted snapshot", slog.Any("error", err))
		return Snapshot{}, false, nil
	}
	if !snap.Valid() {
		s.logger.Warn("discarding incomplete snapshot", slog.String("scopeId", snap.ScopeID))
		return Snapshot{}, false, nil
	}
	if snap.Stale(now, ttl) {
		s.logger.Info("discarding stale snapshot", slog.Duration("ttl", ttl))
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Clear removes the stored snapshot, if any.
func (s *Store) Clear(ctx context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(storageKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: clearing snapshot: %w", err)
	}
	return nil
}
