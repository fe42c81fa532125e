// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const servedKeyPrefix = "served:"

// ErrInvalidEntry is returned for entries without a user or request ID.
var ErrInvalidEntry = errors.New("invalid history entry")

// Entry is one served recommendation list.
type Entry struct {
	RequestID string    `json:"request_id"`
	UserID    int       `json:"user_id"`
	Strategy  string    `json:"strategy"`
	TitleIDs  []int     `json:"title_ids"`
	ServedAt  time.Time `json:"served_at"`
}

// Options configures a Store.
type Options struct {
	// Path is the Badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool

	// Retention is the entry TTL. Zero keeps entries until deleted.
	Retention time.Duration

	// MaxPerUser caps how many entries Recent returns.
	MaxPerUser int
}

// Store is a BadgerDB-backed recommendation journal.
type Store struct {
	db        *badger.DB
	retention time.Duration
	maxUser   int
	inMemory  bool
	logger    zerolog.Logger
}

// Open opens (or creates) the Badger database described by opts.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	s := NewStore(db, opts, logger)
	s.inMemory = opts.InMemory
	s.logger.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Dur("retention", opts.Retention).
		Msg("Recommendation history store opened")
	return s, nil
}

// NewStore wraps an already opened Badger database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(db *badger.DB, opts Options, logger zerolog.Logger) *Store {
	maxUser := opts.MaxPerUser
	if maxUser <= 0 {
		maxUser = 50
	}
	return &Store{
		db:        db,
		retention: opts.Retention,
		maxUser:   maxUser,
		inMemory:  db.Opts().InMemory,
		logger:    logger.With().Str("component", "history").Logger(),
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// entryKey builds the journal key for e.
func entryKey(e *Entry) []byte {
	inverted := math.MaxInt64 - e.ServedAt.UnixNano()
	return []byte(fmt.Sprintf("%s%010d:%020d:%s", servedKeyPrefix, e.UserID, inverted, e.RequestID))
}

func userPrefix(userID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", servedKeyPrefix, userID))
}

// Record appends e to the journal. A zero ServedAt is set to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.UserID <= 0 || e.RequestID == "" {
		return fmt.Errorf("%w: user_id=%d request_id=%q", ErrInvalidEntry, e.UserID, e.RequestID)
	}
	if e.ServedAt.IsZero() {
		e.ServedAt = time.Now().UTC()
	}
	if e.TitleIDs == nil {
		e.TitleIDs = []int{}
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(entryKey(&e), data)
		if s.retention > 0 {
			entry = entry.WithTTL(s.retention)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set history entry: %w", err)
		}
		return nil
	})
}

// Recent returns up to limit entries for userID, newest first. The limit is
// clamped to the store's per-user maximum; limit <= 0 means that maximum.
func (s *Store) Recent(ctx context.Context, userID, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.maxUser {
		limit = s.maxUser
	}

	entries := make([]Entry, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.PrefetchSize = limit
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := userPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(entries) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode history entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteUser removes every journal entry for userID and returns the count.
func (s *Store) DeleteUser(ctx context.Context, userID int) (int, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := userPrefix(userID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("list user history: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return 0, fmt.Errorf("delete history entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush history deletes: %w", err)
	}
	return len(keys), nil
}

// CollectGarbage runs one Badger value log GC pass. It is a no-op for
// in-memory stores and when there is nothing to rewrite.
func (s *Store) CollectGarbage(discardRatio float64) error {
	if s.inMemory {
		return nil
	}
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}
