// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// setupTestStore opens an in-memory journal closed on cleanup.
func setupTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	opts.InMemory = true
	s, err := Open(opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func TestRecordAndRecent_NewestFirst(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{MaxPerUser: 10})
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		err := s.Record(ctx, Entry{
			RequestID: fmt.Sprintf("req-%d", i),
			UserID:    7,
			Strategy:  "cluster",
			TitleIDs:  []int{i + 1, i + 2},
			ServedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record(%d) error = %v", i, err)
		}
	}
	// Another user's entries must not leak into user 7's scan
	if err := s.Record(ctx, Entry{RequestID: "other", UserID: 70, ServedAt: base}); err != nil {
		t.Fatalf("Record(other) error = %v", err)
	}

	got, err := s.Recent(ctx, 7, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() returned %d entries, want 3", len(got))
	}
	for i, want := range []string{"req-2", "req-1", "req-0"} {
		if got[i].RequestID != want {
			t.Errorf("entry %d = %q, want %q", i, got[i].RequestID, want)
		}
	}
	if got[0].TitleIDs[0] != 3 || got[0].Strategy != "cluster" {
		t.Errorf("entry payload = %+v", got[0])
	}
	if !got[2].ServedAt.Equal(base) {
		t.Errorf("ServedAt = %v, want %v", got[2].ServedAt, base)
	}
}

func TestRecent_LimitClamped(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{MaxPerUser: 2})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := s.Record(ctx, Entry{RequestID: fmt.Sprintf("r%d", i), UserID: 1}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		limit int
		want  int
	}{
		{1, 1},
		{2, 2},
		{50, 2},
		{0, 2},
	}
	for _, tt := range tests {
		got, err := s.Recent(ctx, 1, tt.limit)
		if err != nil {
			t.Fatalf("Recent(limit=%d) error = %v", tt.limit, err)
		}
		if len(got) != tt.want {
			t.Errorf("Recent(limit=%d) = %d entries, want %d", tt.limit, len(got), tt.want)
		}
	}
}

func TestRecent_UnknownUser(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{})
	got, err := s.Recent(context.Background(), 404, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Recent() = %v, want empty non-nil slice", got)
	}
}

func TestRecord_Invalid(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{})
	ctx := context.Background()

	tests := []struct {
		name  string
		entry Entry
	}{
		{"missing user", Entry{RequestID: "r"}},
		{"missing request id", Entry{UserID: 1}},
	}
	for _, tt := range tests {
		if err := s.Record(ctx, tt.entry); !errors.Is(err, ErrInvalidEntry) {
			t.Errorf("%s: Record() error = %v, want ErrInvalidEntry", tt.name, err)
		}
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Record(canceled, Entry{RequestID: "r", UserID: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("Record(canceled) error = %v, want context.Canceled", err)
	}
}

func TestRecord_Retention(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{Retention: time.Hour})
	e := Entry{RequestID: "ttl", UserID: 3, ServedAt: time.Now()}
	if err := s.Record(context.Background(), e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(&e))
		if err != nil {
			return err
		}
		if item.ExpiresAt() == 0 {
			t.Error("entry should carry a TTL when retention is set")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Record(ctx, Entry{RequestID: fmt.Sprintf("d%d", i), UserID: 9}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := s.Record(ctx, Entry{RequestID: "keep", UserID: 10}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	n, err := s.DeleteUser(ctx, 9)
	if err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if n != 3 {
		t.Errorf("DeleteUser() = %d, want 3", n)
	}

	left, _ := s.Recent(ctx, 9, 10)
	if len(left) != 0 {
		t.Errorf("user 9 still has %d entries", len(left))
	}
	kept, _ := s.Recent(ctx, 10, 10)
	if len(kept) != 1 {
		t.Errorf("user 10 has %d entries, want 1", len(kept))
	}
}

func TestCollectGarbage_InMemory(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t, Options{})
	if err := s.CollectGarbage(0.5); err != nil {
		t.Errorf("CollectGarbage() error = %v, want nil for in-memory store", err)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := Open(Options{Path: dir, MaxPerUser: 5}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Record(context.Background(), Entry{RequestID: "disk", UserID: 1}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Entries survive a reopen
	s, err = Open(Options{Path: dir}, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	got, err := s.Recent(context.Background(), 1, 5)
	if err != nil || len(got) != 1 {
		t.Errorf("Recent() after reopen = %v, %v", got, err)
	}
}
