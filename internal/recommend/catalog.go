// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
)

// Note: This package has no dependencies on other internal packages.
// The CatalogReader and SnapshotProvider interfaces let the database package
// plug in without creating circular imports.

var (
	// ErrUserNotFound is returned by CatalogReader.GetUser for unknown users.
	ErrUserNotFound = errors.New("user not found")

	// ErrCatalogUnavailable wraps failures to obtain a catalog snapshot,
	// including rejections by an open circuit breaker.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CatalogReader is the read-only view of the catalog store.
// This is typically implemented by the database layer.
type CatalogReader interface {
	// ListCategories returns all categories in a stable order.
	ListCategories(ctx context.Context) ([]Category, error)

	// ListTitles returns all titles in catalog order, with CategoryIDs,
	// Ratings and WatchCount populated.
	ListTitles(ctx context.Context) ([]Title, error)

	// ListUsers returns all users in catalog order.
	ListUsers(ctx context.Context) ([]User, error)

	// GetUser returns one user. A missing user yields an error matching
	// ErrUserNotFound.
	GetUser(ctx context.Context, userID int) (*User, error)

	// ListWatchEventsForUser returns a user's watch events in insertion order.
	ListWatchEventsForUser(ctx context.Context, userID int) ([]WatchEvent, error)

	// ListRatingsForUser returns a user's ratings in insertion order.
	ListRatingsForUser(ctx context.Context, userID int) ([]Rating, error)
}

// SnapshotProvider supplies a consistent catalog snapshot for one request.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// ReadSnapshot assembles a Snapshot through a CatalogReader.
// Consistency across the individual reads is the reader's responsibility.
func ReadSnapshot(ctx context.Context, reader CatalogReader) (*Snapshot, error) {
	categories, err := reader.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	titles, err := reader.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	users, err := reader.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	histories := make([]UserHistory, 0, len(users))
	for _, u := range users {
		watches, err := reader.ListWatchEventsForUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list watch events for user %d: %w", u.ID, err)
		}
		ratings, err := reader.ListRatingsForUser(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list ratings for user %d: %w", u.ID, err)
		}
		histories = append(histories, UserHistory{User: u, Watches: watches, Ratings: ratings})
	}

	return &Snapshot{
		Categories: categories,
		Titles:     titles,
		Users:      histories,
	}, nil
}

// ReaderProvider adapts a CatalogReader into a SnapshotProvider.
type ReaderProvider struct {
	reader CatalogReader
}

// NewReaderProvider creates a SnapshotProvider backed by reader.
func NewReaderProvider(reader CatalogReader) *ReaderProvider {
	return &ReaderProvider{reader: reader}
}

// Snapshot implements SnapshotProvider.
func (p *ReaderProvider) Snapshot(ctx context.Context) (*Snapshot, error) {
	return ReadSnapshot(ctx, p.reader)
}

// StaticProvider serves a fixed snapshot. Useful for tests and offline runs.
type StaticProvider struct {
	snapshot *Snapshot
}

// NewStaticProvider creates a provider that always returns snapshot.
func NewStaticProvider(snapshot *Snapshot) *StaticProvider {
	return &StaticProvider{snapshot: snapshot}
}

// Snapshot implements SnapshotProvider.
func (p *StaticProvider) Snapshot(_ context.Context) (*Snapshot, error) {
	if p.snapshot == nil {
		return &Snapshot{}, nil
	}
	return p.snapshot, nil
}
