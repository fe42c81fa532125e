// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Compile-time interface checks
var (
	_ recommend.CatalogReader    = (*DB)(nil)
	_ recommend.SnapshotProvider = (*DB)(nil)
)

// Snapshot reads the whole catalog inside one transaction.
//
// Watch events and ratings are loaded with one query each and grouped by
// user, keeping ID order within each user.
func (db *DB) Snapshot(ctx context.Context) (*recommend.Snapshot, error) {
	var snap *recommend.Snapshot
	start := time.Now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		snap, err = readSnapshot(ctx, tx)
		return err
	})
	metrics.RecordDBQuery("SNAPSHOT", "catalog", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func readSnapshot(ctx context.Context, q querier) (*recommend.Snapshot, error) {
	categories, err := listCategories(ctx, q)
	if err != nil {
		return nil, err
	}

	titles, err := listTitles(ctx, q)
	if err != nil {
		return nil, err
	}

	users, err := listUsers(ctx, q)
	if err != nil {
		return nil, err
	}

	watches, err := listWatchEvents(ctx, q, "")
	if err != nil {
		return nil, err
	}

	ratings, err := listRatings(ctx, q, "")
	if err != nil {
		return nil, err
	}

	index := make(map[int]int, len(users))
	histories := make([]recommend.UserHistory, len(users))
	for i, u := range users {
		index[u.ID] = i
		histories[i] = recommend.UserHistory{User: u}
	}
	for _, w := range watches {
		if i, ok := index[w.UserID]; ok {
			histories[i].Watches = append(histories[i].Watches, w)
		}
	}
	for _, r := range ratings {
		if i, ok := index[r.UserID]; ok {
			histories[i].Ratings = append(histories[i].Ratings, r)
		}
	}

	return &recommend.Snapshot{
		Categories: categories,
		Titles:     titles,
		Users:      histories,
	}, nil
}

// UserHistory returns one user's watch events and ratings.
func (db *DB) UserHistory(ctx context.Context, userID int) (*recommend.UserHistory, error) {
	u, err := db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	watches, err := db.ListWatchEventsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d history: %w", userID, err)
	}
	ratings, err := db.ListRatingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d history: %w", userID, err)
	}
	return &recommend.UserHistory{User: *u, Watches: watches, Ratings: ratings}, nil
}
