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

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// AddWatchEvent records that a user watched a title for the given minutes.
// Missing users or titles fail with ErrInvalidReference.
func (db *DB) AddWatchEvent(ctx context.Context, userID, titleID, minutes int) (*recommend.WatchEvent, error) {
	ev := &recommend.WatchEvent{UserID: userID, TitleID: titleID, WatchedMinutes: minutes}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkUserAndTitle(ctx, tx, userID, titleID); err != nil {
			return err
		}
		err := tx.QueryRowContext(ctx,
			`INSERT INTO watch_events (user_id, title_id, watched_minutes)
			VALUES (?, ?, ?)
			RETURNING watched_at`, userID, titleID, minutes,
		).Scan(&ev.WatchedAt)
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("watch event: %w", ErrInvalidReference)
			}
			return fmt.Errorf("failed to insert watch event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// AddRating records a 1-5 rating. Earlier ratings for the same title are kept;
// consumers treat the latest as authoritative.
func (db *DB) AddRating(ctx context.Context, userID, titleID, score int) (*recommend.Rating, error) {
	if score < 1 || score > 5 {
		return nil, fmt.Errorf("score %d out of range [1, 5]", score)
	}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkUserAndTitle(ctx, tx, userID, titleID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ratings (user_id, title_id, score) VALUES (?, ?, ?)`, userID, titleID, score,
		); err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("rating: %w", ErrInvalidReference)
			}
			return fmt.Errorf("failed to insert rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recommend.Rating{UserID: userID, TitleID: titleID, Score: score}, nil
}

// ListWatchEventsForUser returns a user's watch events ordered by ID.
func (db *DB) ListWatchEventsForUser(ctx context.Context, userID int) ([]recommend.WatchEvent, error) {
	return listWatchEvents(ctx, db.conn, ` WHERE user_id = ?`, userID)
}

// ListRatingsForUser returns a user's ratings ordered by ID.
func (db *DB) ListRatingsForUser(ctx context.Context, userID int) ([]recommend.Rating, error) {
	return listRatings(ctx, db.conn, ` WHERE user_id = ?`, userID)
}

func listWatchEvents(ctx context.Context, q querier, filter string, args ...any) ([]recommend.WatchEvent, error) {
	events := make([]recommend.WatchEvent, 0)
	err := eachRow(ctx, q,
		`SELECT user_id, title_id, watched_minutes, watched_at FROM watch_events`+filter+` ORDER BY id`, args,
		func(rows *sql.Rows) error {
			var ev recommend.WatchEvent
			var watchedAt sql.NullTime
			if err := rows.Scan(&ev.UserID, &ev.TitleID, &ev.WatchedMinutes, &watchedAt); err != nil {
				return err
			}
			if watchedAt.Valid {
				ev.WatchedAt = watchedAt.Time
			}
			events = append(events, ev)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query watch events: %w", err)
	}
	return events, nil
}

func listRatings(ctx context.Context, q querier, filter string, args ...any) ([]recommend.Rating, error) {
	ratings := make([]recommend.Rating, 0)
	err := eachRow(ctx, q,
		`SELECT user_id, title_id, score FROM ratings`+filter+` ORDER BY id`, args,
		func(rows *sql.Rows) error {
			var r recommend.Rating
			if err := rows.Scan(&r.UserID, &r.TitleID, &r.Score); err != nil {
				return err
			}
			ratings = append(ratings, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	return ratings, nil
}

func checkUserAndTitle(ctx context.Context, q querier, userID, titleID int) error {
	ok, err := exists(ctx, q, `SELECT 1 FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrInvalidReference)
	}
	ok, err = exists(ctx, q, `SELECT 1 FROM titles WHERE id = ?`, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("title %d: %w", titleID, ErrInvalidReference)
	}
	return nil
}

// CatalogStats summarizes catalog sizes.
type CatalogStats struct {
	Categories  int       `json:"categories"`
	Titles      int       `json:"titles"`
	Users       int       `json:"users"`
	WatchEvents int       `json:"watch_events"`
	Ratings     int       `json:"ratings"`
	CollectedAt time.Time `json:"collected_at"`
}

// Stats returns row counts for every catalog table.
func (db *DB) Stats(ctx context.Context) (*CatalogStats, error) {
	stats := &CatalogStats{CollectedAt: time.Now()}
	err := db.conn.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM categories),
		(SELECT COUNT(*) FROM titles),
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM watch_events),
		(SELECT COUNT(*) FROM ratings)`,
	).Scan(&stats.Categories, &stats.Titles, &stats.Users, &stats.WatchEvents, &stats.Ratings)
	if err != nil {
		return nil, fmt.Errorf("failed to collect catalog stats: %w", err)
	}
	return stats, nil
}
