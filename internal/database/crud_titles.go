// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// NewTitle holds the fields for creating a title.
type NewTitle struct {
	Name            string
	Description     string
	Year            int
	DurationMinutes int
	ExternalRating  float64
	ImageURL        string
	CategoryIDs     []int
}

// CreateTitle inserts a title and its category assignments in one transaction.
// Unknown category IDs fail with ErrInvalidReference and nothing is written.
func (db *DB) CreateTitle(ctx context.Context, t NewTitle) (*recommend.Title, error) {
	categoryIDs := dedupeSorted(t.CategoryIDs)

	var id int
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		for _, cid := range categoryIDs {
			ok, err := exists(ctx, tx, `SELECT 1 FROM categories WHERE id = ?`, cid)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("category %d: %w", cid, ErrInvalidReference)
			}
		}

		query := `INSERT INTO titles (name, description, year, duration_minutes, external_rating, image_url)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`
		if err := tx.QueryRowContext(ctx, query,
			t.Name, t.Description, t.Year, t.DurationMinutes, t.ExternalRating, t.ImageURL,
		).Scan(&id); err != nil {
			if isCheckConstraintError(err) {
				return fmt.Errorf("title %q: %w", t.Name, ErrInvalidValue)
			}
			return fmt.Errorf("failed to insert title: %w", err)
		}

		for _, cid := range categoryIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO title_categories (title_id, category_id) VALUES (?, ?)`, id, cid,
			); err != nil {
				return fmt.Errorf("failed to assign category %d: %w", cid, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &recommend.Title{
		ID:              id,
		Name:            t.Name,
		Description:     t.Description,
		Year:            t.Year,
		DurationMinutes: t.DurationMinutes,
		ExternalRating:  t.ExternalRating,
		ImageURL:        t.ImageURL,
		CategoryIDs:     categoryIDs,
	}, nil
}

// GetTitle returns one title with categories, ratings and watch count.
func (db *DB) GetTitle(ctx context.Context, titleID int) (*recommend.Title, error) {
	var t recommend.Title
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, year, duration_minutes, external_rating, image_url
		FROM titles WHERE id = ?`, titleID,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Year, &t.DurationMinutes, &t.ExternalRating, &t.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get title %d: %w", titleID, err)
	}

	titles := []recommend.Title{t}
	if err := attachTitleDetails(ctx, db.conn, titles, titleID); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

// TitleExists reports whether a title with the given ID exists.
func (db *DB) TitleExists(ctx context.Context, titleID int) (bool, error) {
	return exists(ctx, db.conn, `SELECT 1 FROM titles WHERE id = ?`, titleID)
}

// ListTitles returns all titles ordered by ID, with CategoryIDs, Ratings and
// WatchCount populated.
func (db *DB) ListTitles(ctx context.Context) ([]recommend.Title, error) {
	return listTitles(ctx, db.conn)
}

func listTitles(ctx context.Context, q querier) ([]recommend.Title, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, description, year, duration_minutes, external_rating, image_url
		FROM titles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %w", err)
	}
	defer closeWithLog(rows, "rows")

	titles := make([]recommend.Title, 0)
	for rows.Next() {
		var t recommend.Title
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Year, &t.DurationMinutes, &t.ExternalRating, &t.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan title: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating titles: %w", err)
	}

	if err := attachTitleDetails(ctx, q, titles, 0); err != nil {
		return nil, err
	}
	return titles, nil
}

// attachTitleDetails fills CategoryIDs, Ratings and WatchCount.
// When onlyID is non-zero the queries are restricted to that title.
func attachTitleDetails(ctx context.Context, q querier, titles []recommend.Title, onlyID int) error {
	if len(titles) == 0 {
		return nil
	}

	index := make(map[int]int, len(titles))
	for i := range titles {
		index[titles[i].ID] = i
		titles[i].CategoryIDs = []int{}
	}

	filter, args := "", []any{}
	if onlyID != 0 {
		filter, args = " WHERE title_id = ?", []any{onlyID}
	}

	err := eachRow(ctx, q, `SELECT title_id, category_id FROM title_categories`+filter+` ORDER BY title_id, category_id`, args,
		func(rows *sql.Rows) error {
			var titleID, categoryID int
			if err := rows.Scan(&titleID, &categoryID); err != nil {
				return err
			}
			if i, ok := index[titleID]; ok {
				titles[i].CategoryIDs = append(titles[i].CategoryIDs, categoryID)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load title categories: %w", err)
	}

	err = eachRow(ctx, q, `SELECT title_id, score FROM ratings`+filter+` ORDER BY id`, args,
		func(rows *sql.Rows) error {
			var titleID, score int
			if err := rows.Scan(&titleID, &score); err != nil {
				return err
			}
			if i, ok := index[titleID]; ok {
				titles[i].Ratings = append(titles[i].Ratings, score)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load title ratings: %w", err)
	}

	err = eachRow(ctx, q, `SELECT title_id, COUNT(*) FROM watch_events`+filter+` GROUP BY title_id`, args,
		func(rows *sql.Rows) error {
			var titleID, count int
			if err := rows.Scan(&titleID, &count); err != nil {
				return err
			}
			if i, ok := index[titleID]; ok {
				titles[i].WatchCount = count
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("failed to load watch counts: %w", err)
	}
	return nil
}

// eachRow runs query and calls fn for every row.
func eachRow(ctx context.Context, q querier, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func dedupeSorted(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
