// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// CreateCategory inserts a category. Names are unique.
func (db *DB) CreateCategory(ctx context.Context, name string) (*recommend.Category, error) {
	var id int
	err := db.conn.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES (?) RETURNING id`, name).Scan(&id)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("category %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return &recommend.Category{ID: id, Name: name}, nil
}

// ListCategories returns all categories ordered by ID.
// This order is the one-hot order used by the recommendation engine.
func (db *DB) ListCategories(ctx context.Context) ([]recommend.Category, error) {
	return listCategories(ctx, db.conn)
}

func listCategories(ctx context.Context, q querier) ([]recommend.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer closeWithLog(rows, "rows")

	categories := make([]recommend.Category, 0)
	for rows.Next() {
		var c recommend.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
