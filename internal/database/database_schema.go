// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
database_schema.go - Catalog Schema Definition

This file contains the catalog table definitions. All statements are
idempotent (IF NOT EXISTS) so schema creation runs on every startup.

Tables:
  - categories: flat category set, unique names
  - users: catalog users with bcrypt password hashes
  - titles: catalog titles with external quality rating
  - title_categories: many-to-many title/category assignment
  - watch_events: one row per watch, with watched minutes
  - ratings: one row per rating (1-5); repeated ratings are kept

Identifiers come from one sequence per table.
*/

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the catalog tables
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func getTableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS categories_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS titles_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS watch_events_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS ratings_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY DEFAULT nextval('categories_id_seq'),
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY DEFAULT nextval('users_id_seq'),
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS titles (
			id INTEGER PRIMARY KEY DEFAULT nextval('titles_id_seq'),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL CHECK (year > 0),
			duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
			external_rating DOUBLE NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS title_categories (
			title_id INTEGER NOT NULL REFERENCES titles(id),
			category_id INTEGER NOT NULL REFERENCES categories(id),
			PRIMARY KEY (title_id, category_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watch_events (
			id INTEGER PRIMARY KEY DEFAULT nextval('watch_events_id_seq'),
			user_id INTEGER NOT NULL REFERENCES users(id),
			title_id INTEGER NOT NULL REFERENCES titles(id),
			watched_minutes INTEGER NOT NULL,
			watched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			id INTEGER PRIMARY KEY DEFAULT nextval('ratings_id_seq'),
			user_id INTEGER NOT NULL REFERENCES users(id),
			title_id INTEGER NOT NULL REFERENCES titles(id),
			score INTEGER NOT NULL CHECK (score BETWEEN 1 AND 5),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_watch_events_user ON watch_events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_events_title ON watch_events(title_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_title ON ratings(title_id)`,
	}
}
