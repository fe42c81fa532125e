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

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// NewUser holds the fields for creating a user.
// PasswordHash must already be hashed; the store never sees plain passwords.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
}

// CreateUser inserts a user and returns it with its assigned ID.
func (db *DB) CreateUser(ctx context.Context, u NewUser) (*recommend.User, error) {
	query := `INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
		RETURNING id`

	var id int
	if err := db.conn.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash).Scan(&id); err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("user %q: %w", u.Username, ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &recommend.User{ID: id, Username: u.Username, Email: u.Email}, nil
}

// GetUser returns a user by ID. A missing user matches both ErrNotFound and
// recommend.ErrUserNotFound.
func (db *DB) GetUser(ctx context.Context, userID int) (*recommend.User, error) {
	return getUser(ctx, db.conn, userID)
}

// ListUsers returns all users ordered by ID.
func (db *DB) ListUsers(ctx context.Context) ([]recommend.User, error) {
	return listUsers(ctx, db.conn)
}

// UserExists reports whether a user with the given ID exists.
func (db *DB) UserExists(ctx context.Context, userID int) (bool, error) {
	return exists(ctx, db.conn, `SELECT 1 FROM users WHERE id = ?`, userID)
}

func getUser(ctx context.Context, q querier, userID int) (*recommend.User, error) {
	var u recommend.User
	err := q.QueryRowContext(ctx, `SELECT id, username, email FROM users WHERE id = ?`, userID).
		Scan(&u.ID, &u.Username, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w: %w", userID, ErrNotFound, recommend.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &u, nil
}

func listUsers(ctx context.Context, q querier) ([]recommend.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, username, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	users := make([]recommend.User, 0)
	for rows.Next() {
		var u recommend.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// exists runs a single-row probe query.
func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return true, nil
}
