// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// disabledPasswordHash can never match a bcrypt comparison.
const disabledPasswordHash = "!"

type demoTitle struct {
	title      NewTitle
	categories []string
}

var demoCategories = []string{"Action", "Drama", "Comedy", "Sci-Fi", "Documentary"}

var demoTitles = []demoTitle{
	{NewTitle{Name: "Iron Harbor", Year: 2019, DurationMinutes: 128, ExternalRating: 7.8}, []string{"Action"}},
	{NewTitle{Name: "Last Signal", Year: 2021, DurationMinutes: 117, ExternalRating: 8.1}, []string{"Action", "Sci-Fi"}},
	{NewTitle{Name: "Quiet Rooms", Year: 2016, DurationMinutes: 104, ExternalRating: 7.2}, []string{"Drama"}},
	{NewTitle{Name: "The Long Winter", Year: 2012, DurationMinutes: 142, ExternalRating: 8.4}, []string{"Drama"}},
	{NewTitle{Name: "Second Helpings", Year: 2018, DurationMinutes: 96, ExternalRating: 6.5}, []string{"Comedy"}},
	{NewTitle{Name: "Office Orbit", Year: 2022, DurationMinutes: 101, ExternalRating: 6.9}, []string{"Comedy", "Sci-Fi"}},
	{NewTitle{Name: "Deep Field", Year: 2020, DurationMinutes: 88, ExternalRating: 8.0}, []string{"Documentary", "Sci-Fi"}},
	{NewTitle{Name: "Salt and Stone", Year: 2015, DurationMinutes: 92, ExternalRating: 7.4}, []string{"Documentary"}},
	{NewTitle{Name: "Crossfire Run", Year: 2023, DurationMinutes: 110, ExternalRating: 6.1}, []string{"Action"}},
	{NewTitle{Name: "Paper Crowns", Year: 2010, DurationMinutes: 121, ExternalRating: 7.9}, []string{"Drama", "Comedy"}},
}

var demoUsers = []string{"ada", "grace", "linus", "barbara"}

// demoWatches lists (user index, title index, watched minutes, rating or 0).
var demoWatches = [][4]int{
	{0, 0, 128, 5}, {0, 1, 117, 4}, {0, 8, 60, 0},
	{1, 2, 104, 4}, {1, 3, 142, 5}, {1, 9, 121, 4},
	{2, 4, 96, 3}, {2, 5, 101, 5}, {2, 1, 40, 0},
	{3, 6, 88, 5}, {3, 7, 92, 4},
}

// SeedDemoData fills an empty catalog with a small demo dataset.
// It does nothing when any title already exists.
func (db *DB) SeedDemoData(ctx context.Context) error {
	stats, err := db.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.Titles > 0 {
		logging.Debug().Int("titles", stats.Titles).Msg("Catalog not empty, skipping demo seed")
		return nil
	}

	categoryIDs := make(map[string]int, len(demoCategories))
	for _, name := range demoCategories {
		c, err := db.CreateCategory(ctx, name)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		categoryIDs[name] = c.ID
	}

	titleIDs := make([]int, len(demoTitles))
	for i, dt := range demoTitles {
		nt := dt.title
		for _, name := range dt.categories {
			nt.CategoryIDs = append(nt.CategoryIDs, categoryIDs[name])
		}
		t, err := db.CreateTitle(ctx, nt)
		if err != nil {
			return fmt.Errorf("seed title %s: %w", nt.Name, err)
		}
		titleIDs[i] = t.ID
	}

	userIDs := make([]int, len(demoUsers))
	for i, name := range demoUsers {
		u, err := db.CreateUser(ctx, NewUser{
			Username:     name,
			Email:        name + "@example.com",
			PasswordHash: disabledPasswordHash,
		})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", name, err)
		}
		userIDs[i] = u.ID
	}

	for _, w := range demoWatches {
		userID, titleID := userIDs[w[0]], titleIDs[w[1]]
		if _, err := db.AddWatchEvent(ctx, userID, titleID, w[2]); err != nil {
			return fmt.Errorf("seed watch event: %w", err)
		}
		if w[3] > 0 {
			if _, err := db.AddRating(ctx, userID, titleID, w[3]); err != nil {
				return fmt.Errorf("seed rating: %w", err)
			}
		}
	}

	logging.Info().
		Int("categories", len(demoCategories)).
		Int("titles", len(demoTitles)).
		Int("users", len(demoUsers)).
		Msg("Seeded demo catalog")
	return nil
}
