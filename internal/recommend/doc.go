// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements the cluster-based title recommendation engine.
//
// # Pipeline
//
// Every recommendation request runs the full pipeline against a fresh
// catalog snapshot:
//
//  1. Feature building: titles and users become fixed-length vectors
//     (one-hot categories plus scalar signals for titles, per-category
//     preference scores plus activity signals for users).
//  2. Normalization: each matrix is z-scored per column by its own
//     StandardScaler. Constant columns map to zero.
//  3. Clustering: seeded k-means++ partitions titles and users
//     independently into K clusters.
//  4. Scoring: every unwatched title receives
//     (affinity + quality + popularity) / 3, where affinity comes from the
//     configured Strategy.
//
// # Determinism
//
// K-means initialization is driven by Config.Seed, so a fixed snapshot and
// seed always produce the same labels and the same ranking. Ties in the
// final score keep catalog order.
//
// # Statelessness
//
// The Engine holds no model between calls. Concurrent requests build their
// own matrices and cluster models and need no locking.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, recommend.NewReaderProvider(db), logger)
//	if err != nil {
//	    return err
//	}
//
//	ids, err := engine.BuildRecommendations(ctx, userID, 5)
//
// # Popularity
//
// The popularity term is watch_count / Anchors.Popularity and is not
// clamped. Titles with more watches than the anchor contribute more than 1.0
// on that term and can outrank better-rated titles.
package recommend
