// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"time"
)

// Category is a flat catalog category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Title is a catalog entry as seen by the engine.
type Title struct {
	// ID is the catalog identifier.
	ID int `json:"id"`

	// Name is the display title.
	Name string `json:"name"`

	// Description is free-form text; not used for scoring.
	Description string `json:"description,omitempty"`

	// Year is the release year.
	Year int `json:"year"`

	// DurationMinutes is the runtime in minutes.
	DurationMinutes int `json:"duration_minutes"`

	// ExternalRating is the external quality rating on a 0-10 scale.
	ExternalRating float64 `json:"external_rating"`

	// ImageURL is a poster or thumbnail location.
	ImageURL string `json:"image_url,omitempty"`

	// CategoryIDs lists the categories this title belongs to.
	CategoryIDs []int `json:"category_ids"`

	// Ratings holds every user rating (1-5) given to this title.
	Ratings []int `json:"-"`

	// WatchCount is the number of watch events recorded for this title.
	WatchCount int `json:"watch_count"`
}

// MeanRating returns the mean user rating and whether any rating exists.
func (t *Title) MeanRating() (float64, bool) {
	if len(t.Ratings) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range t.Ratings {
		sum += r
	}
	return float64(sum) / float64(len(t.Ratings)), true
}

// User identifies a catalog user.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// WatchEvent records that a user watched part or all of a title.
type WatchEvent struct {
	UserID         int       `json:"user_id"`
	TitleID        int       `json:"title_id"`
	WatchedMinutes int       `json:"watched_minutes"`
	WatchedAt      time.Time `json:"watched_at,omitempty"`
}

// Rating is a 1-5 score a user gave to a title.
type Rating struct {
	UserID  int `json:"user_id"`
	TitleID int `json:"title_id"`
	Score   int `json:"score"`
}

// UserHistory bundles a user with their watch and rating records.
type UserHistory struct {
	User    User         `json:"user"`
	Watches []WatchEvent `json:"watches"`
	Ratings []Rating     `json:"ratings"`
}

// Snapshot is an immutable view of the catalog for one request.
type Snapshot struct {
	// Categories in the fixed order used for one-hot encoding.
	Categories []Category

	// Titles in catalog order. Ties in the final ranking keep this order.
	Titles []Title

	// Users in catalog order, each with its full history.
	Users []UserHistory
}

// Request contains parameters for a recommendation request.
type Request struct {
	// UserID is the user to recommend for.
	UserID int `json:"user_id"`

	// N is the number of titles to return.
	N int `json:"n"`

	// RequestID is used for log correlation. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredTitle is a ranked candidate with its score breakdown.
type ScoredTitle struct {
	TitleID      int     `json:"title_id"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Affinity     float64 `json:"affinity"`
	Quality      float64 `json:"quality"`
	Popularity   float64 `json:"popularity"`
	TitleCluster int     `json:"title_cluster"`
}

// Response contains the recommendations and request metadata.
type Response struct {
	Items    []ScoredTitle `json:"items"`
	Metadata Metadata      `json:"metadata"`
}

// TitleIDs returns the ranked title identifiers.
func (r *Response) TitleIDs() []int {
	ids := make([]int, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.TitleID
	}
	return ids
}

// Metadata describes how a response was produced.
type Metadata struct {
	RequestID string `json:"request_id"`

	// Strategy is the affinity strategy name.
	Strategy string `json:"strategy"`

	// UserKnown is false when the user is absent from the snapshot.
	UserKnown bool `json:"user_known"`

	// UserCluster is the requesting user's label, -1 when unassigned.
	UserCluster int `json:"user_cluster"`

	TitleClusters int `json:"title_clusters"`
	UserClusters  int `json:"user_clusters"`

	TitleIterations int `json:"title_iterations"`
	UserIterations  int `json:"user_iterations"`

	// CandidateCount is the number of unwatched titles that were scored.
	CandidateCount int `json:"candidate_count"`

	Seed        int64         `json:"seed"`
	Latency     time.Duration `json:"latency_ns"`
	GeneratedAt time.Time     `json:"generated_at"`
}
