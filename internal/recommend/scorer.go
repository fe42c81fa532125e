// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// Model is the per-request state built from one snapshot.
// It is discarded when the request completes.
type Model struct {
	Snapshot *Snapshot
	Features *FeatureBuilder

	// TitleVectors and UserVectors hold raw, unnormalized features.
	TitleVectors [][]float64
	UserVectors  [][]float64

	Titles *ClusterModel
	Users  *ClusterModel

	userIndex map[int]int
}

// UserRow returns the row index of userID, or -1 if the user is unknown.
func (m *Model) UserRow(userID int) int {
	if i, ok := m.userIndex[userID]; ok {
		return i
	}
	return -1
}

// Strategy computes the affinity term between a user and a title.
// user and title are row indexes into the Model's matrices.
type Strategy interface {
	Name() string
	Affinity(m *Model, user, title int) float64
}

// NewStrategy returns the strategy registered under name.
func NewStrategy(name string, affinity AffinityConfig) (Strategy, error) {
	switch name {
	case StrategyCluster, "":
		return &ClusterAffinity{Match: affinity.Match, Mismatch: affinity.Mismatch}, nil
	case StrategyProfile:
		return &ProfileSimilarity{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// ClusterAffinity scores Match when the title shares the user's cluster and
// Mismatch otherwise. Without a title model every title scores Mismatch.
type ClusterAffinity struct {
	Match    float64
	Mismatch float64
}

// Name implements Strategy.
func (s *ClusterAffinity) Name() string { return StrategyCluster }

// Affinity implements Strategy.
func (s *ClusterAffinity) Affinity(m *Model, user, title int) float64 {
	tl := m.Titles.Label(title)
	if tl >= 0 && tl == m.Users.Label(user) {
		return s.Match
	}
	return s.Mismatch
}

// ProfileSimilarity scores the cosine similarity between the user's category
// preference scores and the title's one-hot category flags.
type ProfileSimilarity struct{}

// Name implements Strategy.
func (s *ProfileSimilarity) Name() string { return StrategyProfile }

// Affinity implements Strategy.
func (s *ProfileSimilarity) Affinity(m *Model, user, title int) float64 {
	return cosine(
		m.Features.CategoryVector(m.UserVectors[user]),
		m.Features.CategoryVector(m.TitleVectors[title]),
	)
}

// cosine returns 0 when either vector has zero magnitude.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Scorer ranks unwatched titles for one user.
type Scorer struct {
	strategy Strategy
	anchors  AnchorConfig
}

// NewScorer creates a scorer using strategy for the affinity term.
func NewScorer(strategy Strategy, anchors AnchorConfig) *Scorer {
	return &Scorer{strategy: strategy, anchors: anchors}
}

// Score returns up to n titles for userID, best first, plus the number of
// candidates considered.
//
// Titles the user has watched are excluded. Equal scores keep catalog order.
// Unknown users and n <= 0 yield an empty result.
func (s *Scorer) Score(m *Model, userID, n int) ([]ScoredTitle, int) {
	user := m.UserRow(userID)
	if user < 0 || m.Users.Label(user) < 0 || n <= 0 {
		return []ScoredTitle{}, 0
	}

	watched := make(map[int]struct{})
	for _, w := range m.Snapshot.Users[user].Watches {
		watched[w.TitleID] = struct{}{}
	}

	candidates := make([]ScoredTitle, 0, len(m.Snapshot.Titles))
	for i := range m.Snapshot.Titles {
		t := &m.Snapshot.Titles[i]
		if _, seen := watched[t.ID]; seen {
			continue
		}
		affinity := s.strategy.Affinity(m, user, i)
		quality := t.ExternalRating / s.anchors.Quality
		popularity := float64(t.WatchCount) / s.anchors.Popularity
		candidates = append(candidates, ScoredTitle{
			TitleID:      t.ID,
			Name:         t.Name,
			Score:        (affinity + quality + popularity) / 3,
			Affinity:     affinity,
			Quality:      quality,
			Popularity:   popularity,
			TitleCluster: m.Titles.Label(i),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	total := len(candidates)
	if n < total {
		candidates = candidates[:n]
	}
	return candidates, total
}
