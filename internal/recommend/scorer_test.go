// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math"
	"testing"
)

// handModel builds a Model with fixed cluster labels.
func handModel(titleLabels, userLabels []int) *Model {
	snap := &Snapshot{
		Categories: []Category{{ID: 1}, {ID: 2}},
		Titles: []Title{
			{ID: 100, ExternalRating: 8, WatchCount: 10, CategoryIDs: []int{1}},
			{ID: 200, ExternalRating: 8, WatchCount: 10, CategoryIDs: []int{2}},
			{ID: 300, ExternalRating: 6, WatchCount: 0, CategoryIDs: []int{1}},
		},
		Users: []UserHistory{
			{User: User{ID: 1}},
			{User: User{ID: 2}, Watches: []WatchEvent{{UserID: 2, TitleID: 100, WatchedMinutes: 10}}},
		},
	}

	features := NewFeatureBuilder(snap.Categories, DefaultConfig().Anchors)
	m := &Model{
		Snapshot:     snap,
		Features:     features,
		TitleVectors: features.TitleMatrix(snap.Titles),
		UserVectors:  features.UserMatrix(snap.Users, snap.Titles),
		Titles:       &ClusterModel{Labels: titleLabels, EffectiveK: 2},
		Users:        &ClusterModel{Labels: userLabels, EffectiveK: 2},
		userIndex:    map[int]int{1: 0, 2: 1},
	}
	return m
}

func TestClusterAffinity(t *testing.T) {
	t.Parallel()

	s := &ClusterAffinity{Match: 1.0, Mismatch: 0.5}
	m := handModel([]int{0, 1, 0}, []int{1, 0})

	if got := s.Affinity(m, 0, 1); got != 1.0 {
		t.Errorf("same cluster affinity = %v, want 1.0", got)
	}
	if got := s.Affinity(m, 0, 0); got != 0.5 {
		t.Errorf("different cluster affinity = %v, want 0.5", got)
	}

	m.Titles = &ClusterModel{}
	if got := s.Affinity(m, 0, 0); got != 0.5 {
		t.Errorf("affinity without title model = %v, want 0.5", got)
	}
}

func TestProfileSimilarity(t *testing.T) {
	t.Parallel()

	s := &ProfileSimilarity{}
	m := handModel([]int{0, 0, 0}, []int{0, 0})
	m.UserVectors = [][]float64{
		{2, 0, 1, 5},
		{0, 0, 0, 0},
	}

	if got := s.Affinity(m, 0, 0); math.Abs(got-1) > floatTolerance {
		t.Errorf("aligned profile = %v, want 1", got)
	}
	if got := s.Affinity(m, 0, 1); got != 0 {
		t.Errorf("orthogonal profile = %v, want 0", got)
	}
	if got := s.Affinity(m, 1, 0); got != 0 {
		t.Errorf("empty profile = %v, want 0", got)
	}
}

func TestNewStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{name: "cluster", wantName: StrategyCluster},
		{name: "", wantName: StrategyCluster},
		{name: "profile", wantName: StrategyProfile},
		{name: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := NewStrategy(tt.name, DefaultConfig().Affinity)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.wantName)
			}
		})
	}
}

func TestScorer_Score(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	scorer := NewScorer(&ClusterAffinity{Match: 1.0, Mismatch: 0.5}, cfg.Anchors)

	t.Run("ranks by total score", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 1, 1}, []int{1, 0})
		got, candidates := scorer.Score(m, 1, 5)

		if candidates != 3 {
			t.Errorf("candidates = %d, want 3", candidates)
		}
		// 200: (1.0 + 0.8 + 0.1) / 3, 300: (1.0 + 0.6 + 0) / 3, 100: (0.5 + 0.8 + 0.1) / 3
		wantIDs := []int{200, 300, 100}
		wantScores := []float64{1.9 / 3, 1.6 / 3, 1.4 / 3}
		if len(got) != len(wantIDs) {
			t.Fatalf("got %d items, want %d", len(got), len(wantIDs))
		}
		for i := range wantIDs {
			if got[i].TitleID != wantIDs[i] {
				t.Errorf("[%d] = title %d, want %d", i, got[i].TitleID, wantIDs[i])
			}
			if math.Abs(got[i].Score-wantScores[i]) > floatTolerance {
				t.Errorf("[%d] score = %v, want %v", i, got[i].Score, wantScores[i])
			}
		}
		if got[0].Quality != 0.8 || math.Abs(got[0].Popularity-0.1) > floatTolerance {
			t.Errorf("breakdown = %+v", got[0])
		}
	})

	t.Run("excludes watched titles", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 0, 0}, []int{0, 0})
		got, _ := scorer.Score(m, 2, 5)
		for _, item := range got {
			if item.TitleID == 100 {
				t.Error("watched title 100 was recommended")
			}
		}
		if len(got) != 2 {
			t.Errorf("got %d items, want 2", len(got))
		}
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 0, 0}, []int{0, 0})
		got, _ := scorer.Score(m, 1, 2)
		if len(got) != 2 || got[0].TitleID != 100 || got[1].TitleID != 200 {
			t.Errorf("got %+v, want titles 100 then 200", got)
		}
	})

	t.Run("truncates to n", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 0, 0}, []int{0, 0})
		got, candidates := scorer.Score(m, 1, 1)
		if len(got) != 1 || candidates != 3 {
			t.Errorf("len = %d candidates = %d, want 1 and 3", len(got), candidates)
		}
	})

	t.Run("zero n", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 0, 0}, []int{0, 0})
		got, _ := scorer.Score(m, 1, 0)
		if got == nil || len(got) != 0 {
			t.Errorf("Score(n=0) = %v, want empty non-nil", got)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 0, 0}, []int{0, 0})
		got, _ := scorer.Score(m, 999, 5)
		if len(got) != 0 {
			t.Errorf("Score(unknown) = %v, want empty", got)
		}
	})

	t.Run("popularity is not clamped", func(t *testing.T) {
		t.Parallel()
		m := handModel([]int{0, 0, 0}, []int{0, 0})
		m.Snapshot.Titles[2].WatchCount = 500
		got, _ := scorer.Score(m, 1, 1)
		if got[0].TitleID != 300 || got[0].Popularity != 5 {
			t.Errorf("top = %+v, want title 300 with popularity 5", got[0])
		}
	})
}
