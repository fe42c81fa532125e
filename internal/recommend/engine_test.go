// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// failingProvider always fails and counts calls.
type failingProvider struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *failingProvider) Snapshot(_ context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return nil, p.err
}

// recordingObserver captures observer callbacks.
type recordingObserver struct {
	mu          sync.Mutex
	outcomes    []string
	populations []string
}

func (o *recordingObserver) ObserveRecommendation(_, outcome string, _ time.Duration, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveClustering(population string, _, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.populations = append(o.populations, population)
}

func newTestEngine(t *testing.T, snap *Snapshot, modify func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	e, err := NewEngine(cfg, NewStaticProvider(snap), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// actionDramaSnapshot is three categories, two strong Action titles, two weak
// Drama titles, and one user who watched and loved title 1.
func actionDramaSnapshot() *Snapshot {
	return &Snapshot{
		Categories: []Category{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}, {ID: 3, Name: "Comedy"}},
		Titles: []Title{
			{ID: 1, Year: 2020, DurationMinutes: 120, ExternalRating: 9.0, CategoryIDs: []int{1}, Ratings: []int{5}, WatchCount: 1},
			{ID: 2, Year: 2021, DurationMinutes: 110, ExternalRating: 8.5, CategoryIDs: []int{1}},
			{ID: 3, Year: 2019, DurationMinutes: 95, ExternalRating: 3.0, CategoryIDs: []int{2}},
			{ID: 4, Year: 2018, DurationMinutes: 100, ExternalRating: 2.5, CategoryIDs: []int{2}},
		},
		Users: []UserHistory{
			{
				User:    User{ID: 1, Username: "ada"},
				Watches: []WatchEvent{{UserID: 1, TitleID: 1, WatchedMinutes: 120}},
				Ratings: []Rating{{UserID: 1, TitleID: 1, Score: 5}},
			},
		},
	}
}

// randomSnapshot builds a reproducible catalog with varied histories.
func randomSnapshot(seed int64, numTitles, numUsers int) *Snapshot {
	rng := rand.New(rand.NewSource(seed))
	snap := &Snapshot{
		Categories: []Category{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
	}
	for i := 1; i <= numTitles; i++ {
		snap.Titles = append(snap.Titles, Title{
			ID:              i,
			Year:            1980 + rng.Intn(44),
			DurationMinutes: 60 + rng.Intn(120),
			ExternalRating:  float64(rng.Intn(100)) / 10,
			CategoryIDs:     []int{1 + rng.Intn(4)},
		})
	}
	for u := 1; u <= numUsers; u++ {
		h := UserHistory{User: User{ID: u}}
		watches := rng.Intn(numTitles/2 + 1)
		for w := 0; w < watches; w++ {
			idx := rng.Intn(numTitles)
			title := &snap.Titles[idx]
			h.Watches = append(h.Watches, WatchEvent{UserID: u, TitleID: title.ID, WatchedMinutes: rng.Intn(title.DurationMinutes + 1)})
			title.WatchCount++
			if rng.Intn(2) == 0 {
				score := 1 + rng.Intn(5)
				h.Ratings = append(h.Ratings, Rating{UserID: u, TitleID: title.ID, Score: score})
				title.Ratings = append(title.Ratings, score)
			}
		}
		snap.Users = append(snap.Users, h)
	}
	return snap
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, NewStaticProvider(nil), zerolog.Nop()); err != nil {
		t.Errorf("NewEngine(nil config) error = %v", err)
	}

	if _, err := NewEngine(DefaultConfig(), nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil provider) should fail")
	}

	bad := DefaultConfig()
	bad.Clustering.K = 0
	if _, err := NewEngine(bad, NewStaticProvider(nil), zerolog.Nop()); err == nil {
		t.Error("NewEngine(invalid config) should fail")
	}

	profile := DefaultConfig()
	profile.Strategy = StrategyProfile
	e, err := NewEngine(profile, NewStaticProvider(nil), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine(profile) error = %v", err)
	}
	if e.StrategyName() != StrategyProfile {
		t.Errorf("StrategyName() = %q, want %q", e.StrategyName(), StrategyProfile)
	}
}

func TestEngine_ActionDramaScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, actionDramaSnapshot(), func(c *Config) { c.Clustering.K = 2 })

	ids, err := e.BuildRecommendations(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("BuildRecommendations() error = %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %v, want 3 unwatched titles", ids)
	}
	if ids[0] != 2 {
		t.Errorf("top recommendation = %d, want 2 (ids %v)", ids[0], ids)
	}
	for _, id := range ids {
		if id == 1 {
			t.Error("watched title 1 was recommended")
		}
	}
}

func TestEngine_UnknownUser(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, actionDramaSnapshot(), nil)
	ids, err := e.BuildRecommendations(context.Background(), 404, 5)
	if err != nil {
		t.Fatalf("BuildRecommendations() error = %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("unknown user got %v, want empty list", ids)
	}

	resp, err := e.Recommend(context.Background(), Request{UserID: 404, N: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Metadata.UserKnown || resp.Metadata.UserCluster != -1 {
		t.Errorf("metadata = %+v, want unknown user", resp.Metadata)
	}
}

func TestEngine_EmptyCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap *Snapshot
	}{
		{name: "nil snapshot", snap: nil},
		{name: "no titles", snap: &Snapshot{Users: []UserHistory{{User: User{ID: 1}}}}},
		{
			name: "categories but no titles",
			snap: &Snapshot{
				Categories: []Category{{ID: 1}, {ID: 2}},
				Users:      []UserHistory{{User: User{ID: 1}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, tt.snap, nil)
			ids, err := e.BuildRecommendations(context.Background(), 1, 5)
			if err != nil {
				t.Fatalf("BuildRecommendations() error = %v", err)
			}
			if len(ids) != 0 {
				t.Errorf("got %v, want empty", ids)
			}
		})
	}
}

func TestEngine_NoCategories(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Titles: []Title{
			{ID: 1, Year: 2000, DurationMinutes: 90, ExternalRating: 5},
			{ID: 2, Year: 2010, DurationMinutes: 100, ExternalRating: 7},
		},
		Users: []UserHistory{{User: User{ID: 1}}},
	}
	e := newTestEngine(t, snap, nil)
	ids, err := e.BuildRecommendations(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("BuildRecommendations() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("got %v, want both titles", ids)
	}
}

func TestEngine_ZeroN(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, randomSnapshot(1, 10, 4), nil)
	ids, err := e.BuildRecommendations(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("BuildRecommendations() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("n=0 returned %v", ids)
	}

	ids, err = e.BuildRecommendations(context.Background(), 1, -3)
	if err != nil {
		t.Fatalf("BuildRecommendations(n<0) error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("n<0 returned %v", ids)
	}
}

func TestEngine_NeverRecommendsWatched(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		snap := randomSnapshot(seed, 15, 8)
		e := newTestEngine(t, snap, nil)

		for _, h := range snap.Users {
			watched := make(map[int]bool)
			for _, w := range h.Watches {
				watched[w.TitleID] = true
			}
			candidates := len(snap.Titles) - len(watched)

			for n := 0; n <= 20; n += 4 {
				ids, err := e.BuildRecommendations(context.Background(), h.User.ID, n)
				if err != nil {
					t.Fatalf("seed %d: BuildRecommendations() error = %v", seed, err)
				}
				for _, id := range ids {
					if watched[id] {
						t.Errorf("seed %d user %d: watched title %d recommended", seed, h.User.ID, id)
					}
				}
				want := n
				if candidates < want {
					want = candidates
				}
				if len(ids) != want {
					t.Errorf("seed %d user %d n %d: len = %d, want %d", seed, h.User.ID, n, len(ids), want)
				}
			}
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	t.Parallel()

	snap := randomSnapshot(11, 30, 12)
	e1 := newTestEngine(t, snap, nil)
	e2 := newTestEngine(t, snap, nil)

	for _, h := range snap.Users {
		a, err := e1.BuildRecommendations(context.Background(), h.User.ID, 10)
		if err != nil {
			t.Fatalf("BuildRecommendations() error = %v", err)
		}
		b, _ := e1.BuildRecommendations(context.Background(), h.User.ID, 10)
		c, _ := e2.BuildRecommendations(context.Background(), h.User.ID, 10)
		if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(a, c) {
			t.Errorf("user %d: non-deterministic output %v / %v / %v", h.User.ID, a, b, c)
		}
	}
}

func TestEngine_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	snap := randomSnapshot(21, 20, 6)
	e := newTestEngine(t, snap, nil)

	want := make(map[int][]int)
	for _, h := range snap.Users {
		ids, err := e.BuildRecommendations(context.Background(), h.User.ID, 5)
		if err != nil {
			t.Fatalf("BuildRecommendations() error = %v", err)
		}
		want[h.User.ID] = ids
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		for _, h := range snap.Users {
			wg.Add(1)
			go func(userID int) {
				defer wg.Done()
				ids, err := e.BuildRecommendations(context.Background(), userID, 5)
				if err != nil {
					t.Errorf("concurrent BuildRecommendations() error = %v", err)
					return
				}
				if !reflect.DeepEqual(ids, want[userID]) {
					t.Errorf("user %d: concurrent result %v, want %v", userID, ids, want[userID])
				}
			}(h.User.ID)
		}
	}
	wg.Wait()
}

func TestEngine_Monotonicity(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{
		Categories: []Category{{ID: 1}},
		Titles: []Title{
			{ID: 1, Year: 2010, DurationMinutes: 100, ExternalRating: 5, CategoryIDs: []int{1}, WatchCount: 2},
			{ID: 2, Year: 2010, DurationMinutes: 100, ExternalRating: 8, CategoryIDs: []int{1}, WatchCount: 9},
			{ID: 3, Year: 2010, DurationMinutes: 100, ExternalRating: 6, CategoryIDs: []int{1}, WatchCount: 4},
		},
		Users: []UserHistory{{User: User{ID: 1}}},
	}
	// One cluster puts every title in the user's cluster
	e := newTestEngine(t, snap, func(c *Config) { c.Clustering.K = 1 })

	ids, err := e.BuildRecommendations(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("BuildRecommendations() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []int{2, 3, 1}) {
		t.Errorf("got %v, want [2 3 1]", ids)
	}
}

func TestEngine_ColdUser(t *testing.T) {
	t.Parallel()

	snap := randomSnapshot(5, 10, 5)
	snap.Users = append(snap.Users, UserHistory{User: User{ID: 100, Username: "newcomer"}})

	e := newTestEngine(t, snap, nil)
	resp, err := e.Recommend(context.Background(), Request{UserID: 100, N: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) != 5 {
		t.Fatalf("cold user got %d items, want 5", len(resp.Items))
	}
	if !resp.Metadata.UserKnown || resp.Metadata.UserCluster < 0 {
		t.Errorf("cold user should resolve to a cluster, metadata %+v", resp.Metadata)
	}

	// With a single cluster the ranking is purely quality plus popularity
	flat := newTestEngine(t, snap, func(c *Config) { c.Clustering.K = 1 })
	resp, err = flat.Recommend(context.Background(), Request{UserID: 100, N: 5})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for i := 1; i < len(resp.Items); i++ {
		prev := resp.Items[i-1].Quality + resp.Items[i-1].Popularity
		cur := resp.Items[i].Quality + resp.Items[i].Popularity
		if cur > prev+floatTolerance {
			t.Errorf("item %d (%v) ranked below item %d (%v)", i-1, prev, i, cur)
		}
	}
}

func TestEngine_RecommendMetadata(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	e := newTestEngine(t, actionDramaSnapshot(), func(c *Config) { c.Clustering.K = 2 })
	e.SetObserver(obs)

	resp, err := e.Recommend(context.Background(), Request{UserID: 1, N: 2, RequestID: "req-1"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	md := resp.Metadata
	if md.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", md.RequestID)
	}
	if md.Strategy != StrategyCluster {
		t.Errorf("Strategy = %q", md.Strategy)
	}
	if md.TitleClusters != 2 || md.UserClusters != 1 {
		t.Errorf("clusters = %d/%d, want 2/1", md.TitleClusters, md.UserClusters)
	}
	if md.CandidateCount != 3 || len(resp.Items) != 2 {
		t.Errorf("candidates = %d items = %d, want 3 and 2", md.CandidateCount, len(resp.Items))
	}
	if md.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", md.Seed, DefaultSeed)
	}

	if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeOK {
		t.Errorf("observed outcomes = %v, want [ok]", obs.outcomes)
	}
	if !reflect.DeepEqual(obs.populations, []string{"titles", "users"}) {
		t.Errorf("observed populations = %v", obs.populations)
	}

	generated, err := e.Recommend(context.Background(), Request{UserID: 1, N: 1})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if generated.Metadata.RequestID == "" {
		t.Error("RequestID should be generated when empty")
	}
}

func TestEngine_SnapshotError(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	obs := &recordingObserver{}
	e, err := NewEngine(DefaultConfig(), &failingProvider{err: dbErr}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	e.SetObserver(obs)

	_, err = e.BuildRecommendations(context.Background(), 1, 5)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Errorf("error = %v, want ErrCatalogUnavailable", err)
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] != OutcomeError {
		t.Errorf("observed outcomes = %v, want [error]", obs.outcomes)
	}
}

func TestEngine_ProfileStrategy(t *testing.T) {
	t.Parallel()

	snap := actionDramaSnapshot()
	e := newTestEngine(t, snap, func(c *Config) { c.Strategy = StrategyProfile })

	resp, err := e.Recommend(context.Background(), Request{UserID: 1, N: 3})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Items[0].TitleID != 2 {
		t.Errorf("top = %d, want 2", resp.Items[0].TitleID)
	}
	if resp.Items[0].Affinity != 1 {
		t.Errorf("same-category affinity = %v, want 1", resp.Items[0].Affinity)
	}
	for _, item := range resp.Items[1:] {
		if item.Affinity != 0 {
			t.Errorf("title %d affinity = %v, want 0", item.TitleID, item.Affinity)
		}
	}
}
