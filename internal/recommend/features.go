// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

// Title vector layout after the one-hot category block.
const (
	titleYearOffset = iota
	titleDurationOffset
	titleQualityOffset
	titleMeanRatingOffset
	titleWatchCountOffset
	titleScalarFeatures
)

// User vector layout after the category preference block.
const (
	userWatchedOffset = iota
	userMeanRatingOffset
	userScalarFeatures
)

// FeatureBuilder turns catalog records into numeric vectors.
//
// All vectors built by one FeatureBuilder share the same category order, so
// title and user matrices from the same snapshot are comparable.
type FeatureBuilder struct {
	anchors  AnchorConfig
	catIndex map[int]int
	numCats  int
}

// NewFeatureBuilder creates a builder over the given category order.
func NewFeatureBuilder(categories []Category, anchors AnchorConfig) *FeatureBuilder {
	idx := make(map[int]int, len(categories))
	for i, c := range categories {
		idx[c.ID] = i
	}
	return &FeatureBuilder{
		anchors:  anchors,
		catIndex: idx,
		numCats:  len(categories),
	}
}

// TitleDim returns the title vector length.
func (b *FeatureBuilder) TitleDim() int {
	return b.numCats + titleScalarFeatures
}

// UserDim returns the user vector length.
func (b *FeatureBuilder) UserDim() int {
	return b.numCats + userScalarFeatures
}

// TitleVector builds the feature vector for one title.
func (b *FeatureBuilder) TitleVector(t *Title) []float64 {
	vec := make([]float64, b.TitleDim())
	for _, cid := range t.CategoryIDs {
		if i, ok := b.catIndex[cid]; ok {
			vec[i] = 1
		}
	}

	quality := t.ExternalRating / b.anchors.Quality
	meanRating := quality
	if mean, ok := t.MeanRating(); ok {
		meanRating = mean / b.anchors.Rating
	}

	s := vec[b.numCats:]
	s[titleYearOffset] = float64(t.Year) / b.anchors.Year
	s[titleDurationOffset] = float64(t.DurationMinutes) / b.anchors.Duration
	s[titleQualityOffset] = quality
	s[titleMeanRatingOffset] = meanRating
	s[titleWatchCountOffset] = float64(t.WatchCount)
	return vec
}

// TitleMatrix builds one row per title, in input order.
// An empty catalog yields an empty matrix.
func (b *FeatureBuilder) TitleMatrix(titles []Title) [][]float64 {
	rows := make([][]float64, len(titles))
	for i := range titles {
		rows[i] = b.TitleVector(&titles[i])
	}
	return rows
}

// UserVector builds the feature vector for one user.
//
// titles maps title IDs to catalog titles; watches of titles that are not in
// the map are ignored. When a user has several watch or rating records for
// the same title, the last one wins.
func (b *FeatureBuilder) UserVector(h *UserHistory, titles map[int]*Title) []float64 {
	vec := make([]float64, b.UserDim())

	watched := make(map[int]int, len(h.Watches))
	order := make([]int, 0, len(h.Watches))
	for _, w := range h.Watches {
		if _, seen := watched[w.TitleID]; !seen {
			order = append(order, w.TitleID)
		}
		watched[w.TitleID] = w.WatchedMinutes
	}

	rated := make(map[int]int, len(h.Ratings))
	for _, r := range h.Ratings {
		rated[r.TitleID] = r.Score
	}

	for _, titleID := range order {
		t, ok := titles[titleID]
		if !ok {
			continue
		}
		durationScore := 0.0
		if t.DurationMinutes > 0 {
			durationScore = float64(watched[titleID]) / float64(t.DurationMinutes)
		}
		ratingScore := float64(rated[titleID]) / b.anchors.Rating
		score := (durationScore + ratingScore) / 2

		for _, cid := range t.CategoryIDs {
			if i, ok := b.catIndex[cid]; ok {
				vec[i] += score
			}
		}
	}

	s := vec[b.numCats:]
	s[userWatchedOffset] = float64(len(watched))
	if len(rated) > 0 {
		sum := 0
		for _, score := range rated {
			sum += score
		}
		s[userMeanRatingOffset] = float64(sum) / float64(len(rated))
	}
	return vec
}

// UserMatrix builds one row per user, in input order.
func (b *FeatureBuilder) UserMatrix(users []UserHistory, titles []Title) [][]float64 {
	byID := indexTitles(titles)
	rows := make([][]float64, len(users))
	for i := range users {
		rows[i] = b.UserVector(&users[i], byID)
	}
	return rows
}

// CategoryVector returns the leading category block of a title or user vector:
// one-hot flags for titles, preference scores for users.
func (b *FeatureBuilder) CategoryVector(vec []float64) []float64 {
	return vec[:b.numCats]
}

func indexTitles(titles []Title) map[int]*Title {
	byID := make(map[int]*Title, len(titles))
	for i := range titles {
		byID[titles[i].ID] = &titles[i]
	}
	return byID
}
