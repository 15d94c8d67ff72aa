package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/pkg/logger"
)

func newFallbackRecommender(t *testing.T) *ml.Recommender {
	t.Helper()

	// c1 completed by two students, c2 by one, c3 by none
	art := &ml.RecommenderArtifact{
		StudentIDs: []string{"s1", "s2"},
		CourseIDs:  []string{"c1", "c2", "c3"},
		Ratings: [][]float64{
			{3.0, 3.5, 0},
			{2.5, 0, 0},
		},
		Similarity: [][]float64{
			{1, 0.5},
			{0.5, 1},
		},
		CourseFeatures: ml.CourseFeatureMatrix{
			CourseIDs: []string{"c1", "c2", "c3"},
			Features:  [][]float64{{1, 0}, {0, 1}, {1, 1}},
		},
	}

	return ml.NewRecommender(art, logger.NewNop())
}

func TestPopularityScoresFiltersEnrolled(t *testing.T) {
	rec := newFallbackRecommender(t)

	scores := popularityScores(rec, []string{"c1"}, 5)

	ids := make([]string, len(scores))
	for i, s := range scores {
		ids[i] = s.CourseID
	}

	// c1 is enrolled, so popularity order continues with c2 then c3
	assert.Equal(t, []string{"c2", "c3"}, ids)
	for _, s := range scores {
		assert.Equal(t, fallbackScore, s.Score)
	}
}

func TestPopularityScoresTruncates(t *testing.T) {
	rec := newFallbackRecommender(t)

	scores := popularityScores(rec, nil, 2)

	assert.Len(t, scores, 2)
	assert.Equal(t, "c1", scores[0].CourseID)
	assert.Equal(t, "c2", scores[1].CourseID)
}
