package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sage/backend/pkg/logger"
)

// newTestRecommender builds a recommender over a small fixture:
// three students, four courses.
//
//	        c1   c2   c3   c4
//	s-alice 3.0  0    0    0
//	s-bob   3.0  0    3.5  0
//	s-cara  0    2.0  0    4.0
func newTestRecommender(opts ...RecommenderOption) *Recommender {
	art := &RecommenderArtifact{
		StudentIDs: []string{"s-alice", "s-bob", "s-cara"},
		CourseIDs:  []string{"c1", "c2", "c3", "c4"},
		Ratings: [][]float64{
			{3.0, 0, 0, 0},
			{3.0, 0, 3.5, 0},
			{0, 2.0, 0, 4.0},
		},
		Similarity: [][]float64{
			{1.0, 1.0, 0.0},
			{1.0, 1.0, 0.2},
			{0.0, 0.2, 1.0},
		},
		CourseFeatures: CourseFeatureMatrix{
			CourseIDs: []string{"c1", "c2", "c3", "c4"},
			Features: [][]float64{
				{1, 0, 0},
				{0, 1, 0},
				{1, 0, 0},
				{0, 0, 1},
			},
		},
	}
	return NewRecommender(art, logger.NewNop(), opts...)
}

func TestCollaborativeScoresUnknownStudent(t *testing.T) {
	r := newTestRecommender()

	scores := r.CollaborativeScores("s-nobody")

	assert.Empty(t, scores)
}

func TestCollaborativeScoresNoRatings(t *testing.T) {
	art := &RecommenderArtifact{
		StudentIDs: []string{"s-alice", "s-bob"},
		CourseIDs:  []string{"c1", "c2"},
		Ratings: [][]float64{
			{0, 0}, // never completed anything
			{3.0, 3.5},
		},
		Similarity: [][]float64{
			{1.0, 0.0},
			{0.0, 1.0},
		},
		CourseFeatures: CourseFeatureMatrix{},
	}
	r := NewRecommender(art, logger.NewNop())

	scores := r.CollaborativeScores("s-alice")

	assert.Empty(t, scores)
}

func TestCollaborativeScoresSingleIdenticalNeighbor(t *testing.T) {
	r := newTestRecommender()

	// Alice and Bob have identical c1 ratings (similarity 1.0). Bob rated
	// c3 at 3.5, Alice did not; a single contributing neighbor at full
	// weight passes the rating through unchanged.
	scores := r.CollaborativeScores("s-alice")

	assert.InDelta(t, 3.5, scores["c3"], 1e-9)
}

func TestCollaborativeScoresSkipsRatedCourses(t *testing.T) {
	r := newTestRecommender()

	scores := r.CollaborativeScores("s-alice")

	_, present := scores["c1"]
	assert.False(t, present, "already-rated course must not be scored")
}

func TestCollaborativeScoresSingleContributor(t *testing.T) {
	r := newTestRecommender()

	scores := r.CollaborativeScores("s-bob")

	// c2 and c4 were rated only by Cara (similarity 0.2); a single
	// contributor's weighted average is their own rating
	assert.InDelta(t, 2.0, scores["c2"], 1e-9)
	assert.InDelta(t, 4.0, scores["c4"], 1e-9)
}

func TestCollaborativeScoresWeightedAverage(t *testing.T) {
	art := &RecommenderArtifact{
		StudentIDs: []string{"s-a", "s-b", "s-c"},
		CourseIDs:  []string{"c1", "c2"},
		Ratings: [][]float64{
			{2.0, 0},
			{2.0, 4.0},
			{2.0, 3.0},
		},
		Similarity: [][]float64{
			{1.0, 0.6, 0.4},
			{0.6, 1.0, 0.5},
			{0.4, 0.5, 1.0},
		},
		CourseFeatures: CourseFeatureMatrix{},
	}
	r := NewRecommender(art, logger.NewNop())

	scores := r.CollaborativeScores("s-a")

	// (4.0*0.6 + 3.0*0.4) / (0.6 + 0.4) = 3.6
	assert.InDelta(t, 3.6, scores["c2"], 1e-9)
}

func TestTopNeighborsRespectsK(t *testing.T) {
	r := newTestRecommender(WithNeighborK(1))

	// With K=1 only Bob (similarity 1.0) contributes to Alice's scores,
	// so c2/c4 (rated only by Cara) stay at 0
	scores := r.CollaborativeScores("s-alice")

	assert.Equal(t, 0.0, scores["c2"])
	assert.Equal(t, 0.0, scores["c4"])
	assert.InDelta(t, 3.5, scores["c3"], 1e-9)
}
