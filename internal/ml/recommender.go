package ml

import (
	"sort"

	"github.com/wonny/sage/backend/pkg/logger"
)

// Default hybrid blend, matching the trained configuration
const (
	DefaultCFWeight  = 0.6
	DefaultCBWeight  = 0.4
	DefaultNeighborK = 10
)

// CourseScore is one ranked recommendation entry
type CourseScore struct {
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
}

// CourseFeatureMatrix holds the topic-derived feature row per course,
// built offline (TF-IDF over course topics). CourseIDs indexes Features.
type CourseFeatureMatrix struct {
	CourseIDs []string    `json:"course_ids"`
	Features  [][]float64 `json:"features"`
}

// RecommenderOption tunes a Recommender at construction time
type RecommenderOption func(*Recommender)

// WithWeights overrides the hybrid blend weights. They are not required
// to sum to 1; the product is whatever the caller configures.
func WithWeights(cf, cb float64) RecommenderOption {
	return func(r *Recommender) {
		r.cfWeight = cf
		r.cbWeight = cb
	}
}

// WithNeighborK overrides the number of similar students considered
func WithNeighborK(k int) RecommenderOption {
	return func(r *Recommender) {
		if k > 0 {
			r.neighborK = k
		}
	}
}

// Recommender scores courses for a student by blending collaborative and
// content-based signals over the preloaded recommender artifact. All state
// is immutable after construction; concurrent use is safe.
type Recommender struct {
	studentIDs []string
	studentIdx map[string]int
	courseIDs  []string

	ratings    [][]float64 // user-item matrix: completed grades, 0 = no signal
	similarity [][]float64 // square cosine similarity over user-item rows
	features   *CourseFeatureMatrix
	featureIdx map[string]int

	cfWeight  float64
	cbWeight  float64
	neighborK int

	log *logger.Logger
}

// NewRecommender builds a recommender from a loaded artifact
func NewRecommender(art *RecommenderArtifact, log *logger.Logger, opts ...RecommenderOption) *Recommender {
	r := &Recommender{
		studentIDs: art.StudentIDs,
		studentIdx: make(map[string]int, len(art.StudentIDs)),
		courseIDs:  art.CourseIDs,
		ratings:    art.Ratings,
		similarity: art.Similarity,
		features:   &art.CourseFeatures,
		featureIdx: make(map[string]int, len(art.CourseFeatures.CourseIDs)),
		cfWeight:   DefaultCFWeight,
		cbWeight:   DefaultCBWeight,
		neighborK:  DefaultNeighborK,
		log:        log.WithComponent("ml.recommender"),
	}

	for i, id := range art.StudentIDs {
		r.studentIdx[id] = i
	}
	for i, id := range art.CourseFeatures.CourseIDs {
		r.featureIdx[id] = i
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Recommend blends collaborative and content scores, ranks descending and
// truncates to n. Returns an empty slice (never an error) when both
// component mappings are empty; the caller falls back to popularity.
func (r *Recommender) Recommend(studentID string, enrolledCourseIDs []string, n int) []CourseScore {
	cfScores := r.CollaborativeScores(studentID)
	cbScores := r.ContentScores(studentID, enrolledCourseIDs)

	candidates := make(map[string]struct{}, len(cfScores)+len(cbScores))
	for id := range cfScores {
		candidates[id] = struct{}{}
	}
	for id := range cbScores {
		candidates[id] = struct{}{}
	}

	scores := make([]CourseScore, 0, len(candidates))
	for id := range candidates {
		cf := cfScores[id]
		cb := cbScores[id]

		// Collaborative scores live on the grade scale; normalize to [0,1]
		// only when strictly positive
		var cfNorm float64
		if cf > 0 {
			cfNorm = cf / maxGrade
		}

		scores = append(scores, CourseScore{
			CourseID: id,
			Score:    r.cfWeight*cfNorm + r.cbWeight*cb,
		})
	}

	// Descending by score; course ID ascending keeps equal scores deterministic
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].CourseID < scores[j].CourseID
	})

	if n >= 0 && len(scores) > n {
		scores = scores[:n]
	}

	r.log.WithFields(map[string]interface{}{
		"student_id": studentID,
		"cf_scores":  len(cfScores),
		"cb_scores":  len(cbScores),
		"returned":   len(scores),
	}).Debug("recommendations generated")

	return scores
}

// PopularCourses ranks courses by how many students completed them,
// descending, truncated to n. Ties break on course ID ascending. The
// caller filters already-enrolled courses and assigns a placeholder score.
func (r *Recommender) PopularCourses(n int) []string {
	type popularity struct {
		courseID string
		count    int
	}

	counts := make([]popularity, len(r.courseIDs))
	for c, id := range r.courseIDs {
		counts[c].courseID = id
		for s := range r.ratings {
			if c < len(r.ratings[s]) && r.ratings[s][c] > 0 {
				counts[c].count++
			}
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].courseID < counts[j].courseID
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}

	out := make([]string, len(counts))
	for i, p := range counts {
		out[i] = p.courseID
	}
	return out
}
