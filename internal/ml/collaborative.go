package ml

import "sort"

// CollaborativeScores predicts per-course affinity for a student from the
// ratings of the top-K most similar other students.
//
// A student with no row in the user-item matrix, or with an all-zero row,
// has no collaborative signal and gets an empty mapping (cold start).
// Courses the student already rated are skipped. A candidate course scores
// 0 when no neighbor rated it, otherwise the similarity-weighted average
// of the neighbors that did.
func (r *Recommender) CollaborativeScores(studentID string) map[string]float64 {
	scores := make(map[string]float64)

	idx, ok := r.studentIdx[studentID]
	if !ok || !hasSignal(r.ratings[idx]) {
		return scores
	}

	neighbors := r.topNeighbors(idx)

	for c, courseID := range r.courseIDs {
		if r.ratings[idx][c] > 0 {
			// Already rated, never recommended back
			continue
		}

		var weightedSum, similaritySum float64
		var contributors int
		for _, nb := range neighbors {
			rating := r.ratings[nb][c]
			if rating <= 0 {
				// Neighbor never completed this course
				continue
			}
			weightedSum += rating * r.similarity[idx][nb]
			similaritySum += r.similarity[idx][nb]
			contributors++
		}

		if contributors == 0 || similaritySum <= 0 {
			scores[courseID] = 0
			continue
		}

		scores[courseID] = weightedSum / similaritySum
	}

	return scores
}

// topNeighbors selects the K most similar other students, self excluded.
// Ties break on student ID ascending so results are reproducible.
func (r *Recommender) topNeighbors(idx int) []int {
	candidates := make([]int, 0, len(r.studentIDs)-1)
	for j := range r.studentIDs {
		if j != idx {
			candidates = append(candidates, j)
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		si, sj := r.similarity[idx][candidates[a]], r.similarity[idx][candidates[b]]
		if si != sj {
			return si > sj
		}
		return r.studentIDs[candidates[a]] < r.studentIDs[candidates[b]]
	})

	if len(candidates) > r.neighborK {
		candidates = candidates[:r.neighborK]
	}
	return candidates
}

// hasSignal reports whether a ratings row carries any completed grade
func hasSignal(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return true
		}
	}
	return false
}
