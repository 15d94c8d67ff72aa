package ml

// Flat score assigned to every course when a student has no usable
// enrollment history. Deliberately not 0, so cold-start students still
// receive content-weighted recommendations downstream.
const coldStartScore = 0.5

// ContentScores computes per-course similarity against the student's
// enrollment-derived profile vector.
//
// With no enrollment history, or when none of the enrolled courses appear
// in the course-feature matrix, every course in the matrix (including
// enrolled ones) gets the flat cold-start score. Otherwise the enrolled
// feature rows are averaged into a profile vector, cosine similarity is
// computed against every course, and only not-yet-enrolled courses are
// returned. The asymmetry between the two branches is intentional.
func (r *Recommender) ContentScores(studentID string, enrolledCourseIDs []string) map[string]float64 {
	enrolled := make(map[string]struct{}, len(enrolledCourseIDs))
	var enrolledRows [][]float64
	for _, id := range enrolledCourseIDs {
		enrolled[id] = struct{}{}
		if i, ok := r.featureIdx[id]; ok {
			enrolledRows = append(enrolledRows, r.features.Features[i])
		}
	}

	scores := make(map[string]float64, len(r.features.CourseIDs))

	if len(enrolledRows) == 0 {
		for _, id := range r.features.CourseIDs {
			scores[id] = coldStartScore
		}
		return scores
	}

	profile := meanVector(enrolledRows)

	for i, id := range r.features.CourseIDs {
		if _, taken := enrolled[id]; taken {
			continue
		}
		scores[id] = cosineSimilarity(profile, r.features.Features[i])
	}

	return scores
}
