package ml

import "math"

// cosineSimilarity returns the normalized dot product of two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// meanVector averages the given rows element-wise
func meanVector(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}

	out := make([]float64, len(rows[0]))
	for _, row := range rows {
		for i := range out {
			if i < len(row) {
				out[i] += row[i]
			}
		}
	}
	for i := range out {
		out[i] /= float64(len(rows))
	}
	return out
}
