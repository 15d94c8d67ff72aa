package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Artifact files are produced by the offline training pipeline and are
// read-only for this service. Both are JSON for portability.

// GradeArtifact bundles the trained regression model, its fitted scaler
// and the ordered feature-name list.
type GradeArtifact struct {
	FeatureNames []string        `json:"feature_names"`
	Scaler       Scaler          `json:"scaler"`
	Model        RegressionModel `json:"-"`
	TrainedAt    string          `json:"trained_at,omitempty"`
}

// gradeArtifactJSON is the on-disk shape; the model payload is decoded
// separately based on its type tag.
type gradeArtifactJSON struct {
	FeatureNames []string        `json:"feature_names"`
	Scaler       Scaler          `json:"scaler"`
	Model        json.RawMessage `json:"model"`
	TrainedAt    string          `json:"trained_at,omitempty"`
}

// LinearModel is a regression model with a single coefficient row
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Predict computes intercept + dot(coefficients, x)
func (m *LinearModel) Predict(x []float64) float64 {
	out := m.Intercept
	for i, c := range m.Coefficients {
		if i < len(x) {
			out += c * x[i]
		}
	}
	return out
}

// EnsembleModel averages a set of linear members. The spread of member
// predictions doubles as the variance proxy for confidence intervals.
type EnsembleModel struct {
	Members []LinearModel `json:"members"`
}

// Predict returns the mean of the member predictions
func (m *EnsembleModel) Predict(x []float64) float64 {
	if len(m.Members) == 0 {
		return 0
	}
	var sum float64
	for i := range m.Members {
		sum += m.Members[i].Predict(x)
	}
	return sum / float64(len(m.Members))
}

// SpreadHint returns the standard deviation of the member predictions
func (m *EnsembleModel) SpreadHint(x []float64) float64 {
	if len(m.Members) < 2 {
		return 0
	}

	preds := make([]float64, len(m.Members))
	var sum float64
	for i := range m.Members {
		preds[i] = m.Members[i].Predict(x)
		sum += preds[i]
	}
	mean := sum / float64(len(preds))

	var ss float64
	for _, p := range preds {
		d := p - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(preds)-1))
}

// decodeModel turns the tagged model payload into a RegressionModel
func decodeModel(raw json.RawMessage) (RegressionModel, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("failed to read model type: %w", err)
	}

	switch tag.Type {
	case "linear":
		var m LinearModel
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode linear model: %w", err)
		}
		return &m, nil
	case "ensemble":
		var m EnsembleModel
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("failed to decode ensemble model: %w", err)
		}
		if len(m.Members) == 0 {
			return nil, fmt.Errorf("ensemble model has no members")
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("unknown model type %q", tag.Type)
	}
}

// LoadGradeArtifact reads and validates a grade artifact file
func LoadGradeArtifact(path string) (*GradeArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grade artifact: %w", err)
	}

	var raw gradeArtifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grade artifact: %w", err)
	}

	if len(raw.FeatureNames) == 0 {
		return nil, fmt.Errorf("grade artifact has no feature names")
	}

	model, err := decodeModel(raw.Model)
	if err != nil {
		return nil, err
	}

	return &GradeArtifact{
		FeatureNames: raw.FeatureNames,
		Scaler:       raw.Scaler,
		Model:        model,
		TrainedAt:    raw.TrainedAt,
	}, nil
}

// RecommenderArtifact bundles the user-item matrix, the user-similarity
// matrix and the course-feature matrix with aligned course-ID index.
type RecommenderArtifact struct {
	StudentIDs     []string            `json:"student_ids"`
	CourseIDs      []string            `json:"course_ids"`
	Ratings        [][]float64         `json:"ratings"`    // rows = students
	Similarity     [][]float64         `json:"similarity"` // square, symmetric
	CourseFeatures CourseFeatureMatrix `json:"course_features"`
	TrainedAt      string              `json:"trained_at,omitempty"`
}

// validate checks the matrix shapes line up with their ID indexes
func (a *RecommenderArtifact) validate() error {
	if len(a.Ratings) != len(a.StudentIDs) {
		return fmt.Errorf("ratings rows (%d) != student ids (%d)", len(a.Ratings), len(a.StudentIDs))
	}
	for i, row := range a.Ratings {
		if len(row) != len(a.CourseIDs) {
			return fmt.Errorf("ratings row %d has %d columns, want %d", i, len(row), len(a.CourseIDs))
		}
	}

	if len(a.Similarity) != len(a.StudentIDs) {
		return fmt.Errorf("similarity rows (%d) != student ids (%d)", len(a.Similarity), len(a.StudentIDs))
	}
	for i, row := range a.Similarity {
		if len(row) != len(a.StudentIDs) {
			return fmt.Errorf("similarity row %d has %d columns, want %d", i, len(row), len(a.StudentIDs))
		}
	}

	if len(a.CourseFeatures.Features) != len(a.CourseFeatures.CourseIDs) {
		return fmt.Errorf("course feature rows (%d) != course ids (%d)",
			len(a.CourseFeatures.Features), len(a.CourseFeatures.CourseIDs))
	}

	return nil
}

// LoadRecommenderArtifact reads and validates a recommender artifact file
func LoadRecommenderArtifact(path string) (*RecommenderArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recommender artifact: %w", err)
	}

	var art RecommenderArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse recommender artifact: %w", err)
	}

	if err := art.validate(); err != nil {
		return nil, fmt.Errorf("invalid recommender artifact: %w", err)
	}

	return &art, nil
}
