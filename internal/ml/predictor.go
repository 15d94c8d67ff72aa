package ml

import (
	"math"

	"github.com/wonny/sage/backend/pkg/logger"
)

// GPA bounds for clamping model output
const (
	minGrade = 0.0
	maxGrade = 4.0
)

// Confidence interval parameters
const (
	fallbackStdDev     = 0.2  // used when the model offers no spread hint
	intervalMultiplier = 1.96 // 95% interval
)

// RegressionModel is the opaque capability boundary around the trained
// regression algorithm. Any implementation works: the loaded artifact,
// or a lookup table in tests.
type RegressionModel interface {
	Predict(x []float64) float64
}

// SpreadHinter is optionally implemented by models that can report a
// prediction variance proxy (e.g. ensemble spread).
type SpreadHinter interface {
	SpreadHint(x []float64) float64
}

// Scaler applies the standard scaling fitted during training:
// x' = (x - mean) / scale
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform scales a raw feature row. A zero scale entry is treated as 1
// to avoid division by zero on constant features.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		mean, scale := 0.0, 1.0
		if i < len(s.Mean) {
			mean = s.Mean[i]
		}
		if i < len(s.Scale) && s.Scale[i] != 0 {
			scale = s.Scale[i]
		}
		out[i] = (v - mean) / scale
	}
	return out
}

// Prediction is a point estimate with its 95% confidence interval
type Prediction struct {
	Grade              float64 `json:"predicted_grade"`
	ConfidenceInterval float64 `json:"confidence_interval"`
}

// Lower returns the interval lower bound clamped to the GPA range
func (p Prediction) Lower() float64 {
	return math.Max(minGrade, p.Grade-p.ConfidenceInterval)
}

// Upper returns the interval upper bound clamped to the GPA range
func (p Prediction) Upper() float64 {
	return math.Min(maxGrade, p.Grade+p.ConfidenceInterval)
}

// GradePredictor wraps a fitted regression model, its scaler, and the
// ordered feature-name list from training. The feature order is
// load-bearing: values are read in exactly this order.
type GradePredictor struct {
	model        RegressionModel
	scaler       *Scaler
	featureNames []string
	log          *logger.Logger
}

// NewGradePredictor builds a predictor around a trained model.
// featureNames must be the exact ordered list the model was trained with.
func NewGradePredictor(model RegressionModel, scaler *Scaler, featureNames []string, log *logger.Logger) *GradePredictor {
	return &GradePredictor{
		model:        model,
		scaler:       scaler,
		featureNames: featureNames,
		log:          log.WithComponent("ml.predictor"),
	}
}

// FeatureNames returns the model's trained feature order
func (p *GradePredictor) FeatureNames() []string {
	return p.featureNames
}

// Predict turns a feature vector into a clamped point estimate and a 95%
// confidence interval. Features absent from the vector default to 0; this
// degrades quality silently, so each miss is logged.
func (p *GradePredictor) Predict(features FeatureVector) Prediction {
	row := make([]float64, len(p.featureNames))
	for i, name := range p.featureNames {
		v, ok := features[name]
		if !ok {
			p.log.WithField("feature", name).Warn("expected feature missing, defaulting to 0")
		}
		row[i] = v
	}

	scaled := p.scaler.Transform(row)

	grade := p.model.Predict(scaled)
	grade = math.Max(minGrade, math.Min(maxGrade, grade))

	stdDev := fallbackStdDev
	if hinter, ok := p.model.(SpreadHinter); ok {
		if hint := hinter.SpreadHint(scaled); hint > 0 {
			stdDev = hint
		}
	}

	return Prediction{
		Grade:              grade,
		ConfidenceInterval: intervalMultiplier * stdDev,
	}
}

// letterBreakpoints is evaluated top-down, first match wins; breakpoints
// are inclusive on the lower bound.
var letterBreakpoints = []struct {
	min    float64
	letter string
}{
	{3.7, "A"},
	{3.3, "A-"},
	{3.0, "B+"},
	{2.7, "B"},
	{2.3, "B-"},
	{2.0, "C+"},
	{1.7, "C"},
	{1.3, "C-"},
	{1.0, "D"},
}

// LetterGrade maps a (clamped) point estimate to its letter grade
func LetterGrade(grade float64) string {
	for _, bp := range letterBreakpoints {
		if grade >= bp.min {
			return bp.letter
		}
	}
	return "F"
}
