package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sage/backend/pkg/logger"
)

// stubModel returns a fixed value and records the input row it saw
type stubModel struct {
	value float64
	seen  []float64
}

func (m *stubModel) Predict(x []float64) float64 {
	m.seen = append([]float64(nil), x...)
	return m.value
}

// spreadStubModel additionally reports a fixed spread hint
type spreadStubModel struct {
	stubModel
	spread float64
}

func (m *spreadStubModel) SpreadHint(x []float64) float64 { return m.spread }

func testFeatureNames() []string {
	return []string{FeatHistMeanGrade, FeatCredits, FeatYear}
}

func TestPredictClampsToGradeRange(t *testing.T) {
	tests := []struct {
		name  string
		raw   float64
		want  float64
	}{
		{"above range", 5.3, 4.0},
		{"below range", -0.7, 0.0},
		{"in range", 3.2, 3.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewGradePredictor(&stubModel{value: tt.raw}, &Scaler{}, testFeatureNames(), logger.NewNop())
			pred := p.Predict(FeatureVector{})
			assert.Equal(t, tt.want, pred.Grade)
		})
	}
}

func TestPredictFeatureOrder(t *testing.T) {
	model := &stubModel{value: 3.0}
	p := NewGradePredictor(model, &Scaler{}, testFeatureNames(), logger.NewNop())

	p.Predict(FeatureVector{
		FeatYear:          2,
		FeatHistMeanGrade: 3.5,
		FeatCredits:       4,
	})

	// Values must be read in the trained feature order, not map order
	assert.Equal(t, []float64{3.5, 4, 2}, model.seen)
}

func TestPredictMissingFeatureDefaultsToZero(t *testing.T) {
	model := &stubModel{value: 3.0}
	p := NewGradePredictor(model, &Scaler{}, testFeatureNames(), logger.NewNop())

	p.Predict(FeatureVector{FeatCredits: 3})

	assert.Equal(t, []float64{0, 3, 0}, model.seen)
}

func TestPredictAppliesScaler(t *testing.T) {
	model := &stubModel{value: 3.0}
	scaler := &Scaler{
		Mean:  []float64{1, 2, 0},
		Scale: []float64{2, 0, 1}, // zero scale treated as 1
	}
	p := NewGradePredictor(model, scaler, testFeatureNames(), logger.NewNop())

	p.Predict(FeatureVector{
		FeatHistMeanGrade: 3,
		FeatCredits:       4,
		FeatYear:          2,
	})

	assert.Equal(t, []float64{1, 2, 2}, model.seen)
}

func TestPredictConfidenceIntervalFallback(t *testing.T) {
	p := NewGradePredictor(&stubModel{value: 3.0}, &Scaler{}, testFeatureNames(), logger.NewNop())
	pred := p.Predict(FeatureVector{})

	// No spread hint available: fixed 0.2 std-dev at the 95% multiplier
	assert.InDelta(t, 1.96*0.2, pred.ConfidenceInterval, 1e-9)
}

func TestPredictConfidenceIntervalFromSpreadHint(t *testing.T) {
	model := &spreadStubModel{stubModel: stubModel{value: 3.0}, spread: 0.1}
	p := NewGradePredictor(model, &Scaler{}, testFeatureNames(), logger.NewNop())
	pred := p.Predict(FeatureVector{})

	assert.InDelta(t, 1.96*0.1, pred.ConfidenceInterval, 1e-9)
}

func TestPredictionBoundsClamped(t *testing.T) {
	pred := Prediction{Grade: 3.9, ConfidenceInterval: 0.4}
	assert.InDelta(t, 3.5, pred.Lower(), 1e-9)
	assert.Equal(t, 4.0, pred.Upper())

	pred = Prediction{Grade: 0.1, ConfidenceInterval: 0.4}
	assert.Equal(t, 0.0, pred.Lower())
	assert.InDelta(t, 0.5, pred.Upper(), 1e-9)
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		grade  float64
		letter string
	}{
		{4.0, "A"},
		{3.7, "A"},
		{3.65, "A-"},
		{3.3, "A-"},
		{3.1, "B+"},
		{3.0, "B+"},
		{2.7, "B"},
		{2.5, "B-"},
		{2.3, "B-"},
		{2.0, "C+"},
		{1.7, "C"},
		{1.3, "C-"},
		{1.0, "D"},
		{0.9, "F"},
		{0.0, "F"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.letter, LetterGrade(tt.grade), "grade %.2f", tt.grade)
	}
}

func TestPredictRoundTripFromEmptyHistory(t *testing.T) {
	// A vector built from a student with zero enrollments and interactions
	// must flow through prediction without issue
	fv := FeatureVector{}
	for _, name := range FeatureNames() {
		fv[name] = 0
	}
	fv[FeatAge] = 20
	fv[FeatAttendanceRate] = 85
	fv[FeatAssignmentCompletion] = 90

	p := NewGradePredictor(&stubModel{value: 2.4}, &Scaler{}, FeatureNames(), logger.NewNop())
	pred := p.Predict(fv)

	assert.GreaterOrEqual(t, pred.Grade, 0.0)
	assert.LessOrEqual(t, pred.Grade, 4.0)
	assert.LessOrEqual(t, pred.Lower(), pred.Grade)
	assert.GreaterOrEqual(t, pred.Upper(), pred.Grade)
}
