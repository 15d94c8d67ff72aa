package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sage/backend/internal/contracts"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildFeaturesZeroHistory(t *testing.T) {
	profile := &contracts.Profile{
		ID:            "s1",
		Year:          1,
		HighSchoolGPA: 3.2,
	}
	course := &contracts.Course{
		ID:         "c1",
		Credits:    3,
		Difficulty: contracts.DifficultyBeginner,
		Topics:     []string{"intro"},
	}

	fv := BuildFeatures(profile, course, nil, nil)

	// Every field present, missing inputs default to 0 or the documented fallback
	assert.Len(t, fv, 16)
	assert.Equal(t, 0.0, fv[FeatHistMeanGrade])
	assert.Equal(t, 0.0, fv[FeatHistStdGrade])
	assert.Equal(t, 0.0, fv[FeatHistCourseCount])
	assert.Equal(t, 0.0, fv[FeatHistAvgAttendance])
	assert.Equal(t, 0.0, fv[FeatHistAvgCompletion])
	assert.Equal(t, 0.0, fv[FeatTotalInteractionValue])
	assert.Equal(t, 0.0, fv[FeatAvgInteractionValue])
	assert.Equal(t, 0.0, fv[FeatInteractionCount])

	// Fallbacks
	assert.Equal(t, 20.0, fv[FeatAge])
	assert.Equal(t, 85.0, fv[FeatAttendanceRate])
	assert.Equal(t, 90.0, fv[FeatAssignmentCompletion])

	// Course and profile fields
	assert.Equal(t, 3.0, fv[FeatCredits])
	assert.Equal(t, 1.0, fv[FeatTopicCount])
	assert.Equal(t, 1.0, fv[FeatDifficultyNum])
	assert.Equal(t, 3.2, fv[FeatHighSchoolGPA])
	assert.Equal(t, 1.0, fv[FeatYear])
}

func TestBuildFeaturesHistory(t *testing.T) {
	profile := &contracts.Profile{
		ID:            "s1",
		Year:          2,
		HighSchoolGPA: 3.6,
		Age:           intPtr(20),
	}
	course := &contracts.Course{
		ID:         "c9",
		Credits:    3,
		Difficulty: contracts.DifficultyIntermediate,
		Topics:     []string{"graphs", "trees", "heaps", "hashing"},
	}

	completed := []contracts.Enrollment{
		{CourseID: "c1", Status: contracts.StatusCompleted, Grade: floatPtr(3.0), AttendanceRate: floatPtr(90), AssignmentCompletionRate: floatPtr(95)},
		{CourseID: "c2", Status: contracts.StatusCompleted, Grade: floatPtr(3.5), AttendanceRate: floatPtr(80)},
		{CourseID: "c3", Status: contracts.StatusCompleted, Grade: floatPtr(2.8), AssignmentCompletionRate: floatPtr(85)},
	}

	fv := BuildFeatures(profile, course, completed, nil)

	assert.InDelta(t, 3.1, fv[FeatHistMeanGrade], 1e-9)
	assert.InDelta(t, 0.36055, fv[FeatHistStdGrade], 1e-4)
	assert.Equal(t, 3.0, fv[FeatHistCourseCount])

	// Averages only over enrollments where the field is present
	assert.InDelta(t, 85.0, fv[FeatHistAvgAttendance], 1e-9)
	assert.InDelta(t, 90.0, fv[FeatHistAvgCompletion], 1e-9)

	assert.Equal(t, 2.0, fv[FeatDifficultyNum])
	assert.Equal(t, 4.0, fv[FeatTopicCount])
	assert.Equal(t, 3.6, fv[FeatHighSchoolGPA])
	assert.Equal(t, 2.0, fv[FeatYear])
	assert.Equal(t, 20.0, fv[FeatAge])
}

func TestBuildFeaturesStdZeroWithOneSample(t *testing.T) {
	profile := &contracts.Profile{ID: "s1", Year: 1}
	course := &contracts.Course{ID: "c1", Credits: 3}

	completed := []contracts.Enrollment{
		{CourseID: "c1", Status: contracts.StatusCompleted, Grade: floatPtr(3.7)},
	}

	fv := BuildFeatures(profile, course, completed, nil)

	assert.Equal(t, 3.7, fv[FeatHistMeanGrade])
	assert.Equal(t, 0.0, fv[FeatHistStdGrade])
	assert.Equal(t, 1.0, fv[FeatHistCourseCount])
}

func TestBuildFeaturesUnknownDifficulty(t *testing.T) {
	profile := &contracts.Profile{ID: "s1", Year: 1}
	course := &contracts.Course{ID: "c1", Credits: 4, Difficulty: "Expert"}

	fv := BuildFeatures(profile, course, nil, nil)

	assert.Equal(t, 2.0, fv[FeatDifficultyNum])
}

func TestBuildFeaturesInteractions(t *testing.T) {
	profile := &contracts.Profile{ID: "s1", Year: 3}
	course := &contracts.Course{ID: "c1", Credits: 3}

	interactions := []contracts.Interaction{
		{StudentID: "s1", CourseID: "c1", EventType: "video_watch", Value: 10},
		{StudentID: "s1", CourseID: "c2", EventType: "forum_post", Value: 2},
		{StudentID: "s1", CourseID: "c1", EventType: "quiz_attempt", Value: 6},
	}

	fv := BuildFeatures(profile, course, nil, interactions)

	assert.Equal(t, 18.0, fv[FeatTotalInteractionValue])
	assert.Equal(t, 6.0, fv[FeatAvgInteractionValue])
	assert.Equal(t, 3.0, fv[FeatInteractionCount])
}

func TestBuildFeaturesIgnoresUngradedCompletions(t *testing.T) {
	profile := &contracts.Profile{ID: "s1", Year: 1}
	course := &contracts.Course{ID: "c1", Credits: 3}

	completed := []contracts.Enrollment{
		{CourseID: "c1", Status: contracts.StatusCompleted, Grade: floatPtr(4.0)},
		{CourseID: "c2", Status: contracts.StatusCompleted}, // no grade recorded
	}

	fv := BuildFeatures(profile, course, completed, nil)

	assert.Equal(t, 4.0, fv[FeatHistMeanGrade])
	assert.Equal(t, 1.0, fv[FeatHistCourseCount])
}
