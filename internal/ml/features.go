package ml

import (
	"math"

	"github.com/wonny/sage/backend/internal/contracts"
)

// Feature names consumed by the grade regression model.
// 순서는 학습 시 고정된 feature_names가 결정하며, 여기 이름과 일치해야 함
const (
	FeatHistMeanGrade         = "hist_mean_grade"
	FeatHistStdGrade          = "hist_std_grade"
	FeatHistCourseCount       = "hist_course_count"
	FeatHistAvgAttendance     = "hist_avg_attendance"
	FeatHistAvgCompletion     = "hist_avg_completion"
	FeatCredits               = "credits"
	FeatTopicCount            = "topic_count"
	FeatDifficultyNum         = "difficulty_num"
	FeatHighSchoolGPA         = "high_school_gpa"
	FeatYear                  = "year"
	FeatAge                   = "age"
	FeatAttendanceRate        = "attendance_rate"
	FeatAssignmentCompletion  = "assignment_completion_rate"
	FeatTotalInteractionValue = "total_interaction_value"
	FeatAvgInteractionValue   = "avg_interaction_value"
	FeatInteractionCount      = "interaction_count"
)

// FeatureNames returns the canonical ordered feature list current models
// are trained with. Artifacts carry their own copy; this one serves tests
// and tooling.
func FeatureNames() []string {
	return []string{
		FeatHistMeanGrade,
		FeatHistStdGrade,
		FeatHistCourseCount,
		FeatHistAvgAttendance,
		FeatHistAvgCompletion,
		FeatCredits,
		FeatTopicCount,
		FeatDifficultyNum,
		FeatHighSchoolGPA,
		FeatYear,
		FeatAge,
		FeatAttendanceRate,
		FeatAssignmentCompletion,
		FeatTotalInteractionValue,
		FeatAvgInteractionValue,
		FeatInteractionCount,
	}
}

// Defaults used when the actual value is unknown at prediction time
const (
	defaultAge            = 20
	defaultAttendance     = 85.0 // placeholder for a not-yet-taken course
	defaultCompletion     = 90.0 // placeholder for a not-yet-taken course
	defaultDifficultyCode = 2
)

// difficultyCodes maps course difficulty labels to the numeric code the
// model was trained on. Unknown labels fall back to Intermediate.
var difficultyCodes = map[string]float64{
	contracts.DifficultyBeginner:     1,
	contracts.DifficultyIntermediate: 2,
	contracts.DifficultyAdvanced:     3,
}

// FeatureVector is a named numeric feature mapping. Every expected field is
// always present and numeric; missing inputs default to 0 (or the documented
// placeholder), never null.
type FeatureVector map[string]float64

// BuildFeatures assembles the 16-field feature vector for a student/course
// pair from raw records. Pure function of its inputs, no side effects.
//
// completed must hold the student's completed enrollments; interactions the
// full interaction log. The target course is assumed not yet taken, so the
// current-enrollment rates use fixed placeholders.
func BuildFeatures(
	profile *contracts.Profile,
	course *contracts.Course,
	completed []contracts.Enrollment,
	interactions []contracts.Interaction,
) FeatureVector {
	histMean, histStd, histCount := gradeHistory(completed)
	avgAttendance := averageAttendance(completed)
	avgCompletion := averageCompletion(completed)
	totalValue, avgValue, count := interactionStats(interactions)

	difficulty, ok := difficultyCodes[course.Difficulty]
	if !ok {
		difficulty = defaultDifficultyCode
	}

	return FeatureVector{
		FeatHistMeanGrade:         histMean,
		FeatHistStdGrade:          histStd,
		FeatHistCourseCount:       float64(histCount),
		FeatHistAvgAttendance:     avgAttendance,
		FeatHistAvgCompletion:     avgCompletion,
		FeatCredits:               float64(course.Credits),
		FeatTopicCount:            float64(course.TopicCount()),
		FeatDifficultyNum:         difficulty,
		FeatHighSchoolGPA:         profile.HighSchoolGPA,
		FeatYear:                  float64(profile.Year),
		FeatAge:                   float64(profile.AgeOrDefault(defaultAge)),
		FeatAttendanceRate:        defaultAttendance,
		FeatAssignmentCompletion:  defaultCompletion,
		FeatTotalInteractionValue: totalValue,
		FeatAvgInteractionValue:   avgValue,
		FeatInteractionCount:      float64(count),
	}
}

// gradeHistory computes mean, sample std-dev and count over completed
// enrollments carrying a grade. Std is 0 with fewer than 2 samples.
func gradeHistory(completed []contracts.Enrollment) (mean, std float64, count int) {
	var grades []float64
	for i := range completed {
		if completed[i].HasGrade() {
			grades = append(grades, *completed[i].Grade)
		}
	}

	if len(grades) == 0 {
		return 0, 0, 0
	}

	var sum float64
	for _, g := range grades {
		sum += g
	}
	mean = sum / float64(len(grades))

	if len(grades) >= 2 {
		var ss float64
		for _, g := range grades {
			d := g - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(len(grades)-1))
	}

	return mean, std, len(grades)
}

// averageAttendance averages attendance over completed enrollments where
// the field is present; 0 when no data.
func averageAttendance(completed []contracts.Enrollment) float64 {
	var sum float64
	var n int
	for i := range completed {
		if completed[i].AttendanceRate != nil {
			sum += *completed[i].AttendanceRate
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// averageCompletion averages assignment completion over completed
// enrollments where the field is present; 0 when no data.
func averageCompletion(completed []contracts.Enrollment) float64 {
	var sum float64
	var n int
	for i := range completed {
		if completed[i].AssignmentCompletionRate != nil {
			sum += *completed[i].AssignmentCompletionRate
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// interactionStats aggregates the full interaction log; all zeros when empty
func interactionStats(interactions []contracts.Interaction) (total, avg float64, count int) {
	for i := range interactions {
		total += interactions[i].Value
	}
	count = len(interactions)
	if count > 0 {
		avg = total / float64(count)
	}
	return total, avg, count
}
