package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/sage/backend/internal/contracts"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil, nil)

	assert.Equal(t, 0, stats.TotalCourses)
	assert.Equal(t, 0, stats.CompletedCourses)
	assert.Zero(t, stats.AverageGrade)
	assert.Zero(t, stats.CurrentGPA)
}

func TestComputeStats(t *testing.T) {
	enrollments := []contracts.Enrollment{
		{CourseID: "c1", Status: contracts.StatusCompleted, Grade: floatPtr(4.0)},
		{CourseID: "c2", Status: contracts.StatusCompleted, Grade: floatPtr(2.0)},
		{CourseID: "c3", Status: contracts.StatusInProgress},
	}
	courses := map[string]contracts.Course{
		"c1": {ID: "c1", Credits: 3},
		"c2": {ID: "c2", Credits: 1},
		"c3": {ID: "c3", Credits: 4},
	}

	stats := computeStats(enrollments, courses)

	assert.Equal(t, 3, stats.TotalCourses)
	assert.Equal(t, 2, stats.CompletedCourses)
	assert.Equal(t, 1, stats.InProgressCourses)
	// In-progress credits do not count
	assert.Equal(t, 4, stats.TotalCredits)
	assert.InDelta(t, 3.0, stats.AverageGrade, 1e-9)
	// Credit-weighted: (4.0*3 + 2.0*1) / 4 = 3.5
	assert.InDelta(t, 3.5, stats.CurrentGPA, 1e-9)
}

func TestComputeStatsUngradedCompletionCountsCreditsOnly(t *testing.T) {
	enrollments := []contracts.Enrollment{
		{CourseID: "c1", Status: contracts.StatusCompleted, Grade: floatPtr(3.0)},
		{CourseID: "c2", Status: contracts.StatusCompleted}, // pass/fail, no grade
	}
	courses := map[string]contracts.Course{
		"c1": {ID: "c1", Credits: 3},
		"c2": {ID: "c2", Credits: 2},
	}

	stats := computeStats(enrollments, courses)

	assert.Equal(t, 2, stats.CompletedCourses)
	assert.Equal(t, 5, stats.TotalCredits)
	assert.InDelta(t, 3.0, stats.AverageGrade, 1e-9)
	assert.InDelta(t, 3.0, stats.CurrentGPA, 1e-9)
}
