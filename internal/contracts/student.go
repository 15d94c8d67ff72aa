package contracts

import "time"

// Profile represents a student profile record
// ⭐ SSOT: 학생 프로필 스키마는 여기서만 정의
type Profile struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Major         string    `json:"major"`
	Year          int       `json:"year"` // academic year, 1-4
	HighSchoolGPA float64   `json:"high_school_gpa"`
	Age           *int      `json:"age,omitempty"`
	Gender        string    `json:"gender"`
	CreatedAt     time.Time `json:"created_at"`
}

// AgeOrDefault returns the student's age, or the given default when unknown
func (p *Profile) AgeOrDefault(def int) int {
	if p.Age == nil {
		return def
	}
	return *p.Age
}

// Interaction represents an append-only student engagement event
type Interaction struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	EventType string    `json:"event_type"` // free-form tag
	Value     float64   `json:"value"`      // engagement magnitude
	CreatedAt time.Time `json:"created_at"`
}

// StudentStats summarizes a student's academic record
type StudentStats struct {
	TotalCourses      int     `json:"total_courses"`
	CompletedCourses  int     `json:"completed_courses"`
	InProgressCourses int     `json:"in_progress_courses"`
	AverageGrade      float64 `json:"average_grade"`
	TotalCredits      int     `json:"total_credits"`
	CurrentGPA        float64 `json:"current_gpa"`
}
