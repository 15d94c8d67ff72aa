package contracts

// Enrollment status values
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Enrollment links a student and a course for a semester/year.
// Grade is set only when the enrollment is completed.
// One record per (student, course, semester, year).
type Enrollment struct {
	ID                       string   `json:"id"`
	StudentID                string   `json:"student_id"`
	CourseID                 string   `json:"course_id"`
	Semester                 string   `json:"semester"`
	Year                     int      `json:"year"`
	Grade                    *float64 `json:"grade,omitempty"` // 0.0-4.0, completed only
	LetterGrade              *string  `json:"letter_grade,omitempty"`
	Status                   string   `json:"status"`
	AttendanceRate           *float64 `json:"attendance_rate,omitempty"`            // percent
	AssignmentCompletionRate *float64 `json:"assignment_completion_rate,omitempty"` // percent
}

// IsCompleted reports whether the enrollment is completed
func (e *Enrollment) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// HasGrade reports whether a final grade has been recorded
func (e *Enrollment) HasGrade() bool {
	return e.IsCompleted() && e.Grade != nil
}
