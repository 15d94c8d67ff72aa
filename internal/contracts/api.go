package contracts

// API request/response shapes
// ⭐ SSOT: API 계약은 여기서만 정의

// PredictGradeRequest asks for a grade prediction for one student/course pair
type PredictGradeRequest struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
}

// GradeRange is the clamped 95% interval around a prediction
type GradeRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// PredictGradeResponse is the prediction result for one pair
type PredictGradeResponse struct {
	StudentID          string     `json:"student_id"`
	CourseID           string     `json:"course_id"`
	PredictedGrade     float64    `json:"predicted_grade"`
	ConfidenceInterval float64    `json:"confidence_interval"`
	GradeRange         GradeRange `json:"grade_range"`
	LetterGrade        string     `json:"letter_grade"`
}

// RecommendationRequest asks for ranked course recommendations
type RecommendationRequest struct {
	StudentID              string `json:"student_id"`
	N                      int    `json:"n"`
	IncludePredictedGrades bool   `json:"include_predicted_grades"`
}

// Recommendation is one ranked course with catalog metadata attached
type Recommendation struct {
	CourseID       string   `json:"course_id"`
	Score          float64  `json:"score"`
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	Credits        int      `json:"credits"`
	Difficulty     string   `json:"difficulty"`
	Department     string   `json:"department"`
	PredictedGrade *float64 `json:"predicted_grade,omitempty"`
}

// Recommendation methods
const (
	MethodHybrid             = "hybrid"
	MethodPopularityFallback = "popularity_fallback"
)

// RecommendationResponse is the ranked recommendation list for a student
type RecommendationResponse struct {
	StudentID       string           `json:"student_id"`
	Method          string           `json:"method"` // hybrid | popularity_fallback
	Recommendations []Recommendation `json:"recommendations"`
}

// CreateEnrollmentRequest registers a student into a course
type CreateEnrollmentRequest struct {
	StudentID                string   `json:"student_id"`
	CourseID                 string   `json:"course_id"`
	Semester                 string   `json:"semester"`
	Year                     int      `json:"year"`
	AttendanceRate           *float64 `json:"attendance_rate,omitempty"`
	AssignmentCompletionRate *float64 `json:"assignment_completion_rate,omitempty"`
}

// CreateInteractionRequest appends one engagement event
type CreateInteractionRequest struct {
	StudentID string  `json:"student_id"`
	CourseID  string  `json:"course_id"`
	EventType string  `json:"event_type"`
	Value     float64 `json:"value"`
}
