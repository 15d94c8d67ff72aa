package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/wonny/sage/backend/internal/contracts"
	"github.com/wonny/sage/backend/internal/store"
	"github.com/wonny/sage/backend/pkg/logger"
)

// StudentHandler handles student profile, enrollment and interaction endpoints
// ⭐ SSOT: 학생 API 핸들러는 이 구조체에서만
type StudentHandler struct {
	profiles     *store.ProfileRepository
	courses      *store.CourseRepository
	enrollments  *store.EnrollmentRepository
	interactions *store.InteractionRepository
	logger       *logger.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(
	profiles *store.ProfileRepository,
	courses *store.CourseRepository,
	enrollments *store.EnrollmentRepository,
	interactions *store.InteractionRepository,
	log *logger.Logger,
) *StudentHandler {
	return &StudentHandler{
		profiles:     profiles,
		courses:      courses,
		enrollments:  enrollments,
		interactions: interactions,
		logger:       log,
	}
}

// GetProfile returns a student profile
// GET /api/students/{id}/profile
func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	profile, err := h.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "student not found")
			return
		}
		h.logger.WithError(err).WithField("student_id", id).Error("Failed to get profile")
		respondError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetEnrollments returns all enrollments for a student
// GET /api/students/{id}/enrollments
func (h *StudentHandler) GetEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	enrollments, err := h.enrollments.ListByStudent(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", id).Error("Failed to list enrollments")
		respondError(w, http.StatusInternalServerError, "failed to list enrollments")
		return
	}

	if enrollments == nil {
		enrollments = []contracts.Enrollment{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"enrollments": enrollments})
}

// GetStats returns aggregate academic statistics for a student
// GET /api/students/{id}/stats
func (h *StudentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	enrollments, err := h.enrollments.ListByStudent(ctx, id)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", id).Error("Failed to list enrollments")
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	var completedCourseIDs []string
	for _, e := range enrollments {
		if e.IsCompleted() {
			completedCourseIDs = append(completedCourseIDs, e.CourseID)
		}
	}

	courses, err := h.courses.GetByIDs(ctx, completedCourseIDs)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", id).Error("Failed to fetch courses for stats")
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	stats := computeStats(enrollments, courses)
	respondJSON(w, http.StatusOK, stats)
}

// computeStats aggregates a student's record. AverageGrade is the plain mean
// over graded enrollments; CurrentGPA weights each grade by course credits.
func computeStats(enrollments []contracts.Enrollment, courses map[string]contracts.Course) contracts.StudentStats {
	stats := contracts.StudentStats{TotalCourses: len(enrollments)}

	var gradeSum float64
	var gradeCount int
	var weightedSum float64
	var weightTotal float64

	for _, e := range enrollments {
		if !e.IsCompleted() {
			stats.InProgressCourses++
			continue
		}
		stats.CompletedCourses++

		course, ok := courses[e.CourseID]
		if ok {
			stats.TotalCredits += course.Credits
		}

		if e.Grade == nil {
			continue
		}
		gradeSum += *e.Grade
		gradeCount++

		if ok && course.Credits > 0 {
			weightedSum += *e.Grade * float64(course.Credits)
			weightTotal += float64(course.Credits)
		}
	}

	if gradeCount > 0 {
		stats.AverageGrade = gradeSum / float64(gradeCount)
	}
	if weightTotal > 0 {
		stats.CurrentGPA = weightedSum / weightTotal
	}

	return stats
}

// CreateEnrollment registers a student into a course
// POST /api/enrollments
func (h *StudentHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contracts.CreateEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StudentID == "" || req.CourseID == "" {
		respondError(w, http.StatusBadRequest, "student_id and course_id are required")
		return
	}

	enrollment := &contracts.Enrollment{
		StudentID:                req.StudentID,
		CourseID:                 req.CourseID,
		Semester:                 req.Semester,
		Year:                     req.Year,
		AttendanceRate:           req.AttendanceRate,
		AssignmentCompletionRate: req.AssignmentCompletionRate,
	}

	created, err := h.enrollments.Create(ctx, enrollment)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"student_id": req.StudentID,
			"course_id":  req.CourseID,
		}).Error("Failed to create enrollment")
		respondError(w, http.StatusInternalServerError, "failed to create enrollment")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// CreateInteraction appends an engagement event
// POST /api/interactions
func (h *StudentHandler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contracts.CreateInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StudentID == "" || req.CourseID == "" || req.EventType == "" {
		respondError(w, http.StatusBadRequest, "student_id, course_id and event_type are required")
		return
	}

	interaction := &contracts.Interaction{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		EventType: req.EventType,
		Value:     req.Value,
	}

	if err := h.interactions.Create(ctx, interaction); err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"student_id": req.StudentID,
			"course_id":  req.CourseID,
		}).Error("Failed to create interaction")
		respondError(w, http.StatusInternalServerError, "failed to create interaction")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}
