package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/sage/backend/internal/contracts"
	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/internal/store"
	"github.com/wonny/sage/backend/pkg/logger"
	"github.com/wonny/sage/backend/pkg/redis"
)

// PredictHandler handles grade prediction endpoints
// ⭐ SSOT: 예측 API 핸들러는 이 구조체에서만
type PredictHandler struct {
	profiles     *store.ProfileRepository
	courses      *store.CourseRepository
	enrollments  *store.EnrollmentRepository
	interactions *store.InteractionRepository
	models       *ml.Context
	cache        *redis.Cache
	logger       *logger.Logger
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(
	profiles *store.ProfileRepository,
	courses *store.CourseRepository,
	enrollments *store.EnrollmentRepository,
	interactions *store.InteractionRepository,
	models *ml.Context,
	cache *redis.Cache,
	log *logger.Logger,
) *PredictHandler {
	return &PredictHandler{
		profiles:     profiles,
		courses:      courses,
		enrollments:  enrollments,
		interactions: interactions,
		models:       models,
		cache:        cache,
		logger:       log,
	}
}

// PredictGrade predicts the grade a student would earn in a course
// POST /api/predict-grade
func (h *PredictHandler) PredictGrade(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contracts.PredictGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StudentID == "" || req.CourseID == "" {
		respondError(w, http.StatusBadRequest, "student_id and course_id are required")
		return
	}

	cacheKey := fmt.Sprintf("predict:%s:%s", req.StudentID, req.CourseID)
	var cached contracts.PredictGradeResponse
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	predictor, err := h.models.GradePredictor()
	if err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "grade model not loaded")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to access grade model")
		return
	}

	profile, err := h.profiles.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "student not found")
			return
		}
		h.logger.WithError(err).WithField("student_id", req.StudentID).Error("Failed to get profile")
		respondError(w, http.StatusInternalServerError, "failed to get student profile")
		return
	}

	course, err := h.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.WithError(err).WithField("course_id", req.CourseID).Error("Failed to get course")
		respondError(w, http.StatusInternalServerError, "failed to get course")
		return
	}

	completed, err := h.enrollments.ListCompletedByStudent(ctx, req.StudentID)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", req.StudentID).Error("Failed to list completed enrollments")
		respondError(w, http.StatusInternalServerError, "failed to load enrollment history")
		return
	}

	events, err := h.interactions.ListByStudent(ctx, req.StudentID)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", req.StudentID).Error("Failed to list interactions")
		respondError(w, http.StatusInternalServerError, "failed to load interaction history")
		return
	}

	features := ml.BuildFeatures(profile, course, completed, events)
	prediction := predictor.Predict(features)

	resp := contracts.PredictGradeResponse{
		StudentID:          req.StudentID,
		CourseID:           req.CourseID,
		PredictedGrade:     prediction.Grade,
		ConfidenceInterval: prediction.ConfidenceInterval,
		GradeRange: contracts.GradeRange{
			Lower: prediction.Lower(),
			Upper: prediction.Upper(),
		},
		LetterGrade: ml.LetterGrade(prediction.Grade),
	}

	if err := h.cache.Set(ctx, cacheKey, resp, redis.TTLShort); err != nil {
		h.logger.WithError(err).Warn("Failed to cache prediction")
	}

	respondJSON(w, http.StatusOK, resp)
}
