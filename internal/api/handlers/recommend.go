package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/sage/backend/internal/contracts"
	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/internal/store"
	"github.com/wonny/sage/backend/pkg/config"
	"github.com/wonny/sage/backend/pkg/logger"
	"github.com/wonny/sage/backend/pkg/redis"
)

const (
	defaultRecommendationCount = 5

	// Score attached to popularity-fallback entries; no personalized
	// signal exists, so every entry carries the same placeholder
	fallbackScore = 0.5
)

// RecommendHandler handles course recommendation endpoints
// ⭐ SSOT: 추천 API 핸들러는 이 구조체에서만
type RecommendHandler struct {
	profiles     *store.ProfileRepository
	courses      *store.CourseRepository
	enrollments  *store.EnrollmentRepository
	interactions *store.InteractionRepository
	models       *ml.Context
	cache        *redis.Cache
	recCfg       config.RecommenderConfig
	logger       *logger.Logger
}

// NewRecommendHandler creates a new recommend handler
func NewRecommendHandler(
	profiles *store.ProfileRepository,
	courses *store.CourseRepository,
	enrollments *store.EnrollmentRepository,
	interactions *store.InteractionRepository,
	models *ml.Context,
	cache *redis.Cache,
	recCfg config.RecommenderConfig,
	log *logger.Logger,
) *RecommendHandler {
	return &RecommendHandler{
		profiles:     profiles,
		courses:      courses,
		enrollments:  enrollments,
		interactions: interactions,
		models:       models,
		cache:        cache,
		recCfg:       recCfg,
		logger:       log,
	}
}

// Recommend returns ranked course recommendations for a student
// POST /api/recommendations
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contracts.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.StudentID == "" {
		respondError(w, http.StatusBadRequest, "student_id is required")
		return
	}
	if req.N <= 0 {
		req.N = defaultRecommendationCount
	}

	cacheKey := fmt.Sprintf("recommend:%s:%d:%t", req.StudentID, req.N, req.IncludePredictedGrades)
	var cached contracts.RecommendationResponse
	if hit, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	recommender, err := h.models.Recommender()
	if err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			respondError(w, http.StatusServiceUnavailable, "recommender model not loaded")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to access recommender model")
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

	enrolledIDs, err := h.enrollments.CourseIDsByStudent(ctx, req.StudentID)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", req.StudentID).Error("Failed to list enrolled courses")
		respondError(w, http.StatusInternalServerError, "failed to load enrollment history")
		return
	}

	method := contracts.MethodHybrid
	scores := recommender.Recommend(req.StudentID, enrolledIDs, req.N)

	if len(scores) == 0 {
		// No personalized signal at all; fall back to global popularity,
		// excluding whatever the student already takes
		method = contracts.MethodPopularityFallback
		scores = popularityScores(recommender, enrolledIDs, req.N)
	}

	courseIDs := make([]string, len(scores))
	for i, s := range scores {
		courseIDs[i] = s.CourseID
	}

	catalog, err := h.courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", req.StudentID).Error("Failed to fetch course metadata")
		respondError(w, http.StatusInternalServerError, "failed to load course metadata")
		return
	}

	recommendations := make([]contracts.Recommendation, 0, len(scores))
	for _, s := range scores {
		rec := contracts.Recommendation{
			CourseID: s.CourseID,
			Score:    s.Score,
		}
		if c, ok := catalog[s.CourseID]; ok {
			rec.Code = c.Code
			rec.Title = c.Title
			rec.Credits = c.Credits
			rec.Difficulty = c.Difficulty
			rec.Department = c.Department
		}
		recommendations = append(recommendations, rec)
	}

	if req.IncludePredictedGrades {
		h.attachPredictedGrades(ctx, profile, catalog, recommendations)
	}

	resp := contracts.RecommendationResponse{
		StudentID:       req.StudentID,
		Method:          method,
		Recommendations: recommendations,
	}

	if err := h.cache.Set(ctx, cacheKey, resp, h.recCfg.CacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache recommendations")
	}

	respondJSON(w, http.StatusOK, resp)
}

// popularityScores ranks by completion count, filters the enrolled set and
// assigns the placeholder score
func popularityScores(recommender *ml.Recommender, enrolledIDs []string, n int) []ml.CourseScore {
	enrolled := make(map[string]struct{}, len(enrolledIDs))
	for _, id := range enrolledIDs {
		enrolled[id] = struct{}{}
	}

	scores := make([]ml.CourseScore, 0, n)
	for _, id := range recommender.PopularCourses(-1) {
		if _, taken := enrolled[id]; taken {
			continue
		}
		scores = append(scores, ml.CourseScore{CourseID: id, Score: fallbackScore})
		if len(scores) == n {
			break
		}
	}

	return scores
}

// attachPredictedGrades enriches each recommendation with a grade forecast.
// Best effort: when the grade model is unavailable the list ships without.
func (h *RecommendHandler) attachPredictedGrades(
	ctx context.Context,
	profile *contracts.Profile,
	catalog map[string]contracts.Course,
	recommendations []contracts.Recommendation,
) {
	predictor, err := h.models.GradePredictor()
	if err != nil {
		h.logger.WithField("student_id", profile.ID).Debug("Grade model unavailable, skipping forecast enrichment")
		return
	}

	completed, err := h.enrollments.ListCompletedByStudent(ctx, profile.ID)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", profile.ID).Warn("Failed to load history for forecast enrichment")
		return
	}

	events, err := h.interactions.ListByStudent(ctx, profile.ID)
	if err != nil {
		h.logger.WithError(err).WithField("student_id", profile.ID).Warn("Failed to load interactions for forecast enrichment")
		return
	}

	for i := range recommendations {
		course, ok := catalog[recommendations[i].CourseID]
		if !ok {
			continue
		}

		features := ml.BuildFeatures(profile, &course, completed, events)
		prediction := predictor.Predict(features)
		grade := prediction.Grade
		recommendations[i].PredictedGrade = &grade
	}
}
