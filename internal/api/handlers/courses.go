package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/wonny/sage/backend/internal/contracts"
	"github.com/wonny/sage/backend/internal/store"
	"github.com/wonny/sage/backend/pkg/logger"
	"github.com/wonny/sage/backend/pkg/redis"
)

// CourseHandler handles course catalog endpoints
// ⭐ SSOT: 코스 API 핸들러는 이 구조체에서만
type CourseHandler struct {
	courses *store.CourseRepository
	cache   *redis.Cache
	logger  *logger.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *store.CourseRepository, cache *redis.Cache, log *logger.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		cache:   cache,
		logger:  log,
	}
}

// List returns all courses
// GET /api/courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The catalog changes rarely; serve from cache when possible
	var cached []contracts.Course
	if hit, err := h.cache.Get(ctx, "courses", &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, map[string]interface{}{"courses": cached})
		return
	}

	courses, err := h.courses.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list courses")
		respondError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}

	if err := h.cache.Set(ctx, "courses", courses, redis.TTLLong); err != nil {
		h.logger.WithError(err).Warn("Failed to cache course list")
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"courses": courses})
}

// Get returns a single course
// GET /api/courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	course, err := h.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.WithError(err).WithField("course_id", id).Error("Failed to get course")
		respondError(w, http.StatusInternalServerError, "failed to get course")
		return
	}

	respondJSON(w, http.StatusOK, course)
}
