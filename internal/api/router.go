package api

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/wonny/sage/backend/internal/api/handlers"
	"github.com/wonny/sage/backend/pkg/config"
	"github.com/wonny/sage/backend/pkg/logger"
	"github.com/wonny/sage/backend/pkg/redis"
)

// Handlers bundles the route handlers the router mounts
type Handlers struct {
	Health    *handlers.HealthHandler
	Courses   *handlers.CourseHandler
	Students  *handlers.StudentHandler
	Predict   *handlers.PredictHandler
	Recommend *handlers.RecommendHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, limiter *redis.RateLimiter, cfg config.RateLimitConfig, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Catalog
	api.HandleFunc("/courses", h.Courses.List).Methods("GET")
	api.HandleFunc("/courses/{id}", h.Courses.Get).Methods("GET")

	// Students
	api.HandleFunc("/students/{id}/profile", h.Students.GetProfile).Methods("GET")
	api.HandleFunc("/students/{id}/enrollments", h.Students.GetEnrollments).Methods("GET")
	api.HandleFunc("/students/{id}/stats", h.Students.GetStats).Methods("GET")
	api.HandleFunc("/enrollments", h.Students.CreateEnrollment).Methods("POST")
	api.HandleFunc("/interactions", h.Students.CreateInteraction).Methods("POST")

	// ML endpoints
	api.HandleFunc("/predict-grade", h.Predict.PredictGrade).Methods("POST")
	api.HandleFunc("/recommendations", h.Recommend.Recommend).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if cfg.Enabled {
		r.Use(rateLimitMiddleware(limiter, cfg, log))
	}

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware combines a process-wide token bucket with a
// per-client sliding window in Redis. The bucket shields the process;
// the window keeps one client from starving the rest.
func rateLimitMiddleware(limiter *redis.RateLimiter, cfg config.RateLimitConfig, log *logger.Logger) mux.MiddlewareFunc {
	global := rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !global.Allow() {
				respondTooManyRequests(w, 0)
				return
			}

			allowed, remaining, err := limiter.Allow(r.Context(), redis.RateLimitConfig{
				Key:    clientIP(r),
				Limit:  cfg.PerClientLimit,
				Window: cfg.PerClientWindow,
			})
			if err != nil {
				// Rate limiting must not take the API down with it
				log.WithError(err).Warn("Rate limit check failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				respondTooManyRequests(w, remaining)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}

func respondTooManyRequests(w http.ResponseWriter, remaining int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "rate limit exceeded",
	})
}

// clientIP extracts the caller identity for per-client limiting
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
