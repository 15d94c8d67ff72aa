package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/pkg/database"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	db     *database.DB
	models *ml.Context
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.DB, models *ml.Context) *HealthHandler {
	return &HealthHandler{db: db, models: models}
}

// Check returns server health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	dbStatus := "up"
	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "down"
	}

	grade, recommender := h.models.Loaded()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   "sage-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
		"models_loaded": map[string]bool{
			"grade":       grade,
			"recommender": recommender,
		},
	})
}
