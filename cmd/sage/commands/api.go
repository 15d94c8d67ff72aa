package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sage/backend/internal/api"
	"github.com/wonny/sage/backend/internal/api/handlers"
	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/internal/scheduler"
	"github.com/wonny/sage/backend/internal/scheduler/jobs"
	"github.com/wonny/sage/backend/internal/store"
	"github.com/wonny/sage/backend/pkg/config"
	"github.com/wonny/sage/backend/pkg/database"
	"github.com/wonny/sage/backend/pkg/logger"
	"github.com/wonny/sage/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- 모델 아티팩트 로드 (grade + recommender)
- HTTP API 서버 시작
- 주기적 아티팩트 핫 리로드 (옵션)

Endpoints:
  GET  /health                        - Health check
  GET  /api/courses                   - 코스 목록
  GET  /api/courses/{id}              - 코스 상세
  GET  /api/students/{id}/profile     - 학생 프로필
  GET  /api/students/{id}/enrollments - 수강 기록
  GET  /api/students/{id}/stats       - 학업 통계
  POST /api/enrollments               - 수강 등록
  POST /api/interactions              - 상호작용 기록
  POST /api/predict-grade             - 성적 예측
  POST /api/recommendations           - 코스 추천

Example:
  go run ./cmd/sage api
  go run ./cmd/sage api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (PORT 환경변수보다 우선)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sage API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "sage")
	limiter := redis.NewRateLimiter(redisClient, "sage")

	// 5. Create repositories
	profileRepo := store.NewProfileRepository(db.Pool)
	courseRepo := store.NewCourseRepository(db.Pool)
	enrollmentRepo := store.NewEnrollmentRepository(db.Pool)
	interactionRepo := store.NewInteractionRepository(db.Pool)

	// 6. Load model artifacts
	models := ml.NewContext(cfg.Model, cfg.Recommender, log)
	if err := models.Reload(); err != nil {
		return fmt.Errorf("load model artifacts: %w", err)
	}

	gradeLoaded, recLoaded := models.Loaded()
	log.WithFields(map[string]interface{}{
		"grade_model":       gradeLoaded,
		"recommender_model": recLoaded,
	}).Info("Model artifacts loaded")

	// 7. Schedule periodic artifact reload
	var sched *scheduler.Scheduler
	if cfg.Model.ReloadEnabled {
		sched = scheduler.New(log)
		reloadJob := jobs.NewModelReloadJob(models, cfg.Model.ReloadSchedule, log)
		if err := sched.AddJob(reloadJob); err != nil {
			return fmt.Errorf("schedule model reload: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 8. Create handlers
	h := api.Handlers{
		Health:  handlers.NewHealthHandler(db, models),
		Courses: handlers.NewCourseHandler(courseRepo, cache, log),
		Students: handlers.NewStudentHandler(
			profileRepo, courseRepo, enrollmentRepo, interactionRepo, log),
		Predict: handlers.NewPredictHandler(
			profileRepo, courseRepo, enrollmentRepo, interactionRepo, models, cache, log),
		Recommend: handlers.NewRecommendHandler(
			profileRepo, courseRepo, enrollmentRepo, interactionRepo, models, cache, cfg.Recommender, log),
	}

	// 9. Create router and server
	router := api.NewRouter(h, limiter, cfg.RateLimit, log)
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
