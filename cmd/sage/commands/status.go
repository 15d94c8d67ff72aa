package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/pkg/config"
	"github.com/wonny/sage/backend/pkg/database"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "서비스 상태 점검",
	Long: `데이터베이스와 모델 아티팩트 상태를 점검합니다.

표시 정보:
- DB 연결 / 응답 시간 / 풀 통계
- Grade 모델 아티팩트 (피처 수)
- Recommender 아티팩트 (학생/코스 수)

Example:
  go run ./cmd/sage status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sage Service Status ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Database
	fmt.Println("\n📊 Database")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("   ❌ Connection failed: %v\n", err)
	} else {
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		health, err := db.HealthCheck(ctx)
		if err != nil {
			fmt.Printf("   ❌ Health check failed: %v\n", err)
		} else {
			fmt.Printf("   Healthy: %v\n", health.Healthy)
			fmt.Printf("   Response Time: %v\n", health.ResponseTime)
			fmt.Printf("   Max Connections: %d\n", health.Stats.MaxConns)
			fmt.Printf("   Total Connections: %d\n", health.Stats.TotalConns)
			fmt.Printf("   Idle Connections: %d\n", health.Stats.IdleConns)
		}
	}

	// Model artifacts
	fmt.Println("\n🧠 Model Artifacts")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	fmt.Printf("   Grade model: %s\n", cfg.Model.GradePath)
	if gradeArt, err := ml.LoadGradeArtifact(cfg.Model.GradePath); err != nil {
		fmt.Printf("   ❌ Not loadable: %v\n", err)
	} else {
		fmt.Printf("   ✅ Loaded (%d features)\n", len(gradeArt.FeatureNames))
	}

	fmt.Printf("   Recommender model: %s\n", cfg.Model.RecommenderPath)
	if recArt, err := ml.LoadRecommenderArtifact(cfg.Model.RecommenderPath); err != nil {
		fmt.Printf("   ❌ Not loadable: %v\n", err)
	} else {
		fmt.Printf("   ✅ Loaded (%d students, %d courses)\n",
			len(recArt.StudentIDs), len(recArt.CourseIDs))
	}

	return nil
}
