package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "Sage - 성적 예측 & 코스 추천 백엔드",
	Long: `Sage Unified CLI

학생 성적 예측과 하이브리드 코스 추천을 제공하는 백엔드 서비스.
학습된 모델 아티팩트를 읽어 서빙만 담당한다 (학습 파이프라인은 별도).

Usage:
  go run ./cmd/sage [command]

Examples:
  go run ./cmd/sage api
  go run ./cmd/sage seed
  go run ./cmd/sage status
  go run ./cmd/sage test-db
  go run ./cmd/sage test-logger`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
