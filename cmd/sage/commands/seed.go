package commands

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/wonny/sage/backend/internal/contracts"
	"github.com/wonny/sage/backend/internal/ml"
	"github.com/wonny/sage/backend/internal/store"
	"github.com/wonny/sage/backend/pkg/config"
	"github.com/wonny/sage/backend/pkg/database"
	"github.com/wonny/sage/backend/pkg/logger"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "개발용 샘플 데이터 생성",
	Long: `로컬 개발용 샘플 데이터를 생성합니다.

이 명령어는:
- 코스 카탈로그 생성
- 학생 프로필 생성
- 수강 기록 생성 (난이도별 기준 성적 + 학생 능력치)
- 상호작용 이벤트 생성

학습 파이프라인이 아님: 모델 아티팩트는 별도로 생성해야 함.

Example:
  go run ./cmd/sage seed
  go run ./cmd/sage seed --students 100`,
	RunE: runSeed,
}

var (
	seedStudents              int
	seedEnrollmentsPerStudent int
	seedRandomSeed            int64
)

func init() {
	rootCmd.AddCommand(seedCmd)

	// Flags
	seedCmd.Flags().IntVar(&seedStudents, "students", 50, "생성할 학생 수")
	seedCmd.Flags().IntVar(&seedEnrollmentsPerStudent, "enrollments", 8, "학생당 수강 기록 수")
	seedCmd.Flags().Int64Var(&seedRandomSeed, "seed", 42, "난수 시드 (결정적 데이터)")
}

// difficultyBaseGrades sets the expected grade level per course difficulty
var difficultyBaseGrades = map[string]float64{
	contracts.DifficultyBeginner:     3.2,
	contracts.DifficultyIntermediate: 2.8,
	contracts.DifficultyAdvanced:     2.5,
}

var seedCourses = []contracts.Course{
	{ID: "course-cs101", Code: "CS101", Title: "Introduction to Programming", Description: "Programming fundamentals with Python", Credits: 3, Difficulty: contracts.DifficultyBeginner, Topics: []string{"programming", "python", "basics"}, Department: "Computer Science"},
	{ID: "course-cs201", Code: "CS201", Title: "Data Structures", Description: "Core data structures and algorithms", Credits: 4, Difficulty: contracts.DifficultyIntermediate, Topics: []string{"algorithms", "data structures", "complexity"}, Department: "Computer Science"},
	{ID: "course-cs301", Code: "CS301", Title: "Machine Learning", Description: "Supervised and unsupervised learning", Credits: 4, Difficulty: contracts.DifficultyAdvanced, Topics: []string{"machine learning", "statistics", "python"}, Department: "Computer Science"},
	{ID: "course-ma101", Code: "MA101", Title: "Calculus I", Description: "Limits, derivatives and integrals", Credits: 4, Difficulty: contracts.DifficultyBeginner, Topics: []string{"calculus", "mathematics"}, Department: "Mathematics"},
	{ID: "course-ma201", Code: "MA201", Title: "Linear Algebra", Description: "Vector spaces and linear maps", Credits: 3, Difficulty: contracts.DifficultyIntermediate, Topics: []string{"linear algebra", "mathematics", "matrices"}, Department: "Mathematics"},
	{ID: "course-st201", Code: "ST201", Title: "Probability & Statistics", Description: "Probability theory and statistical inference", Credits: 3, Difficulty: contracts.DifficultyIntermediate, Topics: []string{"statistics", "probability", "mathematics"}, Department: "Mathematics"},
	{ID: "course-ph101", Code: "PH101", Title: "Physics I", Description: "Classical mechanics", Credits: 4, Difficulty: contracts.DifficultyBeginner, Topics: []string{"physics", "mechanics"}, Department: "Physics"},
	{ID: "course-bu101", Code: "BU101", Title: "Principles of Management", Description: "Introduction to management practice", Credits: 3, Difficulty: contracts.DifficultyBeginner, Topics: []string{"management", "business"}, Department: "Business"},
	{ID: "course-bu301", Code: "BU301", Title: "Financial Analysis", Description: "Corporate finance and valuation", Credits: 4, Difficulty: contracts.DifficultyAdvanced, Topics: []string{"finance", "business", "statistics"}, Department: "Business"},
	{ID: "course-ec201", Code: "EC201", Title: "Microeconomics", Description: "Markets, pricing and incentives", Credits: 3, Difficulty: contracts.DifficultyIntermediate, Topics: []string{"economics", "markets"}, Department: "Economics"},
}

var seedMajors = []string{"Computer Science", "Mathematics", "Physics", "Business", "Economics"}
var seedGenders = []string{"M", "F", "Other"}
var seedSemesters = []string{"Fall", "Spring"}
var seedEventTypes = []string{"video_watch", "forum_post", "assignment_submit", "quiz_attempt"}

func runSeed(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sage Sample Data Generator ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(seedRandomSeed))

	profileRepo := store.NewProfileRepository(db.Pool)
	courseRepo := store.NewCourseRepository(db.Pool)
	enrollmentRepo := store.NewEnrollmentRepository(db.Pool)
	interactionRepo := store.NewInteractionRepository(db.Pool)

	// 1. Course catalog
	fmt.Printf("Creating %d courses...\n", len(seedCourses))
	for i := range seedCourses {
		if err := courseRepo.Create(ctx, &seedCourses[i]); err != nil {
			// Duplicates on reseed are fine
			log.WithError(err).WithField("course", seedCourses[i].Code).Debug("Course insert skipped")
		}
	}

	// 2. Students with histories
	fmt.Printf("Creating %d students...\n", seedStudents)
	for n := 1; n <= seedStudents; n++ {
		age := 18 + rng.Intn(8)
		profile := &contracts.Profile{
			ID:            fmt.Sprintf("student-%04d", n),
			FullName:      fmt.Sprintf("Student %d", n),
			Major:         seedMajors[rng.Intn(len(seedMajors))],
			Year:          1 + rng.Intn(4),
			HighSchoolGPA: round2(2.5 + rng.Float64()*1.5),
			Age:           &age,
			Gender:        seedGenders[rng.Intn(len(seedGenders))],
		}

		if err := profileRepo.Create(ctx, profile); err != nil {
			log.WithError(err).WithField("student", profile.ID).Debug("Profile insert skipped")
			continue
		}

		// Student-level ability offset keeps one student's grades correlated
		ability := rng.Float64() - 0.5

		courseOrder := rng.Perm(len(seedCourses))
		take := seedEnrollmentsPerStudent
		if take > len(seedCourses) {
			take = len(seedCourses)
		}

		var taken []contracts.Course
		for i := 0; i < take; i++ {
			course := seedCourses[courseOrder[i]]
			taken = append(taken, course)

			base, ok := difficultyBaseGrades[course.Difficulty]
			if !ok {
				base = 2.8
			}

			grade := base + ability + (rng.Float64()*0.6 - 0.3)
			grade = math.Max(0.0, math.Min(4.0, grade))

			attendance := 70 + rng.Float64()*30
			completion := 60 + rng.Float64()*40
			if grade > 3.0 {
				attendance = 85 + rng.Float64()*15
				completion = 85 + rng.Float64()*15
			} else if grade < 2.0 {
				attendance = 50 + rng.Float64()*25
				completion = 50 + rng.Float64()*25
			}
			attendance = round1(attendance)
			completion = round1(completion)

			status := contracts.StatusCompleted
			if i >= take-2 && rng.Intn(2) == 0 {
				status = contracts.StatusInProgress
			}

			enrollment := &contracts.Enrollment{
				StudentID:                profile.ID,
				CourseID:                 course.ID,
				Semester:                 seedSemesters[rng.Intn(len(seedSemesters))],
				Year:                     2023 + rng.Intn(2),
				Status:                   status,
				AttendanceRate:           &attendance,
				AssignmentCompletionRate: &completion,
			}
			if status == contracts.StatusCompleted {
				g := round2(grade)
				letter := ml.LetterGrade(g)
				enrollment.Grade = &g
				enrollment.LetterGrade = &letter
			}

			if err := enrollmentRepo.Insert(ctx, enrollment); err != nil {
				log.WithError(err).WithFields(map[string]interface{}{
					"student": profile.ID,
					"course":  course.Code,
				}).Debug("Enrollment insert skipped")
			}
		}

		// 3. Interaction log over the taken courses
		numInteractions := 10 + rng.Intn(41)
		for i := 0; i < numInteractions; i++ {
			interaction := &contracts.Interaction{
				StudentID: profile.ID,
				CourseID:  taken[rng.Intn(len(taken))].ID,
				EventType: seedEventTypes[rng.Intn(len(seedEventTypes))],
				Value:     round1(1 + rng.Float64()*119),
			}

			if err := interactionRepo.Create(ctx, interaction); err != nil {
				log.WithError(err).WithField("student", profile.ID).Debug("Interaction insert skipped")
			}
		}

		if n%10 == 0 {
			fmt.Printf("  ✓ %d/%d students\n", n, seedStudents)
		}
	}

	fmt.Println("\n✅ Sample data generation complete!")
	fmt.Printf("  - %d courses\n", len(seedCourses))
	fmt.Printf("  - %d students\n", seedStudents)
	fmt.Printf("  - ~%d enrollments\n", seedStudents*seedEnrollmentsPerStudent)
	fmt.Println("  - Interaction data generated")
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
