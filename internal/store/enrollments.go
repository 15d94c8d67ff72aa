package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sage/backend/internal/contracts"
)

// EnrollmentRepository handles enrollment persistence
// ⭐ SSOT: 수강 기록 저장/조회는 여기서만
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

const enrollmentColumns = `id, student_id, course_id, semester, year, grade, letter_grade,
		status, attendance_rate, assignment_completion_rate`

func scanEnrollments(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]contracts.Enrollment, error) {
	var enrollments []contracts.Enrollment
	for rows.Next() {
		var e contracts.Enrollment
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Semester, &e.Year,
			&e.Grade, &e.LetterGrade, &e.Status,
			&e.AttendanceRate, &e.AssignmentCompletionRate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}

	return enrollments, nil
}

// ListByStudent retrieves all enrollments for a student
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]contracts.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE student_id = $1
		ORDER BY year, semester
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

// ListCompletedByStudent retrieves only completed enrollments, the input
// for historical feature aggregation and the user-item matrix semantics
func (r *EnrollmentRepository) ListCompletedByStudent(ctx context.Context, studentID string) ([]contracts.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE student_id = $1 AND status = $2
		ORDER BY year, semester
	`

	rows, err := r.pool.Query(ctx, query, studentID, contracts.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed enrollments: %w", err)
	}
	defer rows.Close()

	return scanEnrollments(rows)
}

// CourseIDsByStudent retrieves the distinct course IDs a student has
// enrolled in, regardless of status
func (r *EnrollmentRepository) CourseIDsByStudent(ctx context.Context, studentID string) ([]string, error) {
	query := `
		SELECT DISTINCT course_id
		FROM enrollments
		WHERE student_id = $1
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled course ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan course id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course ids: %w", err)
	}

	return ids, nil
}

// Insert stores a complete enrollment record as-is, including grade and
// status. Used by the seed fixtures; the API path goes through Create.
func (r *EnrollmentRepository) Insert(ctx context.Context, e *contracts.Enrollment) error {
	query := `
		INSERT INTO enrollments
			(student_id, course_id, semester, year, grade, letter_grade, status,
			 attendance_rate, assignment_completion_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		e.StudentID, e.CourseID, e.Semester, e.Year,
		e.Grade, e.LetterGrade, e.Status,
		e.AttendanceRate, e.AssignmentCompletionRate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}

	return nil
}

// Create inserts a new in-progress enrollment and returns the stored record
func (r *EnrollmentRepository) Create(ctx context.Context, e *contracts.Enrollment) (*contracts.Enrollment, error) {
	query := `
		INSERT INTO enrollments
			(student_id, course_id, semester, year, status, attendance_rate, assignment_completion_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		e.StudentID, e.CourseID, e.Semester, e.Year,
		contracts.StatusInProgress, e.AttendanceRate, e.AssignmentCompletionRate,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	e.Status = contracts.StatusInProgress
	return e, nil
}
