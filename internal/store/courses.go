package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sage/backend/internal/contracts"
)

// CourseRepository handles course catalog persistence
// ⭐ SSOT: 코스 저장/조회는 여기서만
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, code, title, description, credits, difficulty, topics, department`

// List retrieves all courses ordered by code
func (r *CourseRepository) List(ctx context.Context) ([]contracts.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []contracts.Course
	for rows.Next() {
		var c contracts.Course
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Title, &c.Description,
			&c.Credits, &c.Difficulty, &c.Topics, &c.Department,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// GetByID retrieves a single course
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*contracts.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	var c contracts.Course
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Code, &c.Title, &c.Description,
		&c.Credits, &c.Difficulty, &c.Topics, &c.Department,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", id, err)
	}

	return &c, nil
}

// GetByIDs retrieves courses by ID, keyed for lookup
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []string) (map[string]contracts.Course, error) {
	courses := make(map[string]contracts.Course, len(ids))
	if len(ids) == 0 {
		return courses, nil
	}

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c contracts.Course
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Title, &c.Description,
			&c.Credits, &c.Difficulty, &c.Topics, &c.Department,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, c *contracts.Course) error {
	query := `
		INSERT INTO courses (id, code, title, description, credits, difficulty, topics, department)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Code, c.Title, c.Description, c.Credits, c.Difficulty, c.Topics, c.Department,
	)
	if err != nil {
		return fmt.Errorf("failed to create course %s: %w", c.Code, err)
	}

	return nil
}
