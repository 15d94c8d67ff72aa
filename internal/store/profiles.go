package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sage/backend/internal/contracts"
)

// ProfileRepository handles student profile persistence
// ⭐ SSOT: 프로필 저장/조회는 여기서만
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByID retrieves a student profile
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*contracts.Profile, error) {
	query := `
		SELECT id, full_name, major, year, high_school_gpa, age, gender, created_at
		FROM profiles
		WHERE id = $1
	`

	var p contracts.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.FullName,
		&p.Major,
		&p.Year,
		&p.HighSchoolGPA,
		&p.Age,
		&p.Gender,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	return &p, nil
}

// Create inserts a new student profile
func (r *ProfileRepository) Create(ctx context.Context, p *contracts.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, major, year, high_school_gpa, age, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.FullName, p.Major, p.Year, p.HighSchoolGPA, p.Age, p.Gender,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile %s: %w", p.ID, err)
	}

	return nil
}
