package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/sage/backend/internal/contracts"
)

// InteractionRepository handles the append-only interaction log
// ⭐ SSOT: 상호작용 로그 저장/조회는 여기서만
type InteractionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

// ListByStudent retrieves a student's full interaction log
func (r *InteractionRepository) ListByStudent(ctx context.Context, studentID string) ([]contracts.Interaction, error) {
	query := `
		SELECT id, student_id, course_id, event_type, value, created_at
		FROM interactions
		WHERE student_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []contracts.Interaction
	for rows.Next() {
		var i contracts.Interaction
		if err := rows.Scan(
			&i.ID, &i.StudentID, &i.CourseID, &i.EventType, &i.Value, &i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interactions: %w", err)
	}

	return interactions, nil
}

// Create appends an interaction event. Events are never updated or deleted.
func (r *InteractionRepository) Create(ctx context.Context, i *contracts.Interaction) error {
	query := `
		INSERT INTO interactions (student_id, course_id, event_type, value)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, i.StudentID, i.CourseID, i.EventType, i.Value)
	if err != nil {
		return fmt.Errorf("failed to create interaction: %w", err)
	}

	return nil
}
