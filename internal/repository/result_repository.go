package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

// ResultRepository provides database access for graded submissions.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new instance of ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

const resultColumns = `id, task_id, user_id, user_name, course_id, student_answer, result, errors, solution, explanation,
	mistake_patterns, grade, admin_grade, cognitive_impact, marketability_boost, status, timestamp`

// List returns every result, newest first.
func (r *ResultRepository) List(ctx context.Context) ([]models.TaskResult, error) {
	query := fmt.Sprintf(`SELECT %s FROM results ORDER BY timestamp DESC`, resultColumns)
	var results []models.TaskResult
	if err := r.db.SelectContext(ctx, &results, query); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// ListByCourse returns the results of one course, newest first.
func (r *ResultRepository) ListByCourse(ctx context.Context, courseID string) ([]models.TaskResult, error) {
	query := fmt.Sprintf(`SELECT %s FROM results WHERE course_id = $1 ORDER BY timestamp DESC`, resultColumns)
	var results []models.TaskResult
	if err := r.db.SelectContext(ctx, &results, query, courseID); err != nil {
		return nil, fmt.Errorf("list results by course: %w", err)
	}
	return results, nil
}

// Create inserts a new result.
func (r *ResultRepository) Create(ctx context.Context, result *models.TaskResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Timestamp == 0 {
		result.Timestamp = time.Now().UnixMilli()
	}
	if result.MistakePatterns == nil {
		result.MistakePatterns = models.StringList{}
	}
	const query = `INSERT INTO results (id, task_id, user_id, user_name, course_id, student_answer, result, errors, solution, explanation,
			mistake_patterns, grade, admin_grade, cognitive_impact, marketability_boost, status, timestamp)
		VALUES (:id, :task_id, :user_id, :user_name, :course_id, :student_answer, :result, :errors, :solution, :explanation,
			:mistake_patterns, :grade, :admin_grade, :cognitive_impact, :marketability_boost, :status, :timestamp)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

// UpdateGrade applies an admin override and review status to a result.
func (r *ResultRepository) UpdateGrade(ctx context.Context, id string, adminGrade int, status models.ResultStatus) error {
	const query = `UPDATE results SET admin_grade = $2, status = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, adminGrade, status); err != nil {
		return fmt.Errorf("update result grade: %w", err)
	}
	return nil
}
