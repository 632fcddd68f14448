package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

// TaskRepository provides database access for course tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new instance of TaskRepository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, course_id, title, description, order_index, is_class_task, timer_end, validation_criteria`

// List returns every task ordered by matrix position.
func (r *TaskRepository) List(ctx context.Context) ([]models.CourseTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks ORDER BY course_id, order_index`, taskColumns)
	var tasks []models.CourseTask
	if err := r.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListByCourse returns the tasks of one course ordered by matrix position.
func (r *TaskRepository) ListByCourse(ctx context.Context, courseID string) ([]models.CourseTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE course_id = $1 ORDER BY order_index`, taskColumns)
	var tasks []models.CourseTask
	if err := r.db.SelectContext(ctx, &tasks, query, courseID); err != nil {
		return nil, fmt.Errorf("list tasks by course: %w", err)
	}
	return tasks, nil
}

// FindByID returns a task by identifier.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*models.CourseTask, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 LIMIT 1`, taskColumns)
	var task models.CourseTask
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	return &task, nil
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.CourseTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	const query = `INSERT INTO tasks (id, course_id, title, description, order_index, is_class_task, timer_end, validation_criteria)
		VALUES (:id, :course_id, :title, :description, :order_index, :is_class_task, :timer_end, :validation_criteria)`
	if _, err := r.db.NamedExecContext(ctx, query, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// SetTimer sets the submission deadline of a class task.
func (r *TaskRepository) SetTimer(ctx context.Context, id string, timerEnd int64) error {
	const query = `UPDATE tasks SET timer_end = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, timerEnd); err != nil {
		return fmt.Errorf("set task timer: %w", err)
	}
	return nil
}
