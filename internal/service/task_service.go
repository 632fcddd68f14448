package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
)

type taskRepository interface {
	List(ctx context.Context) ([]models.CourseTask, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.CourseTask, error)
	FindByID(ctx context.Context, id string) (*models.CourseTask, error)
	Create(ctx context.Context, task *models.CourseTask) error
	SetTimer(ctx context.Context, id string, timerEnd int64) error
}

// CreateTaskRequest represents payload for creating a task.
type CreateTaskRequest struct {
	CourseID           string `json:"courseId" validate:"required"`
	Title              string `json:"title" validate:"required"`
	Description        string `json:"description"`
	Order              int    `json:"order" validate:"gte=0"`
	IsClassTask        bool   `json:"isClassTask"`
	ValidationCriteria string `json:"validationCriteria"`
}

// StartTimerRequest represents payload for starting a class-task timer.
type StartTimerRequest struct {
	TimerEnd        int64 `json:"timerEnd"`
	DurationMinutes int   `json:"durationMinutes" validate:"gte=0"`
}

// TaskService handles course task workflows.
type TaskService struct {
	tasks     taskRepository
	courses   courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTaskService creates an instance of TaskService.
func NewTaskService(tasks taskRepository, courses courseRepository, validate *validator.Validate, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TaskService{tasks: tasks, courses: courses, validator: validate, logger: logger}
}

// List returns every task.
func (s *TaskService) List(ctx context.Context) ([]models.CourseTask, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	return tasks, nil
}

// ListByCourse returns the tasks of one course.
func (s *TaskService) ListByCourse(ctx context.Context, courseID string) ([]models.CourseTask, error) {
	tasks, err := s.tasks.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course tasks")
	}
	return tasks, nil
}

// Create adds a new task to a course.
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*models.CourseTask, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	task := &models.CourseTask{
		ID:                 uuid.NewString(),
		CourseID:           req.CourseID,
		Title:              req.Title,
		Description:        req.Description,
		Order:              req.Order,
		IsClassTask:        req.IsClassTask,
		ValidationCriteria: req.ValidationCriteria,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}

	s.logger.Info("task created", zap.String("task_id", task.ID), zap.String("course_id", task.CourseID))
	return task, nil
}

// StartTimer sets the submission deadline of a class task. Either an absolute
// epoch-ms deadline or a duration in minutes is accepted.
func (s *TaskService) StartTimer(ctx context.Context, taskID string, req StartTimerRequest) (*models.CourseTask, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timer payload")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}

	timerEnd := req.TimerEnd
	if timerEnd == 0 && req.DurationMinutes > 0 {
		timerEnd = time.Now().Add(time.Duration(req.DurationMinutes) * time.Minute).UnixMilli()
	}
	if timerEnd <= time.Now().UnixMilli() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "deadline must be in the future")
	}

	if err := s.tasks.SetTimer(ctx, taskID, timerEnd); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set timer")
	}
	task.TimerEnd = timerEnd
	return task, nil
}
