package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/ai"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
)

type grader interface {
	Grade(ctx context.Context, task models.CourseTask, answer string) (ai.Assessment, error)
}

// SubmitRequest represents a student answer to a task.
type SubmitRequest struct {
	TaskID string `json:"taskId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	Answer string `json:"answer" validate:"required"`
}

// SubmissionService grades student answers and records the results. A failed
// grading call never loses the submission: it is stored with a zero grade and
// flagged for manual review.
type SubmissionService struct {
	results   resultRepository
	tasks     taskRepository
	users     userRepository
	grader    grader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubmissionService creates an instance of SubmissionService.
func NewSubmissionService(results resultRepository, tasks taskRepository, users userRepository,
	grader grader, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{
		results: results, tasks: tasks, users: users,
		grader: grader, metrics: metrics, validator: validate, logger: logger,
	}
}

// Submit grades an answer and stores the resulting record.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (*models.TaskResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	task, err := s.tasks.FindByID(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	if task.TimerEnd > 0 && time.Now().UnixMilli() > task.TimerEnd {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission deadline has passed")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	status := models.ResultStatusPending
	start := time.Now()
	assessment, gradeErr := s.grader.Grade(ctx, *task, req.Answer)
	s.metrics.ObserveGrading(time.Since(start))
	if gradeErr != nil {
		s.logger.Warn("grading failed, storing fallback verdict",
			zap.String("task_id", task.ID), zap.String("user_id", user.ID), zap.Error(gradeErr))
		assessment = ai.Fallback()
		status = models.ResultStatusFail
	}

	result := &models.TaskResult{
		ID:                 uuid.NewString(),
		TaskID:             task.ID,
		UserID:             user.ID,
		UserName:           strings.TrimSpace(user.FirstName + " " + user.LastName),
		CourseID:           task.CourseID,
		StudentAnswer:      req.Answer,
		Result:             assessment.Result,
		Errors:             assessment.Errors,
		Solution:           assessment.Solution,
		Explanation:        assessment.Explanation,
		MistakePatterns:    assessment.MistakePatterns,
		Grade:              assessment.Grade,
		CognitiveImpact:    assessment.CognitiveImpact,
		MarketabilityBoost: assessment.MarketabilityBoost,
		Status:             status,
		Timestamp:          time.Now().UnixMilli(),
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store result")
	}

	return result, nil
}
