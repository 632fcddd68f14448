package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
)

type requestRepository interface {
	List(ctx context.Context) ([]models.EnrollmentRequest, error)
	Create(ctx context.Context, request *models.EnrollmentRequest) error
	Approve(ctx context.Context, id string) (*models.EnrollmentRequest, error)
}

// CreateRequestRequest represents payload for filing an enrollment request.
type CreateRequestRequest struct {
	UserID    string `json:"userId" validate:"required"`
	CourseID  string `json:"courseId" validate:"required"`
	SecretKey string `json:"secretKey" validate:"required"`
}

// RequestService handles enrollment request workflows.
type RequestService struct {
	requests  requestRepository
	users     userRepository
	courses   courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService creates an instance of RequestService.
func NewRequestService(requests requestRepository, users userRepository, courses courseRepository,
	validate *validator.Validate, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RequestService{requests: requests, users: users, courses: courses, validator: validate, logger: logger}
}

// List returns every pending enrollment request.
func (s *RequestService) List(ctx context.Context) ([]models.EnrollmentRequest, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// Create files an enrollment request after checking the course join code.
// Names and titles are snapshotted so the request renders without joins.
func (s *RequestService) Create(ctx context.Context, req CreateRequestRequest) (*models.EnrollmentRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if course.SecretKey != req.SecretKey {
		return nil, appErrors.Clone(appErrors.ErrValidation, "wrong join code")
	}
	if user.EnrolledCourses.Contains(course.ID) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already enrolled")
	}

	request := &models.EnrollmentRequest{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		UserName:    strings.TrimSpace(user.FirstName + " " + user.LastName),
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Status:      models.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}

	s.logger.Info("enrollment requested", zap.String("request_id", request.ID), zap.String("course_id", course.ID))
	return request, nil
}

// Approve grants a request: it disappears from the pending list and the
// course lands in the user's enrollments.
func (s *RequestService) Approve(ctx context.Context, id string) (*models.EnrollmentRequest, error) {
	request, err := s.requests.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve request")
	}

	s.logger.Info("enrollment approved",
		zap.String("request_id", request.ID),
		zap.String("user_id", request.UserID),
		zap.String("course_id", request.CourseID))
	return request, nil
}
