package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
)

const courseListCacheKey = "courses:list"

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

// CreateCourseRequest represents payload for creating a course.
type CreateCourseRequest struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Subject     models.Subject `json:"subject" validate:"required"`
	Teacher     string         `json:"teacher" validate:"required"`
	SecretKey   string         `json:"secretKey" validate:"required,min=4"`
}

// CourseService handles course workflows with a read-through list cache.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates an instance of CourseService.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every course, served from cache when warm.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, courseListCacheKey, &cached); hit {
		return cached, nil
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	_ = s.cache.Set(ctx, courseListCacheKey, courses, 0)
	return courses, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !validSubject(req.Subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}

	course := &models.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Teacher:     req.Teacher,
		SecretKey:   req.SecretKey,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	_ = s.cache.Invalidate(ctx, courseListCacheKey)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("title", course.Title))
	return course, nil
}

func validSubject(subject models.Subject) bool {
	for _, s := range models.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
