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

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetEnrolledCourses(ctx context.Context, id string, courses models.StringList) error
}

type recoveryMailer interface {
	SendPasswordRecovery(ctx context.Context, email, username, password string) bool
}

// RegisterUserRequest represents payload for account registration.
type RegisterUserRequest struct {
	Username    string          `json:"username" validate:"required,min=3"`
	Password    string          `json:"password" validate:"required,min=4"`
	FirstName   string          `json:"firstName" validate:"required"`
	LastName    string          `json:"lastName"`
	Grade       string          `json:"grade"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Role        models.UserRole `json:"role" validate:"omitempty,oneof=user admin parent"`
	ParentPhone string          `json:"parentPhone"`
}

// UpdateUserRequest represents payload for profile updates.
type UpdateUserRequest struct {
	Username    string            `json:"username" validate:"required,min=3"`
	Password    string            `json:"password"`
	FirstName   string            `json:"firstName" validate:"required"`
	LastName    string            `json:"lastName"`
	Grade       string            `json:"grade"`
	Email       string            `json:"email" validate:"omitempty,email"`
	Role        models.UserRole   `json:"role" validate:"omitempty,oneof=user admin parent"`
	Avatar      string            `json:"avatar"`
	ParentPhone string            `json:"parentPhone"`
	Enrolled    models.StringList `json:"enrolledCourses"`
}

// UserService handles account workflows.
type UserService struct {
	repo      userRepository
	mailer    recoveryMailer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, mailer recoveryMailer, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, mailer: mailer, validator: validate, logger: logger}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Register creates an account. Usernames are unique.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username uniqueness")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Username:        username,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Grade:           req.Grade,
		Email:           strings.ToLower(req.Email),
		Role:            role,
		EnrolledCourses: models.StringList{},
		ParentPhone:     req.ParentPhone,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Update replaces the mutable profile fields of an account.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Password != "" {
		user.Password = req.Password
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Grade = req.Grade
	user.Email = strings.ToLower(req.Email)
	if req.Role != "" {
		user.Role = req.Role
	}
	user.Avatar = req.Avatar
	user.ParentPhone = req.ParentPhone
	if req.Enrolled != nil {
		user.EnrolledCourses = req.Enrolled
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// RemoveFromCourse unenrolls a user from a course.
func (s *UserService) RemoveFromCourse(ctx context.Context, userID, courseID string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	kept := make(models.StringList, 0, len(user.EnrolledCourses))
	for _, c := range user.EnrolledCourses {
		if c != courseID {
			kept = append(kept, c)
		}
	}
	if err := s.repo.SetEnrolledCourses(ctx, userID, kept); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollments")
	}

	s.logger.Info("user unenrolled", zap.String("user_id", userID), zap.String("course_id", courseID))
	return nil
}

// RecoverPassword mails the stored credentials to the account's address.
// The response never reveals whether the address exists.
func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up account")
	}

	if s.mailer != nil && !s.mailer.SendPasswordRecovery(ctx, user.Email, user.Username, user.Password) {
		s.logger.Warn("password recovery mail not delivered", zap.String("user_id", user.ID))
	}
	return nil
}
