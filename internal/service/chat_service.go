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

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/jobs"
)

type messageRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.ChatMessage, error)
	Create(ctx context.Context, message *models.ChatMessage) error
}

// ChatTutor answers course chat questions. A nil ChatTutor disables replies.
type ChatTutor interface {
	ShouldReply(message models.ChatMessage) bool
	Reply(ctx context.Context, courseTitle string, history []models.ChatMessage, latest models.ChatMessage) (string, error)
}

// SendMessageRequest represents a chat message post.
type SendMessageRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

// ChatService handles course chat. Student questions are answered
// asynchronously by the AI tutor through a background queue, so a slow model
// never delays the student's own message.
type ChatService struct {
	messages  messageRepository
	users     userRepository
	courses   courseRepository
	tutor     ChatTutor
	metrics   *MetricsService
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService creates an instance of ChatService. A nil tutor disables
// automatic replies.
func NewChatService(messages messageRepository, users userRepository, courses courseRepository,
	tutor ChatTutor, metrics *MetricsService, workers int,
	validate *validator.Validate, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	s := &ChatService{
		messages: messages, users: users, courses: courses,
		tutor: tutor, metrics: metrics, validator: validate, logger: logger,
	}
	s.queue = jobs.NewQueue("tutor", s.handleTutorJob, jobs.QueueConfig{
		Workers: workers,
		Logger:  logger,
	})
	return s
}

// Start launches the tutor reply workers.
func (s *ChatService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the tutor reply workers.
func (s *ChatService) Stop() {
	s.queue.Stop()
}

// History returns one course's chat, oldest first.
func (s *ChatService) History(ctx context.Context, courseID string) ([]models.ChatMessage, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courseId is required")
	}
	messages, err := s.messages.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return messages, nil
}

// Send posts a message and, when it reads like a question, queues a tutor reply.
func (s *ChatService) Send(ctx context.Context, req SendMessageRequest) (*models.ChatMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	message := &models.ChatMessage{
		ID:         uuid.NewString(),
		CourseID:   req.CourseID,
		UserID:     user.ID,
		UserName:   strings.TrimSpace(user.FirstName + " " + user.LastName),
		UserAvatar: user.Avatar,
		Text:       req.Text,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store message")
	}

	if s.tutor != nil && s.tutor.ShouldReply(*message) {
		if err := s.queue.Enqueue(jobs.Job{ID: message.ID, Type: "tutor_reply", Payload: *message}); err != nil {
			s.logger.Warn("tutor reply not queued", zap.String("message_id", message.ID), zap.Error(err))
		}
	}
	return message, nil
}

func (s *ChatService) handleTutorJob(ctx context.Context, job jobs.Job) error {
	message, ok := job.Payload.(models.ChatMessage)
	if !ok {
		s.logger.Error("unexpected tutor job payload", zap.String("job_id", job.ID))
		return nil
	}

	courseTitle := ""
	if course, err := s.courses.FindByID(ctx, message.CourseID); err == nil {
		courseTitle = course.Title
	}
	history, err := s.messages.ListByCourse(ctx, message.CourseID)
	if err != nil {
		return err
	}

	answer, err := s.tutor.Reply(ctx, courseTitle, history, message)
	if err != nil {
		return err
	}

	reply := &models.ChatMessage{
		ID:        uuid.NewString(),
		CourseID:  message.CourseID,
		UserID:    models.TutorUserID,
		UserName:  "AI Ustoz",
		Text:      answer,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := s.messages.Create(ctx, reply); err != nil {
		return err
	}
	s.metrics.RecordTutorReply()
	return nil
}
