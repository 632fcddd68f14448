package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

// MessageRepository provides database access for course chat messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, course_id, user_id, user_name, user_avatar, text, timestamp`

// ListByCourse returns one course's chat history, oldest first.
func (r *MessageRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ChatMessage, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE course_id = $1 ORDER BY timestamp`, messageColumns)
	var messages []models.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, courseID); err != nil {
		return nil, fmt.Errorf("list messages by course: %w", err)
	}
	return messages, nil
}

// Create inserts a new chat message.
func (r *MessageRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.Timestamp == 0 {
		message.Timestamp = time.Now().UnixMilli()
	}
	const query = `INSERT INTO messages (id, course_id, user_id, user_name, user_avatar, text, timestamp)
		VALUES (:id, :course_id, :user_id, :user_name, :user_avatar, :text, :timestamp)`
	if _, err := r.db.NamedExecContext(ctx, query, message); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}
