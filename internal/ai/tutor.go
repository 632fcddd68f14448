package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
)

const tutorSystemPrompt = `You are "AI Ustoz", a friendly teaching assistant inside a course chat.
Answer the student's latest message briefly and helpfully, in Uzbek.
Stay on the course topic; if the question is off-topic, redirect politely.`

// helpKeywords trigger a tutor reply even without a question mark.
var helpKeywords = []string{"yordam", "tushunmadim", "qanday", "nima uchun", "xato", "help"}

// Tutor answers student questions in course chats.
type Tutor struct {
	client       *openai.Client
	model        string
	historyLimit int
	logger       *zap.Logger
}

// NewTutor builds a tutor from the AI and tutor configuration.
func NewTutor(aiCfg config.AIConfig, tutorCfg config.TutorConfig, logger *zap.Logger) *Tutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(aiCfg.APIKey)
	if aiCfg.BaseURL != "" {
		clientCfg.BaseURL = aiCfg.BaseURL
	}
	limit := tutorCfg.HistoryLimit
	if limit <= 0 {
		limit = 10
	}
	return &Tutor{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        aiCfg.Model,
		historyLimit: limit,
		logger:       logger,
	}
}

// ShouldReply reports whether a message warrants a tutor answer: a direct
// question or a recognized plea for help. Tutor messages never re-trigger.
func (t *Tutor) ShouldReply(message models.ChatMessage) bool {
	if message.FromTutor() {
		return false
	}
	text := strings.ToLower(message.Text)
	if strings.Contains(text, "?") {
		return true
	}
	for _, kw := range helpKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Reply generates a tutor answer to the latest message, given a bounded
// window of recent chat history for context.
func (t *Tutor) Reply(ctx context.Context, courseTitle string, history []models.ChatMessage, latest models.ChatMessage) (string, error) {
	if len(history) > t.historyLimit {
		history = history[len(history)-t.historyLimit:]
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: tutorSystemPrompt + "\nCourse: " + courseTitle},
	}
	for _, msg := range history {
		role := openai.ChatMessageRoleUser
		if msg.FromTutor() {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: fmt.Sprintf("%s: %s", msg.UserName, msg.Text),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("%s: %s", latest.UserName, latest.Text),
	})

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0.7,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("tutor reply: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("tutor reply: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
