// Package ai holds the OpenAI-backed grader and course tutor.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
)

const graderSystemPrompt = `You are a strict but encouraging programming instructor grading a student's submission.
Assess the answer against the task description and the validation criteria.
Respond with JSON only, using exactly these keys:
{
  "result": "one-line verdict in Uzbek",
  "errors": "what is wrong, in Uzbek, empty string if nothing",
  "solution": "a correct reference solution",
  "explanation": "why the solution works, in Uzbek",
  "mistakePatterns": ["short tags naming each mistake class"],
  "grade": 0-100,
  "cognitiveImpact": 0-10,
  "marketabilityBoost": 0-10
}`

// FallbackApology is posted verbatim when the grader cannot assess a
// submission. The submission is still recorded so an admin can review it.
const FallbackApology = "Kechirasiz, hozir javobingizni baholay olmadim. Ustoz tez orada qo'lda tekshiradi."

// Assessment is the grader's verdict on one submission.
type Assessment struct {
	Result             string   `json:"result"`
	Errors             string   `json:"errors"`
	Solution           string   `json:"solution"`
	Explanation        string   `json:"explanation"`
	MistakePatterns    []string `json:"mistakePatterns"`
	Grade              int      `json:"grade"`
	CognitiveImpact    int      `json:"cognitiveImpact"`
	MarketabilityBoost int      `json:"marketabilityBoost"`
}

// Fallback is the sentinel assessment used when grading fails: zero grade,
// apology text, flagged for manual review.
func Fallback() Assessment {
	return Assessment{
		Result:      FallbackApology,
		Explanation: FallbackApology,
		Grade:       0,
	}
}

// Grader assesses submissions with a chat-completion model.
type Grader struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewGrader builds a grader from the AI configuration.
func NewGrader(cfg config.AIConfig, logger *zap.Logger) *Grader {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Grader{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Grade assesses a student answer against its task. Any failure, transport
// or parse, yields an error; callers substitute Fallback.
func (g *Grader) Grade(ctx context.Context, task models.CourseTask, answer string) (Assessment, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", task.Description)
	}
	if task.ValidationCriteria != "" {
		fmt.Fprintf(&sb, "Validation criteria: %s\n", task.ValidationCriteria)
	}
	fmt.Fprintf(&sb, "\nStudent answer:\n%s", answer)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: graderSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("grade submission: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Assessment{}, fmt.Errorf("grade submission: empty completion")
	}

	var assessment Assessment
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &assessment); err != nil {
		g.logger.Warn("unparseable grader verdict", zap.Error(err))
		return Assessment{}, fmt.Errorf("parse verdict: %w", err)
	}
	if assessment.Grade < 0 {
		assessment.Grade = 0
	}
	if assessment.Grade > 100 {
		assessment.Grade = 100
	}
	return assessment, nil
}
