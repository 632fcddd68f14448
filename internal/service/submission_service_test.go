package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/ai"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

type mockTaskRepo struct {
	tasks map[string]*models.CourseTask
}

func (m *mockTaskRepo) List(ctx context.Context) ([]models.CourseTask, error) {
	var tasks []models.CourseTask
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockTaskRepo) ListByCourse(ctx context.Context, courseID string) ([]models.CourseTask, error) {
	var tasks []models.CourseTask
	for _, t := range m.tasks {
		if t.CourseID == courseID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*models.CourseTask, error) {
	if task, ok := m.tasks[id]; ok {
		copy := *task
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTaskRepo) Create(ctx context.Context, task *models.CourseTask) error {
	if m.tasks == nil {
		m.tasks = make(map[string]*models.CourseTask)
	}
	copy := *task
	m.tasks[task.ID] = &copy
	return nil
}

func (m *mockTaskRepo) SetTimer(ctx context.Context, id string, timerEnd int64) error {
	if task, ok := m.tasks[id]; ok {
		task.TimerEnd = timerEnd
		return nil
	}
	return sql.ErrNoRows
}

type mockResultRepo struct {
	created []models.TaskResult
	updated map[string]int
}

func (m *mockResultRepo) List(ctx context.Context) ([]models.TaskResult, error) {
	return m.created, nil
}

func (m *mockResultRepo) ListByCourse(ctx context.Context, courseID string) ([]models.TaskResult, error) {
	var results []models.TaskResult
	for _, r := range m.created {
		if r.CourseID == courseID {
			results = append(results, r)
		}
	}
	return results, nil
}

func (m *mockResultRepo) Create(ctx context.Context, result *models.TaskResult) error {
	m.created = append(m.created, *result)
	return nil
}

func (m *mockResultRepo) UpdateGrade(ctx context.Context, id string, adminGrade int, status models.ResultStatus) error {
	if m.updated == nil {
		m.updated = make(map[string]int)
	}
	m.updated[id] = adminGrade
	return nil
}

type mockGrader struct {
	assessment ai.Assessment
	err        error
}

func (m *mockGrader) Grade(ctx context.Context, task models.CourseTask, answer string) (ai.Assessment, error) {
	if m.err != nil {
		return ai.Assessment{}, m.err
	}
	return m.assessment, nil
}

func newSubmissionFixture(graderErr error) (*SubmissionService, *mockResultRepo) {
	tasks := &mockTaskRepo{tasks: map[string]*models.CourseTask{
		"t1": {ID: "t1", CourseID: "c1", Title: "FizzBuzz"},
		"t2": {ID: "t2", CourseID: "c1", Title: "Timed", TimerEnd: time.Now().Add(-time.Minute).UnixMilli()},
	}}
	users := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "aziza", FirstName: "Aziza", LastName: "Karimova"},
	}}
	results := &mockResultRepo{}
	grader := &mockGrader{
		assessment: ai.Assessment{Result: "To'g'ri", Grade: 88, CognitiveImpact: 6, MarketabilityBoost: 4},
		err:        graderErr,
	}
	svc := NewSubmissionService(results, tasks, users, grader, nil, validator.New(), zap.NewNop())
	return svc, results
}

func TestSubmissionGradedAndStored(t *testing.T) {
	svc, results := newSubmissionFixture(nil)

	result, err := svc.Submit(context.Background(), SubmitRequest{TaskID: "t1", UserID: "u1", Answer: "kod"})
	require.NoError(t, err)
	assert.Equal(t, 88, result.Grade)
	assert.Equal(t, models.ResultStatusPending, result.Status)
	assert.Equal(t, "Aziza Karimova", result.UserName)
	assert.Equal(t, "c1", result.CourseID)
	require.Len(t, results.created, 1)
}

func TestSubmissionFallbackWhenGradingFails(t *testing.T) {
	svc, results := newSubmissionFixture(fmt.Errorf("model unavailable"))

	result, err := svc.Submit(context.Background(), SubmitRequest{TaskID: "t1", UserID: "u1", Answer: "kod"})
	require.NoError(t, err)
	assert.Zero(t, result.Grade)
	assert.Equal(t, models.ResultStatusFail, result.Status)
	assert.Equal(t, ai.FallbackApology, result.Result)
	require.Len(t, results.created, 1)
}

func TestSubmissionRejectedAfterDeadline(t *testing.T) {
	svc, results := newSubmissionFixture(nil)

	_, err := svc.Submit(context.Background(), SubmitRequest{TaskID: "t2", UserID: "u1", Answer: "kech"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline")
	assert.Empty(t, results.created)
}

func TestSubmissionUnknownTask(t *testing.T) {
	svc, _ := newSubmissionFixture(nil)

	_, err := svc.Submit(context.Background(), SubmitRequest{TaskID: "ghost", UserID: "u1", Answer: "kod"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}
