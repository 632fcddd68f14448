package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

type mockRequestRepo struct {
	requests map[string]*models.EnrollmentRequest
	users    *mockUserRepo
}

func (m *mockRequestRepo) List(ctx context.Context) ([]models.EnrollmentRequest, error) {
	var requests []models.EnrollmentRequest
	for _, r := range m.requests {
		requests = append(requests, *r)
	}
	return requests, nil
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.EnrollmentRequest) error {
	if m.requests == nil {
		m.requests = make(map[string]*models.EnrollmentRequest)
	}
	copy := *request
	m.requests[request.ID] = &copy
	return nil
}

func (m *mockRequestRepo) Approve(ctx context.Context, id string) (*models.EnrollmentRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.requests, id)
	if user, exists := m.users.users[request.UserID]; exists {
		user.EnrolledCourses = append(user.EnrolledCourses, request.CourseID)
	}
	granted := *request
	granted.Status = models.RequestStatusApproved
	return &granted, nil
}

func newRequestFixture() (*RequestService, *mockRequestRepo, *mockUserRepo) {
	users := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "aziza", FirstName: "Aziza", LastName: "Karimova", EnrolledCourses: models.StringList{}},
	}}
	courses := &mockCourseRepo{courses: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Go asoslari", SecretKey: "go2024"},
	}}
	requests := &mockRequestRepo{users: users}
	svc := NewRequestService(requests, users, courses, validator.New(), zap.NewNop())
	return svc, requests, users
}

func TestRequestCreateChecksJoinCode(t *testing.T) {
	svc, _, _ := newRequestFixture()

	_, err := svc.Create(context.Background(), CreateRequestRequest{UserID: "u1", CourseID: "c1", SecretKey: "xato"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong join code")
}

func TestRequestCreateSnapshotsNames(t *testing.T) {
	svc, requests, _ := newRequestFixture()

	request, err := svc.Create(context.Background(), CreateRequestRequest{UserID: "u1", CourseID: "c1", SecretKey: "go2024"})
	require.NoError(t, err)
	assert.Equal(t, "Aziza Karimova", request.UserName)
	assert.Equal(t, "Go asoslari", request.CourseTitle)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Len(t, requests.requests, 1)
}

func TestRequestCreateRejectsEnrolled(t *testing.T) {
	svc, _, users := newRequestFixture()
	users.users["u1"].EnrolledCourses = models.StringList{"c1"}

	_, err := svc.Create(context.Background(), CreateRequestRequest{UserID: "u1", CourseID: "c1", SecretKey: "go2024"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already enrolled")
}

func TestRequestApprove(t *testing.T) {
	svc, requests, users := newRequestFixture()
	requests.Create(context.Background(), &models.EnrollmentRequest{
		ID: "req1", UserID: "u1", CourseID: "c1", Status: models.RequestStatusPending,
	})

	granted, err := svc.Approve(context.Background(), "req1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, granted.Status)
	assert.Empty(t, requests.requests)
	assert.True(t, users.users["u1"].EnrolledCourses.Contains("c1"))
}

func TestRequestApproveMissing(t *testing.T) {
	svc, _, _ := newRequestFixture()

	_, err := svc.Approve(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request not found")
}
