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

type mockUserRepo struct {
	users   map[string]*models.User
	listErr error
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) SetEnrolledCourses(ctx context.Context, id string, courses models.StringList) error {
	if user, ok := m.users[id]; ok {
		user.EnrolledCourses = courses
		return nil
	}
	return sql.ErrNoRows
}

type mockMailer struct {
	recoveries []string
	ok         bool
}

func (m *mockMailer) SendPasswordRecovery(ctx context.Context, email, username, password string) bool {
	m.recoveries = append(m.recoveries, email)
	return m.ok
}

func TestUserServiceRegister(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	user, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "Aziza", Password: "sirli", FirstName: "Aziza", LastName: "Karimova",
	})
	require.NoError(t, err)
	assert.Equal(t, "aziza", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotNil(t, user.EnrolledCourses)
	assert.NotEmpty(t, user.ID)
}

func TestUserServiceRegisterDuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "aziza"},
	}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterUserRequest{
		Username: "aziza", Password: "sirli", FirstName: "Aziza",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already exists")
}

func TestUserServiceRegisterValidation(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterUserRequest{Username: "az"})
	require.Error(t, err)
}

func TestUserServiceRemoveFromCourse(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "aziza", EnrolledCourses: models.StringList{"c1", "c2"}},
	}}
	svc := NewUserService(repo, nil, validator.New(), zap.NewNop())

	require.NoError(t, svc.RemoveFromCourse(context.Background(), "u1", "c1"))
	assert.Equal(t, models.StringList{"c2"}, repo.users["u1"].EnrolledCourses)
}

func TestUserServiceRecoverPassword(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "aziza", Email: "aziza@example.uz", Password: "sirli"},
	}}
	mailer := &mockMailer{ok: true}
	svc := NewUserService(repo, mailer, validator.New(), zap.NewNop())

	require.NoError(t, svc.RecoverPassword(context.Background(), "Aziza@example.uz"))
	require.Len(t, mailer.recoveries, 1)

	// Unknown addresses are not revealed.
	require.NoError(t, svc.RecoverPassword(context.Background(), "ghost@example.uz"))
	assert.Len(t, mailer.recoveries, 1)
}
