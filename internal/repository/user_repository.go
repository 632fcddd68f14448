package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

// UserRepository provides database access for platform accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password, first_name, last_name, grade, email, role, enrolled_courses, avatar, parent_phone`

// List returns every account.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY username`, userColumns)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsername returns a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = models.StringList{}
	}
	const query = `INSERT INTO users (id, username, password, first_name, last_name, grade, email, role, enrolled_courses, avatar, parent_phone)
		VALUES (:id, :username, :password, :first_name, :last_name, :grade, :email, :role, :enrolled_courses, :avatar, :parent_phone)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update replaces the mutable profile fields of an account.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	const query = `UPDATE users SET username = :username, password = :password, first_name = :first_name,
		last_name = :last_name, grade = :grade, email = :email, role = :role,
		enrolled_courses = :enrolled_courses, avatar = :avatar, parent_phone = :parent_phone
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// SetEnrolledCourses replaces the enrollment list of an account.
func (r *UserRepository) SetEnrolledCourses(ctx context.Context, id string, courses models.StringList) error {
	const query = `UPDATE users SET enrolled_courses = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, courses); err != nil {
		return fmt.Errorf("set enrolled courses: %w", err)
	}
	return nil
}
