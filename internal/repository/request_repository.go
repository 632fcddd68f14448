package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

// RequestRepository provides database access for enrollment requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, user_id, user_name, course_id, course_title, status`

// List returns every pending enrollment request.
func (r *RequestRepository) List(ctx context.Context) ([]models.EnrollmentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests ORDER BY id`, requestColumns)
	var requests []models.EnrollmentRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// FindByID returns a request by identifier.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.EnrollmentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 LIMIT 1`, requestColumns)
	var request models.EnrollmentRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find request by id: %w", err)
	}
	return &request, nil
}

// Create inserts a new request.
func (r *RequestRepository) Create(ctx context.Context, request *models.EnrollmentRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	const query = `INSERT INTO requests (id, user_id, user_name, course_id, course_title, status)
		VALUES (:id, :user_id, :user_name, :course_id, :course_title, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// Approve grants a request atomically: the request row is removed and the
// course id is appended to the user's enrollment list in one transaction.
func (r *RequestRepository) Approve(ctx context.Context, id string) (*models.EnrollmentRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approve: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 LIMIT 1`, requestColumns)
	var request models.EnrollmentRequest
	if err := tx.GetContext(ctx, &request, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find request for approval: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete approved request: %w", err)
	}

	var enrolled models.StringList
	if err := tx.QueryRowContext(ctx, `SELECT enrolled_courses FROM users WHERE id = $1 FOR UPDATE`, request.UserID).
		Scan(&enrolled); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock user enrollments: %w", err)
	}
	enrolled = append(enrolled, request.CourseID)
	if _, err := tx.ExecContext(ctx, `UPDATE users SET enrolled_courses = $2 WHERE id = $1`, request.UserID, enrolled); err != nil {
		return nil, fmt.Errorf("append enrollment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approve: %w", err)
	}
	request.Status = models.RequestStatusApproved
	return &request, nil
}
