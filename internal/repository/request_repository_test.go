package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
)

func TestRequestRepositoryApprove(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, user_name, course_id, course_title, status FROM requests WHERE id = $1 LIMIT 1`)).
		WithArgs("req1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_name", "course_id", "course_title", "status"}).
			AddRow("req1", "u1", "Aziza", "c1", "Go asoslari", "pending"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM requests WHERE id = $1`)).
		WithArgs("req1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT enrolled_courses FROM users WHERE id = $1 FOR UPDATE`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"enrolled_courses"}).AddRow(`["c0"]`))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET enrolled_courses = $2 WHERE id = $1`)).
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	request, err := repo.Approve(context.Background(), "req1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, request.Status)
	assert.Equal(t, "c1", request.CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryApproveMissingRequest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, user_name, course_id, course_title, status FROM requests WHERE id = $1 LIMIT 1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_name", "course_id", "course_title", "status"}))
	mock.ExpectRollback()

	_, err := repo.Approve(context.Background(), "missing")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
