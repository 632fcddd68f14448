package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/repository"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/config"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/export"
)

// newResultTestRouter mounts the full route table so missing registrations
// surface as 404s rather than silently passing.
func newResultTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	svc := service.NewResultService(
		repository.NewResultRepository(sqlxDB),
		repository.NewTaskRepository(sqlxDB),
		repository.NewUserRepository(sqlxDB),
		repository.NewCourseRepository(sqlxDB),
		export.NewCSVExporter(), export.NewPDFExporter(), nil, zap.NewNop())

	r := NewRouter(&config.Config{APIPrefix: "/api"}, zap.NewNop(), Handlers{
		Results: NewResultHandler(svc),
		Metrics: service.NewMetricsService(nil),
	})
	return r, mock
}

func TestResultCreateRoutedAndAcknowledged(t *testing.T) {
	r, mock := newResultTestRouter(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO results`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payload := `{"id":"r1","taskId":"t1","userId":"u1","userName":"Aziza Karimova","courseId":"c1",` +
		`"studentAnswer":"func main() {}","result":"pass","grade":88,"status":"pending","timestamp":1700000000000}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/results", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultCreateRejectsIncompleteRecord(t *testing.T) {
	r, _ := newResultTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/results", strings.NewReader(`{"userId":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}
