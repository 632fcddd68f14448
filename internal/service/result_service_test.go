package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/export"
)

func intPtr(v int) *int { return &v }

func newResultFixture() (*ResultService, *mockResultRepo) {
	results := &mockResultRepo{created: []models.TaskResult{
		// Newest first: the re-submission for t1 overrides the older one.
		{ID: "r3", TaskID: "t1", UserID: "u1", CourseID: "c1", Grade: 90},
		{ID: "r2", TaskID: "t2", UserID: "u1", CourseID: "c1", Grade: 40, AdminGrade: intPtr(75)},
		{ID: "r1", TaskID: "t1", UserID: "u1", CourseID: "c1", Grade: 10},
	}}
	tasks := &mockTaskRepo{tasks: map[string]*models.CourseTask{
		"t1": {ID: "t1", CourseID: "c1", Title: "FizzBuzz", Order: 0},
		"t2": {ID: "t2", CourseID: "c1", Title: "Slicelar", Order: 1},
	}}
	users := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Username: "aziza", FirstName: "Aziza", LastName: "Karimova", EnrolledCourses: models.StringList{"c1"}},
		"u2": {ID: "u2", Username: "botir", FirstName: "Botir", EnrolledCourses: models.StringList{"c2"}},
	}}
	courses := &mockCourseRepo{courses: map[string]*models.Course{
		"c1": {ID: "c1", Title: "Go asoslari"},
	}}
	svc := NewResultService(results, tasks, users, courses,
		export.NewCSVExporter(), export.NewPDFExporter(), validator.New(), zap.NewNop())
	return svc, results
}

func TestGradingMatrixUsesEffectiveGrades(t *testing.T) {
	tasks := []models.CourseTask{
		{ID: "t1", CourseID: "c1", Title: "FizzBuzz"},
		{ID: "t2", CourseID: "c1", Title: "Slicelar"},
	}
	users := []models.User{
		{ID: "u1", Username: "aziza", FirstName: "Aziza", LastName: "Karimova", EnrolledCourses: models.StringList{"c1"}},
		{ID: "u2", Username: "botir", FirstName: "Botir", EnrolledCourses: models.StringList{"c2"}},
	}
	results := []models.TaskResult{
		{ID: "r2", TaskID: "t2", UserID: "u1", CourseID: "c1", Grade: 40, AdminGrade: intPtr(75)},
		{ID: "r1", TaskID: "t1", UserID: "u1", CourseID: "c1", Grade: 90},
	}

	dataset := buildGradingMatrix(tasks, users, results, "c1")
	require.Len(t, dataset.Rows, 1) // only the enrolled student
	row := dataset.Rows[0]
	assert.Equal(t, "Aziza Karimova", row["Student"])
	assert.Equal(t, "90", row["FizzBuzz"])
	assert.Equal(t, "75", row["Slicelar"]) // admin override wins
	assert.Equal(t, "82.5", row["Average"])
}

func TestExportGradingMatrixCSV(t *testing.T) {
	svc, _ := newResultFixture()

	file, err := svc.ExportGradingMatrix(context.Background(), "c1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "go-asoslari-grades.csv", file.Filename)

	content := string(file.Content)
	assert.True(t, strings.HasPrefix(content, "Student,FizzBuzz,Slicelar,Average"))
	assert.Contains(t, content, "Aziza Karimova,90,75,82.5")
	assert.NotContains(t, content, "Botir")
}

func TestExportGradingMatrixPDF(t *testing.T) {
	svc, _ := newResultFixture()

	file, err := svc.ExportGradingMatrix(context.Background(), "c1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, len(file.Content) > 0)
}

func TestExportGradingMatrixUnknownFormat(t *testing.T) {
	svc, _ := newResultFixture()

	_, err := svc.ExportGradingMatrix(context.Background(), "c1", "xlsx")
	require.Error(t, err)
}

func TestResultCreateStoresPostedRecord(t *testing.T) {
	svc, results := newResultFixture()

	stored, err := svc.Create(context.Background(), models.TaskResult{
		ID: "r9", TaskID: "t1", UserID: "u1", CourseID: "c1", Grade: 70,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResultStatusPending, stored.Status)
	assert.Equal(t, "r9", results.created[len(results.created)-1].ID)

	_, err = svc.Create(context.Background(), models.TaskResult{UserID: "u1"})
	require.Error(t, err)
}

func TestUpdateGradeMarksReviewed(t *testing.T) {
	svc, results := newResultFixture()

	require.NoError(t, svc.UpdateGrade(context.Background(), "r1", UpdateGradeRequest{AdminGrade: 55}))
	assert.Equal(t, 55, results.updated["r1"])

	err := svc.UpdateGrade(context.Background(), "r1", UpdateGradeRequest{AdminGrade: 120})
	require.Error(t, err)
}
