package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/export"
)

type resultRepository interface {
	List(ctx context.Context) ([]models.TaskResult, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.TaskResult, error)
	Create(ctx context.Context, result *models.TaskResult) error
	UpdateGrade(ctx context.Context, id string, adminGrade int, status models.ResultStatus) error
}

// UpdateGradeRequest represents an admin grade override.
type UpdateGradeRequest struct {
	AdminGrade int `json:"adminGrade" validate:"gte=0,lte=100"`
}

// ExportFile is a rendered grading-matrix document.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ResultService handles graded submission workflows and matrix exports.
type ResultService struct {
	results   resultRepository
	tasks     taskRepository
	users     userRepository
	courses   courseRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService creates an instance of ResultService.
func NewResultService(results resultRepository, tasks taskRepository, users userRepository, courses courseRepository,
	csv *export.CSVExporter, pdf *export.PDFExporter, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ResultService{
		results: results, tasks: tasks, users: users, courses: courses,
		csv: csv, pdf: pdf, validator: validate, logger: logger,
	}
}

// List returns every result, newest first.
func (s *ResultService) List(ctx context.Context) ([]models.TaskResult, error) {
	results, err := s.results.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	return results, nil
}

// Create stores a result posted by a sync client. The record arrives already
// graded; the server fills only the identity defaults.
func (s *ResultService) Create(ctx context.Context, result models.TaskResult) (*models.TaskResult, error) {
	if result.TaskID == "" || result.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "taskId and userId are required")
	}
	if result.Status == "" {
		result.Status = models.ResultStatusPending
	}
	if err := s.results.Create(ctx, &result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store result")
	}
	return &result, nil
}

// UpdateGrade applies an admin override and marks the result reviewed.
func (s *ResultService) UpdateGrade(ctx context.Context, resultID string, req UpdateGradeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if err := s.results.UpdateGrade(ctx, resultID, req.AdminGrade, models.ResultStatusReviewed); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	s.logger.Info("grade overridden", zap.String("result_id", resultID), zap.Int("admin_grade", req.AdminGrade))
	return nil
}

// ExportGradingMatrix renders one course's grading matrix: a row per enrolled
// student, a column per task, the admin override superseding the AI grade.
func (s *ResultService) ExportGradingMatrix(ctx context.Context, courseID, format string) (*ExportFile, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	tasks, err := s.tasks.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course tasks")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	results, err := s.results.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course results")
	}

	dataset := buildGradingMatrix(tasks, users, results, courseID)

	switch strings.ToLower(format) {
	case "", "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: exportFilename(course.Title, "csv")}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, course.Title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: exportFilename(course.Title, "pdf")}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func buildGradingMatrix(tasks []models.CourseTask, users []models.User, results []models.TaskResult, courseID string) export.Dataset {
	headers := []string{"Student"}
	for _, task := range tasks {
		headers = append(headers, task.Title)
	}
	headers = append(headers, "Average")

	// Latest result wins per student and task; the list arrives newest first.
	latest := make(map[string]models.TaskResult)
	for _, result := range results {
		key := result.UserID + "/" + result.TaskID
		if _, seen := latest[key]; !seen {
			latest[key] = result
		}
	}

	dataset := export.Dataset{Headers: headers}
	for _, user := range users {
		if !user.EnrolledCourses.Contains(courseID) {
			continue
		}
		row := map[string]string{"Student": strings.TrimSpace(user.FirstName + " " + user.LastName)}
		var sum, graded int
		for _, task := range tasks {
			if result, ok := latest[user.ID+"/"+task.ID]; ok {
				grade := result.EffectiveGrade()
				row[task.Title] = fmt.Sprintf("%d", grade)
				sum += grade
				graded++
			} else {
				row[task.Title] = "-"
			}
		}
		if graded > 0 {
			row["Average"] = fmt.Sprintf("%.1f", float64(sum)/float64(graded))
		} else {
			row["Average"] = "-"
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset
}

func exportFilename(title, ext string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	if slug == "" {
		slug = "course"
	}
	return fmt.Sprintf("%s-grades.%s", slug, ext)
}
