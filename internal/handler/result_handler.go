package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/models"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// ResultHandler handles graded submission endpoints.
type ResultHandler struct {
	service *service.ResultService
}

// NewResultHandler creates a new result handler.
func NewResultHandler(svc *service.ResultService) *ResultHandler {
	return &ResultHandler{service: svc}
}

// List godoc
// @Summary List results
// @Description List every graded submission, newest first
// @Tags Results
// @Produce json
// @Success 200 {array} models.TaskResult
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	results, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, results)
}

// Create godoc
// @Summary Store result
// @Description Store a graded submission posted by a sync client
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body models.TaskResult true "Result payload"
// @Success 201 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Router /results [post]
func (h *ResultHandler) Create(c *gin.Context) {
	var result models.TaskResult
	if err := c.ShouldBindJSON(&result); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if _, err := h.service.Create(c.Request.Context(), result); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c)
}

// UpdateGrade godoc
// @Summary Override grade
// @Description Apply an admin grade override and mark the result reviewed
// @Tags Results
// @Accept json
// @Produce json
// @Param id path string true "Result ID"
// @Param payload body service.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Router /results/{id} [patch]
func (h *ResultHandler) UpdateGrade(c *gin.Context) {
	var req service.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if err := h.service.UpdateGrade(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// Export godoc
// @Summary Export grading matrix
// @Description Download one course's grading matrix as CSV or PDF
// @Tags Results
// @Produce octet-stream
// @Param id path string true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /courses/{id}/results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	file, err := h.service.ExportGradingMatrix(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
