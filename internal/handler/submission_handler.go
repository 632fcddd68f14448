package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// SubmissionHandler handles answer submission endpoints.
type SubmissionHandler struct {
	service *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// Submit godoc
// @Summary Submit answer
// @Description Grade a student answer and return the stored result
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body service.SubmitRequest true "Submission payload"
// @Success 201 {object} models.TaskResult
// @Failure 400 {object} map[string]interface{}
// @Router /submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result)
}
