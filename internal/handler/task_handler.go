package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// TaskHandler handles course task endpoints.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// List godoc
// @Summary List tasks
// @Description List tasks, optionally limited to one course
// @Tags Tasks
// @Produce json
// @Param courseId query string false "Course filter"
// @Success 200 {array} models.CourseTask
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if courseID := c.Query("courseId"); courseID != "" {
		tasks, err := h.service.ListByCourse(ctx, courseID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Collection(c, tasks)
		return
	}

	tasks, err := h.service.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, tasks)
}

// Create godoc
// @Summary Create task
// @Description Add a task to a course
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body service.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c)
}

// StartTimer godoc
// @Summary Start task timer
// @Description Set the submission deadline of a class task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body service.StartTimerRequest true "Timer payload"
// @Success 200 {object} response.Ack
// @Failure 404 {object} map[string]interface{}
// @Router /tasks/{id}/timer [patch]
func (h *TaskHandler) StartTimer(c *gin.Context) {
	var req service.StartTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if _, err := h.service.StartTimer(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
