package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Description List every course as a bare JSON array
// @Tags Courses
// @Produce json
// @Success 200 {array} models.Course
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, courses)
}

// Create godoc
// @Summary Create course
// @Description Create a new course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
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
