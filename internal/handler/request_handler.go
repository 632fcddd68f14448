package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// RequestHandler handles enrollment request endpoints.
type RequestHandler struct {
	service *service.RequestService
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

// List godoc
// @Summary List requests
// @Description List pending enrollment requests as a bare JSON array
// @Tags Requests
// @Produce json
// @Success 200 {array} models.EnrollmentRequest
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, requests)
}

// Create godoc
// @Summary File enrollment request
// @Description Request to join a course with its join code
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body service.CreateRequestRequest true "Request payload"
// @Success 201 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req service.CreateRequestRequest
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

// Approve godoc
// @Summary Approve request
// @Description Grant an enrollment request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Ack
// @Failure 404 {object} map[string]interface{}
// @Router /requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	if _, err := h.service.Approve(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
