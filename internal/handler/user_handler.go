package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// UserHandler handles account endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description List every account as a bare JSON array
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, users)
}

// Register godoc
// @Summary Register user
// @Description Create a new account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.RegisterUserRequest true "Registration payload"
// @Success 201 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /register_user [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if _, err := h.service.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c)
}

// Update godoc
// @Summary Update user
// @Description Replace the mutable profile fields of an account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateUserRequest true "Update payload"
// @Success 200 {object} response.Ack
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if _, err := h.service.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// RemoveFromCourse godoc
// @Summary Unenroll user
// @Description Remove a course from the user's enrollments
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Ack
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id}/courses/{courseId} [delete]
func (h *UserHandler) RemoveFromCourse(c *gin.Context) {
	if err := h.service.RemoveFromCourse(c.Request.Context(), c.Param("id"), c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

type recoverPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// RecoverPassword godoc
// @Summary Recover password
// @Description Mail the stored credentials to the account's address
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} response.Ack
// @Router /recover_password [post]
func (h *UserHandler) RecoverPassword(c *gin.Context) {
	var req recoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if err := h.service.RecoverPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
