package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xasanboymatvafayev/it-ustoz-sub000/internal/service"
	appErrors "github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/errors"
	"github.com/xasanboymatvafayev/it-ustoz-sub000/pkg/response"
)

// ChatHandler handles course chat endpoints.
type ChatHandler struct {
	service *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// History godoc
// @Summary Course chat history
// @Description List one course's messages, oldest first
// @Tags Chat
// @Produce json
// @Param courseId query string true "Course ID"
// @Success 200 {array} models.ChatMessage
// @Failure 400 {object} map[string]interface{}
// @Router /messages [get]
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.service.History(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Collection(c, messages)
}

// Send godoc
// @Summary Post chat message
// @Description Post a message; questions receive an asynchronous tutor reply
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body service.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Ack
// @Failure 400 {object} map[string]interface{}
// @Router /messages [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	if _, err := h.service.Send(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c)
}
