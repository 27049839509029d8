package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/chat"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

type MessageHandler struct {
	svc *chat.Service
}

func NewMessageHandler(svc *chat.Service) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// CreateGroupMessage appends a message to the group's log.
func (h *MessageHandler) CreateGroupMessage(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var req models.GroupMessageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.svc.AppendMessage(c.Request.Context(), groupID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// GetGroupMessages returns the group's messages in log order,
// optionally resuming after the opaque `since` cursor.
func (h *MessageHandler) GetGroupMessages(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	since := c.Query("since")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, nextCursor, err := h.svc.ListMessages(c.Request.Context(), groupID, since, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	if messages == nil {
		messages = []models.GroupMessage{}
	}
	c.JSON(http.StatusOK, models.GroupMessagesResponse{
		Messages:   messages,
		NextCursor: nextCursor,
	})
}
