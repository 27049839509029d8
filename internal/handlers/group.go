package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/chat"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

type GroupHandler struct {
	svc *chat.Service
}

func NewGroupHandler(svc *chat.Service) *GroupHandler {
	return &GroupHandler{svc: svc}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req models.GroupCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.svc.CreateGroup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Group created successfully",
		"group":   group.ToResponse(),
	})
}

func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req models.GroupJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.svc.JoinGroup(c.Request.Context(), req.InviteCode, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined group",
		"group":   group.ToResponse(),
	})
}

func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var req models.GroupLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.svc.LeaveGroup(c.Request.Context(), groupID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully left group",
		"group":   group.ToResponse(),
	})
}

// RemoveMember lets the group creator remove another participant.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var req models.RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.svc.RemoveMember(c.Request.Context(), groupID, req.UserID, req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed from group",
		"group":   group.ToResponse(),
	})
}

func (h *GroupHandler) GetUserGroups(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		if v, exists := c.Get("user_id"); exists {
			userID, _ = v.(string)
		}
	}

	groups, err := h.svc.GroupsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.GroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, groups[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"groups": responses})
}

func (h *GroupHandler) GetGroupDetails(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	group, err := h.svc.GroupByID(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group.ToResponse()})
}

// GetGroupByInviteCode previews a group by its invite code, for the
// join screen.
func (h *GroupHandler) GetGroupByInviteCode(c *gin.Context) {
	inviteCode := c.Param("code")
	if inviteCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invite code is required"})
		return
	}

	group, err := h.svc.GroupByJoinCode(c.Request.Context(), inviteCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group.ToResponse()})
}
