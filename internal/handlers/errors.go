package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/chat"
)

// respondError maps the chat error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
	case errors.Is(err, chat.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrGroupEmpty),
		errors.Is(err, chat.ErrCreatorCannotLeave),
		errors.Is(err, chat.ErrGroupFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrCodeSpaceExhausted):
		// Server fault, not client input: the code pool or generator
		// is broken.
		log.Printf("Error allocating join code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
	default:
		log.Printf("Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
