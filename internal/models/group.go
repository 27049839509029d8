package models

import (
	"time"

	"github.com/google/uuid"
)

type Group struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	CreatedBy       string    `json:"created_by" db:"created_by"`
	Participants    []string  `json:"participants"`
	MaxParticipants int       `json:"max_participants" db:"max_participants"`
	JoinCode        string    `json:"join_code" db:"join_code"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultMaxParticipants caps the participant set when a create request
// does not specify its own limit.
const DefaultMaxParticipants = 50

// IsParticipant reports whether userID is in the participant set.
func (g *Group) IsParticipant(userID string) bool {
	for _, p := range g.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type GroupCreateRequest struct {
	Name            string `json:"name" binding:"required"`
	CreatorID       string `json:"creator_id" binding:"required"`
	Description     string `json:"description"`
	MaxParticipants int    `json:"max_participants"`
}

type GroupJoinRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
	UserID     string `json:"user_id" binding:"required"`
}

type GroupLeaveRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type RemoveMemberRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	MemberID string `json:"member_id" binding:"required"`
}

type GroupResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CreatedBy       string    `json:"created_by"`
	Participants    []string  `json:"participants"`
	MemberCount     int       `json:"member_count"`
	MaxParticipants int       `json:"max_participants"`
	JoinCode        string    `json:"join_code"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		CreatedBy:       g.CreatedBy,
		Participants:    g.Participants,
		MemberCount:     len(g.Participants),
		MaxParticipants: g.MaxParticipants,
		JoinCode:        g.JoinCode,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}
