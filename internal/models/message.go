package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupMessage is one entry in a group's append-only log. Seq is the
// per-group insertion number and only serves as the ordering tie-break
// when two messages carry the same sequence time.
type GroupMessage struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GroupID       uuid.UUID `json:"group_id" db:"group_id"`
	SenderID      string    `json:"sender_id" db:"sender_id"`
	SenderName    string    `json:"sender_name" db:"sender_name"`
	Body          string    `json:"body" db:"body"`
	AttachmentRef *string   `json:"attachment_ref,omitempty" db:"attachment_ref"`
	SequenceTime  time.Time `json:"sequence_time" db:"sequence_time"`
	Seq           int64     `json:"-" db:"seq"`
}

type GroupMessageCreateRequest struct {
	SenderID      string  `json:"sender_id" binding:"required"`
	SenderName    string  `json:"sender_name" binding:"required"`
	Body          string  `json:"body" binding:"required"`
	AttachmentRef *string `json:"attachment_ref"`
}

type GroupMessagesResponse struct {
	Messages   []GroupMessage `json:"messages"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
