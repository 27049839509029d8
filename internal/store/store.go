// Package store holds the durable state behind the group chat: group
// identity, participant sets, and per-group message logs. Mutations go
// through operations that are atomic with respect to set membership so
// concurrent joins and leaves never lose updates.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

var (
	// ErrNotFound means no live group matches the given id or join code.
	ErrNotFound = errors.New("store: group not found")

	// ErrDuplicateCode means the join code is already held by a live
	// group. Callers retry with a fresh code.
	ErrDuplicateCode = errors.New("store: join code already in use")

	// ErrLastParticipant means the removal would leave the group with
	// an empty participant set, which is never allowed.
	ErrLastParticipant = errors.New("store: cannot remove last participant")

	// ErrGroupFull means the participant set is at its configured cap.
	ErrGroupFull = errors.New("store: group is full")
)

type Store interface {
	// CreateGroup persists a new group with its initial participant
	// set. Returns ErrDuplicateCode when the join code is taken.
	CreateGroup(ctx context.Context, g *models.Group) error

	GroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GroupByJoinCode(ctx context.Context, code string) (*models.Group, error)
	GroupsForUser(ctx context.Context, userID string) ([]models.Group, error)

	// AddParticipant atomically adds userID to the group's participant
	// set and returns the resulting group. Adding an existing
	// participant is a no-op that leaves updated_at untouched.
	AddParticipant(ctx context.Context, groupID uuid.UUID, userID string) (*models.Group, error)

	// RemoveParticipant atomically removes userID from the group's
	// participant set and returns the resulting group. Removing a
	// non-participant is a no-op. Returns ErrLastParticipant when the
	// removal would empty the set.
	RemoveParticipant(ctx context.Context, groupID uuid.UUID, userID string) (*models.Group, error)

	// AppendMessage appends m to its group's log, assigning m.Seq and
	// m.SequenceTime together inside the append's critical section so
	// the (SequenceTime, Seq) pair follows commit order. The log is
	// append-only; there is no update or delete.
	AppendMessage(ctx context.Context, m *models.GroupMessage) error

	// MessagesAfter returns up to limit messages of the group strictly
	// after the (afterTime, afterSeq) position, in ascending
	// (sequence_time, seq) order. The zero position returns history
	// from the beginning.
	MessagesAfter(ctx context.Context, groupID uuid.UUID, afterTime time.Time, afterSeq int64, limit int) ([]models.GroupMessage, error)
}
