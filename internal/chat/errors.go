package chat

import "errors"

// Stable error kinds surfaced to callers. Handlers translate these to
// HTTP statuses with errors.Is.
var (
	// ErrGroupNotFound is returned for joins, leaves, appends, and
	// listings against an unknown or stale code/id. Never retried
	// automatically.
	ErrGroupNotFound = errors.New("group not found")

	// ErrCodeSpaceExhausted means join-code allocation collided on
	// every attempt. This is a server-side fault: it signals the code
	// pool is too small or the generator is degenerate, not bad luck.
	ErrCodeSpaceExhausted = errors.New("join code space exhausted")

	// ErrGroupEmpty rejects a leave that would empty the participant
	// set. Groups are never deleted in this core, so emptying is
	// disallowed rather than auto-deleting.
	ErrGroupEmpty = errors.New("group must keep at least one participant")

	// ErrCreatorCannotLeave keeps the creator in the participant set.
	ErrCreatorCannotLeave = errors.New("group creator cannot leave or be removed")

	// ErrGroupFull rejects a join when the participant set is at its cap.
	ErrGroupFull = errors.New("group is full")

	// ErrNotAuthorized rejects moderation actions by non-creators.
	ErrNotAuthorized = errors.New("only the group creator can do that")

	// ErrValidation rejects malformed input before any persistence
	// attempt.
	ErrValidation = errors.New("invalid request")
)
