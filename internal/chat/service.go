// Package chat implements the group & membership manager and the
// per-group append-only message log over a store.Store, plus the
// subscription channel the notification dispatcher consumes.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// MessageEvent pairs an appended message with the participant set of
// its group at append time. Consumed by the notification dispatcher.
type MessageEvent struct {
	Message      models.GroupMessage
	Participants []string
}

type Service struct {
	store      store.Store
	codes      CodeGenerator
	attempts   int
	defaultMax int
	now        func() time.Time

	mu      sync.Mutex
	subs    map[int]chan MessageEvent
	nextSub int
}

type Option func(*Service)

// WithCodeGenerator swaps the join-code generator. Tests use shrunken
// alphabets to force collisions.
func WithCodeGenerator(g CodeGenerator) Option {
	return func(s *Service) { s.codes = g }
}

// WithClock swaps the clock that stamps group created/updated times.
// Message sequence times come from the store, inside its append lock,
// never from here or from callers.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithCodeAttempts(n int) Option {
	return func(s *Service) { s.attempts = n }
}

// WithDefaultMaxParticipants sets the participant cap applied when a
// create request does not carry its own.
func WithDefaultMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultMax = n
		}
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		codes:      NewCodeGenerator(),
		attempts:   maxCodeAttempts,
		defaultMax: models.DefaultMaxParticipants,
		now:        time.Now,
		subs:       make(map[int]chan MessageEvent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGroup allocates a new group with a collision-free join code.
// Allocation draws a candidate, attempts the commit, and redraws on a
// uniqueness conflict, up to the attempt bound. Transient storage
// faults consume attempts from the same bound.
func (s *Service) CreateGroup(ctx context.Context, req models.GroupCreateRequest) (*models.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.CreatorID == "" {
		return nil, fmt.Errorf("%w: creator_id is required", ErrValidation)
	}
	maxParticipants := req.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = s.defaultMax
	}

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		now := s.now()
		g := &models.Group{
			ID:              uuid.New(),
			Name:            name,
			Description:     strings.TrimSpace(req.Description),
			CreatedBy:       req.CreatorID,
			Participants:    []string{req.CreatorID},
			MaxParticipants: maxParticipants,
			JoinCode:        s.codes.Next(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.store.CreateGroup(ctx, g); err != nil {
			lastErr = err
			continue
		}
		return g, nil
	}

	if errors.Is(lastErr, store.ErrDuplicateCode) {
		log.Printf("join code allocation exhausted after %d attempts", s.attempts)
		return nil, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, s.attempts)
	}
	return nil, lastErr
}

// JoinGroup adds userID to the group identified by joinCode. Joining a
// group the user already belongs to returns the group unchanged.
func (s *Service) JoinGroup(ctx context.Context, joinCode, userID string) (*models.Group, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if code == "" || userID == "" {
		return nil, fmt.Errorf("%w: invite_code and user_id are required", ErrValidation)
	}

	g, err := s.store.GroupByJoinCode(ctx, code)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	g, err = s.store.AddParticipant(ctx, g.ID, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return g, nil
}

// LeaveGroup removes userID from the group. Leaving a group the user
// is not in is a no-op. The creator can never leave, and the last
// participant can never be removed.
func (s *Service) LeaveGroup(ctx context.Context, groupID uuid.UUID, userID string) (*models.Group, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}

	g, err := s.store.GroupByID(ctx, groupID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if g.CreatedBy == userID {
		return nil, ErrCreatorCannotLeave
	}

	g, err = s.store.RemoveParticipant(ctx, groupID, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return g, nil
}

// RemoveMember lets the group creator remove another participant.
func (s *Service) RemoveMember(ctx context.Context, groupID uuid.UUID, requesterID, memberID string) (*models.Group, error) {
	if requesterID == "" || memberID == "" {
		return nil, fmt.Errorf("%w: user_id and member_id are required", ErrValidation)
	}

	g, err := s.store.GroupByID(ctx, groupID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if g.CreatedBy != requesterID {
		return nil, ErrNotAuthorized
	}
	if g.CreatedBy == memberID {
		return nil, ErrCreatorCannotLeave
	}

	g, err = s.store.RemoveParticipant(ctx, groupID, memberID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return g, nil
}

func (s *Service) GroupByID(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	g, err := s.store.GroupByID(ctx, groupID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return g, nil
}

func (s *Service) GroupByJoinCode(ctx context.Context, code string) (*models.Group, error) {
	g, err := s.store.GroupByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return g, nil
}

func (s *Service) GroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	return s.store.GroupsForUser(ctx, userID)
}

// AppendMessage validates that the target group exists and appends
// atomically; the store assigns the sequence stamp inside its append
// lock so stamp order matches commit order. Sender
// membership is not revalidated; historical messages stand even after
// the sender leaves. Subscribers are notified after the append commits;
// their failure or slowness never reaches the caller.
func (s *Service) AppendMessage(ctx context.Context, groupID uuid.UUID, req models.GroupMessageCreateRequest) (*models.GroupMessage, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}
	if req.SenderID == "" || req.SenderName == "" {
		return nil, fmt.Errorf("%w: sender_id and sender_name are required", ErrValidation)
	}

	g, err := s.store.GroupByID(ctx, groupID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	m := &models.GroupMessage{
		ID:            uuid.New(),
		GroupID:       groupID,
		SenderID:      req.SenderID,
		SenderName:    req.SenderName,
		Body:          req.Body,
		AttachmentRef: req.AttachmentRef,
	}
	if err := s.store.AppendMessage(ctx, m); err != nil {
		return nil, mapStoreErr(err)
	}

	s.publish(MessageEvent{Message: *m, Participants: g.Participants})
	return m, nil
}

// ListMessages returns the group's messages in ascending
// (sequence_time, insertion order), optionally starting after the
// given cursor, plus the cursor to resume from.
func (s *Service) ListMessages(ctx context.Context, groupID uuid.UUID, sinceCursor string, limit int) ([]models.GroupMessage, string, error) {
	var after Cursor
	if sinceCursor != "" {
		var err error
		after, err = DecodeCursor(sinceCursor)
		if err != nil {
			return nil, "", err
		}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	msgs, err := s.store.MessagesAfter(ctx, groupID, after.Time, after.Seq, limit)
	if err != nil {
		return nil, "", mapStoreErr(err)
	}

	next := sinceCursor
	if len(msgs) > 0 {
		next = CursorFor(msgs[len(msgs)-1]).Encode()
	}
	return msgs, next, nil
}

// Subscribe registers a reader for appended messages. Publication is
// non-blocking: a subscriber that falls behind loses events rather
// than stalling writers. The returned cancel func must be called on
// teardown.
func (s *Service) Subscribe(buffer int) (<-chan MessageEvent, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan MessageEvent, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Service) publish(evt MessageEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrGroupNotFound
	case errors.Is(err, store.ErrLastParticipant):
		return ErrGroupEmpty
	case errors.Is(err, store.ErrGroupFull):
		return ErrGroupFull
	default:
		return err
	}
}
