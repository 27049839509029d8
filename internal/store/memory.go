package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

// Memory is an in-process Store used by tests and local development.
// A single mutex guards all state; participant mutations happen under
// it, which makes add/remove atomic with respect to the set.
type Memory struct {
	now func() time.Time

	mu     sync.RWMutex
	groups map[uuid.UUID]*models.Group
	byCode map[string]uuid.UUID
	msgs   map[uuid.UUID][]models.GroupMessage
	seq    map[uuid.UUID]int64
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock builds a Memory whose message stamps come from the
// given clock. Tests freeze or skew it.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		now:    now,
		groups: make(map[uuid.UUID]*models.Group),
		byCode: make(map[string]uuid.UUID),
		msgs:   make(map[uuid.UUID][]models.GroupMessage),
		seq:    make(map[uuid.UUID]int64),
	}
}

var _ Store = (*Memory)(nil)

func copyGroup(g *models.Group) *models.Group {
	cp := *g
	cp.Participants = append([]string(nil), g.Participants...)
	return &cp
}

func (m *Memory) CreateGroup(_ context.Context, g *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byCode[g.JoinCode]; taken {
		return ErrDuplicateCode
	}
	m.groups[g.ID] = copyGroup(g)
	m.byCode[g.JoinCode] = g.ID
	return nil
}

func (m *Memory) GroupByID(_ context.Context, id uuid.UUID) (*models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGroup(g), nil
}

func (m *Memory) GroupByJoinCode(_ context.Context, code string) (*models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGroup(m.groups[id]), nil
}

func (m *Memory) GroupsForUser(_ context.Context, userID string) ([]models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Group
	for _, g := range m.groups {
		if lo.Contains(g.Participants, userID) {
			out = append(out, *copyGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) AddParticipant(_ context.Context, groupID uuid.UUID, userID string) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	if lo.Contains(g.Participants, userID) {
		return copyGroup(g), nil
	}
	if len(g.Participants) >= g.MaxParticipants {
		return nil, ErrGroupFull
	}
	g.Participants = append(g.Participants, userID)
	g.UpdatedAt = laterOf(g.UpdatedAt, time.Now())
	return copyGroup(g), nil
}

func (m *Memory) RemoveParticipant(_ context.Context, groupID uuid.UUID, userID string) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	if !lo.Contains(g.Participants, userID) {
		return copyGroup(g), nil
	}
	if len(g.Participants) == 1 {
		return nil, ErrLastParticipant
	}
	g.Participants = lo.Without(g.Participants, userID)
	g.UpdatedAt = laterOf(g.UpdatedAt, time.Now())
	return copyGroup(g), nil
}

func (m *Memory) AppendMessage(_ context.Context, msg *models.GroupMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[msg.GroupID]; !ok {
		return ErrNotFound
	}

	// Stamp under the same lock that orders the log, and never behind
	// the previous entry, so (SequenceTime, Seq) follows commit order.
	stamp := m.now()
	if log := m.msgs[msg.GroupID]; len(log) > 0 {
		stamp = laterOf(log[len(log)-1].SequenceTime, stamp)
	}
	msg.SequenceTime = stamp

	m.seq[msg.GroupID]++
	msg.Seq = m.seq[msg.GroupID]
	m.msgs[msg.GroupID] = append(m.msgs[msg.GroupID], *msg)
	return nil
}

func (m *Memory) MessagesAfter(_ context.Context, groupID uuid.UUID, afterTime time.Time, afterSeq int64, limit int) ([]models.GroupMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.groups[groupID]; !ok {
		return nil, ErrNotFound
	}

	all := append([]models.GroupMessage(nil), m.msgs[groupID]...)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].SequenceTime.Equal(all[j].SequenceTime) {
			return all[i].SequenceTime.Before(all[j].SequenceTime)
		}
		return all[i].Seq < all[j].Seq
	})

	var out []models.GroupMessage
	for _, msg := range all {
		if msg.SequenceTime.Before(afterTime) {
			continue
		}
		if msg.SequenceTime.Equal(afterTime) && msg.Seq <= afterSeq {
			continue
		}
		out = append(out, msg)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// updated_at never moves backwards, even if the wall clock does.
func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
