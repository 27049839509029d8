package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/models"
)

// Postgres implements Store on database/sql with lib/pq. Membership
// mutations take a row lock on the group so add/remove are serialized
// per group; the UNIQUE constraint on join_code backstops the
// allocator's retry loop.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var _ Store = (*Postgres)(nil)

// uniqueViolation is the Postgres error code for a unique constraint.
const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}

func (p *Postgres) CreateGroup(ctx context.Context, g *models.Group) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, created_by, max_participants, join_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, g.ID, g.Name, g.Description, g.CreatedBy, g.MaxParticipants, g.JoinCode, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "groups_join_code_key") {
			return ErrDuplicateCode
		}
		return fmt.Errorf("insert group: %w", err)
	}

	for _, userID := range g.Participants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (group_id, user_id) DO NOTHING
		`, g.ID, userID, g.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
	}

	return tx.Commit()
}

func (p *Postgres) GroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	return p.loadGroup(ctx, p.db, `WHERE id = $1`, id)
}

func (p *Postgres) GroupByJoinCode(ctx context.Context, code string) (*models.Group, error) {
	return p.loadGroup(ctx, p.db, `WHERE join_code = $1`, code)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (p *Postgres) loadGroup(ctx context.Context, q querier, where string, arg interface{}) (*models.Group, error) {
	var g models.Group
	err := q.QueryRowContext(ctx, `
		SELECT id, name, description, created_by, max_participants, join_code, created_at, updated_at
		FROM groups `+where,
		arg,
	).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.MaxParticipants, &g.JoinCode, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select group: %w", err)
	}

	g.Participants, err = p.participants(ctx, q, g.ID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *Postgres) participants(ctx context.Context, q querier, groupID uuid.UUID) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT user_id FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at ASC, user_id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, userID)
	}
	return out, rows.Err()
}

func (p *Postgres) GroupsForUser(ctx context.Context, userID string) ([]models.Group, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.max_participants, g.join_code, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.MaxParticipants, &g.JoinCode, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].Participants, err = p.participants(ctx, p.db, groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (p *Postgres) AddParticipant(ctx context.Context, groupID uuid.UUID, userID string) (*models.Group, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	maxParticipants, err := p.lockGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	var isMember bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
	`, groupID, userID).Scan(&isMember)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}

	if !isMember {
		var count int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM group_members WHERE group_id = $1
		`, groupID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("count members: %w", err)
		}
		if count >= maxParticipants {
			return nil, ErrGroupFull
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO group_members (group_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (group_id, user_id) DO NOTHING
		`, groupID, userID, time.Now())
		if err != nil {
			return nil, fmt.Errorf("insert member: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE groups SET updated_at = GREATEST(updated_at, NOW()) WHERE id = $1
		`, groupID)
		if err != nil {
			return nil, fmt.Errorf("touch group: %w", err)
		}
	}

	g, err := p.loadGroup(ctx, tx, `WHERE id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	return g, tx.Commit()
}

func (p *Postgres) RemoveParticipant(ctx context.Context, groupID uuid.UUID, userID string) (*models.Group, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := p.lockGroup(ctx, tx, groupID); err != nil {
		return nil, err
	}

	var isMember bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
	`, groupID, userID).Scan(&isMember)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}

	if isMember {
		var count int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM group_members WHERE group_id = $1
		`, groupID).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("count members: %w", err)
		}
		if count <= 1 {
			return nil, ErrLastParticipant
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
		`, groupID, userID)
		if err != nil {
			return nil, fmt.Errorf("delete member: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE groups SET updated_at = GREATEST(updated_at, NOW()) WHERE id = $1
		`, groupID)
		if err != nil {
			return nil, fmt.Errorf("touch group: %w", err)
		}
	}

	g, err := p.loadGroup(ctx, tx, `WHERE id = $1`, groupID)
	if err != nil {
		return nil, err
	}
	return g, tx.Commit()
}

// lockGroup takes the group's row lock so membership mutations are
// serialized per group.
func (p *Postgres) lockGroup(ctx context.Context, tx *sql.Tx, groupID uuid.UUID) (maxParticipants int, err error) {
	err = tx.QueryRowContext(ctx, `
		SELECT max_participants FROM groups WHERE id = $1 FOR UPDATE
	`, groupID).Scan(&maxParticipants)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock group: %w", err)
	}
	return maxParticipants, nil
}

func (p *Postgres) AppendMessage(ctx context.Context, m *models.GroupMessage) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The row lock serializes appends per group, so the stamp assigned
	// inside the INSERT follows commit order and a reader can never see
	// a later (sequence_time, seq) pair before an earlier one.
	if _, err := p.lockGroup(ctx, tx, m.GroupID); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO group_messages (id, group_id, sender_id, sender_name, body, attachment_ref, sequence_time)
		VALUES ($1, $2, $3, $4, $5, $6, clock_timestamp())
		RETURNING sequence_time, seq
	`, m.ID, m.GroupID, m.SenderID, m.SenderName, m.Body, m.AttachmentRef).Scan(&m.SequenceTime, &m.Seq)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return tx.Commit()
}

func (p *Postgres) MessagesAfter(ctx context.Context, groupID uuid.UUID, afterTime time.Time, afterSeq int64, limit int) ([]models.GroupMessage, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)
	`, groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check group: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, group_id, sender_id, sender_name, body, attachment_ref, sequence_time, seq
		FROM group_messages
		WHERE group_id = $1 AND (sequence_time, seq) > ($2, $3)
		ORDER BY sequence_time ASC, seq ASC
		LIMIT $4
	`, groupID, afterTime, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	var out []models.GroupMessage
	for rows.Next() {
		var m models.GroupMessage
		err := rows.Scan(&m.ID, &m.GroupID, &m.SenderID, &m.SenderName, &m.Body, &m.AttachmentRef, &m.SequenceTime, &m.Seq)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
