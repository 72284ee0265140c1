package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/secretsanta/internal/database"
)

// Store is the persistence the group service needs. InTx runs fn with a
// Store whose writes belong to a single transaction.
type Store interface {
	CreateGroup(ctx context.Context, name, ownerID string) (*Group, error)
	CreateParticipants(ctx context.Context, groupID string, inputs []ParticipantInput) ([]*Participant, error)
	UpsertAssignments(ctx context.Context, participants []*Participant) error
	GetByID(ctx context.Context, id string) (*Group, error)
	ListParticipants(ctx context.Context, groupID string) ([]*Participant, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Group, int, error)
	InTx(ctx context.Context, fn func(Store) error) error
}

// Repository handles group data persistence
type Repository struct {
	conn *sql.DB
	db   database.DBTX
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{conn: db, db: db}
}

// InTx runs fn against a repository bound to a new transaction
func (r *Repository) InTx(ctx context.Context, fn func(Store) error) error {
	if r.conn == nil {
		return fn(r)
	}
	return database.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		return fn(&Repository{db: tx})
	})
}

// CreateGroup inserts a new group and returns it
func (r *Repository) CreateGroup(ctx context.Context, name, ownerID string) (*Group, error) {
	query := `
		INSERT INTO groups (id, name, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	group := &Group{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, query, group.ID, group.Name, group.OwnerID, group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// CreateParticipants inserts all participants of a group in one statement
// and returns them in input order.
func (r *Repository) CreateParticipants(ctx context.Context, groupID string, inputs []ParticipantInput) ([]*Participant, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	participants := make([]*Participant, len(inputs))
	values := make([]string, len(inputs))
	args := make([]any, 0, len(inputs)*5)
	for i, in := range inputs {
		p := &Participant{
			ID:        uuid.NewString(),
			GroupID:   groupID,
			Name:      in.Name,
			Email:     in.Email,
			CreatedAt: now,
		}
		participants[i] = p

		n := i * 5
		values[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, p.ID, p.GroupID, p.Name, p.Email, p.CreatedAt)
	}

	query := `
		INSERT INTO participants (id, group_id, name, email, created_at)
		VALUES ` + strings.Join(values, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create participants: %w", err)
	}

	return participants, nil
}

// UpsertAssignments stores the assigned_to of every participant, keyed by
// participant id.
func (r *Repository) UpsertAssignments(ctx context.Context, participants []*Participant) error {
	if len(participants) == 0 {
		return nil
	}

	values := make([]string, len(participants))
	args := make([]any, 0, len(participants)*6)
	for i, p := range participants {
		n := i * 6
		values[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		var assignedTo sql.NullString
		if p.AssignedTo != nil {
			assignedTo = sql.NullString{String: *p.AssignedTo, Valid: true}
		}
		args = append(args, p.ID, p.GroupID, p.Name, p.Email, assignedTo, p.CreatedAt)
	}

	query := `
		INSERT INTO participants (id, group_id, name, email, assigned_to, created_at)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (id) DO UPDATE
		SET assigned_to = excluded.assigned_to
	`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert assignments: %w", err)
	}
	return nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.OwnerID,
		&group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListParticipants retrieves the participants of a group
func (r *Repository) ListParticipants(ctx context.Context, groupID string) ([]*Participant, error) {
	query := `
		SELECT id, group_id, name, email, assigned_to, created_at
		FROM participants
		WHERE group_id = $1
		ORDER BY name, email
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		var assignedTo sql.NullString
		if err := rows.Scan(
			&p.ID,
			&p.GroupID,
			&p.Name,
			&p.Email,
			&assignedTo,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if assignedTo.Valid {
			p.AssignedTo = &assignedTo.String
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}

	return participants, nil
}

// ListByOwner retrieves the groups a user owns, newest first
func (r *Repository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM groups WHERE owner_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT id, name, owner_id, created_at
		FROM groups
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.OwnerID,
			&group.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, total, nil
}
