package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/scriptdesk/internal/domain/listener"
	"github.com/rpggio/scriptdesk/internal/repository"
)

// ListenerRepository implements repository.ListenerRepository for SQLite
type ListenerRepository struct {
	db *DB
}

// NewListenerRepository creates a new ListenerRepository
func NewListenerRepository(db *DB) *ListenerRepository {
	return &ListenerRepository{db: db}
}

const listenerColumns = `id, uuid, name, description, script_body, condition`

// List returns every live listener ordered by id
func (r *ListenerRepository) List(ctx context.Context) ([]listener.Listener, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listenerColumns+` FROM listeners WHERE deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list listeners: %w", err)
	}
	defer rows.Close()

	listeners := []listener.Listener{}
	for rows.Next() {
		l, err := scanListener(rows)
		if err != nil {
			return nil, err
		}
		listeners = append(listeners, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listener rows: %w", err)
	}
	return listeners, nil
}

// Get retrieves a live listener by ID
func (r *ListenerRepository) Get(ctx context.Context, id int64) (listener.Listener, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listenerColumns+` FROM listeners WHERE id = ? AND deleted = 0`, id)
	l, err := scanListener(row)
	if errors.Is(err, sql.ErrNoRows) {
		return listener.Listener{}, repository.ErrNotFound
	}
	return l, err
}

// Create inserts a listener with a fresh UUID
func (r *ListenerRepository) Create(ctx context.Context, author string, form listener.Form) (listener.Listener, error) {
	condition, err := json.Marshal(form.Condition)
	if err != nil {
		return listener.Listener{}, fmt.Errorf("failed to encode condition: %w", err)
	}

	query := `
		INSERT INTO listeners (uuid, name, description, script_body, condition, author)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		uuid.NewString(),
		form.Name,
		form.Description,
		form.ScriptBody,
		string(condition),
		author,
	)
	if err != nil {
		return listener.Listener{}, writeError("create listener", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return listener.Listener{}, fmt.Errorf("failed to get listener id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the editable fields and assigns a new UUID. Deleted
// listeners are reported as not found.
func (r *ListenerRepository) Update(ctx context.Context, author string, id int64, form listener.Form) (listener.Listener, error) {
	condition, err := json.Marshal(form.Condition)
	if err != nil {
		return listener.Listener{}, fmt.Errorf("failed to encode condition: %w", err)
	}

	query := `
		UPDATE listeners
		SET uuid = ?, name = ?, description = ?, script_body = ?, condition = ?, author = ?, modified_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted = 0
	`
	res, err := r.db.ExecContext(ctx, query,
		uuid.NewString(),
		form.Name,
		form.Description,
		form.ScriptBody,
		string(condition),
		author,
		id,
	)
	if err != nil {
		return listener.Listener{}, writeError("update listener", err)
	}
	if err := requireAffected(res); err != nil {
		return listener.Listener{}, err
	}
	return r.Get(ctx, id)
}

// Delete marks a listener deleted
func (r *ListenerRepository) Delete(ctx context.Context, author string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listeners SET deleted = 1, author = ?, modified_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0`,
		author, id)
	if err != nil {
		return fmt.Errorf("failed to delete listener: %w", err)
	}
	return requireAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListener(s scanner) (listener.Listener, error) {
	var (
		l         listener.Listener
		condition string
	)
	err := s.Scan(&l.ID, &l.UUID, &l.Name, &l.Description, &l.ScriptBody, &condition)
	if errors.Is(err, sql.ErrNoRows) {
		return listener.Listener{}, err
	}
	if err != nil {
		return listener.Listener{}, fmt.Errorf("failed to scan listener: %w", err)
	}
	if err := json.Unmarshal([]byte(condition), &l.Condition); err != nil {
		return listener.Listener{}, fmt.Errorf("failed to decode listener condition: %w", err)
	}
	return l, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
