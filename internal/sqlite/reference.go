package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/scriptdesk/internal/domain/jira"
)

// ReferenceRepository implements repository.ReferenceRepository for SQLite
type ReferenceRepository struct {
	db *DB
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// EventTypes returns the seeded issue event types
func (r *ReferenceRepository) EventTypes(ctx context.Context) ([]jira.EventType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM event_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list event types: %w", err)
	}
	defer rows.Close()

	types := []jira.EventType{}
	for rows.Next() {
		var t jira.EventType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		types = append(types, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event type rows: %w", err)
	}
	return types, nil
}

// Projects returns the seeded projects ordered by key
func (r *ReferenceRepository) Projects(ctx context.Context) ([]jira.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, project_key, name FROM projects ORDER BY project_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []jira.Project{}
	for rows.Next() {
		var p jira.Project
		if err := rows.Scan(&p.ID, &p.Key, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}
