package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/scriptdesk/internal/domain/restscript"
	"github.com/rpggio/scriptdesk/internal/repository"
)

// RestScriptRepository implements repository.RestScriptRepository for SQLite
type RestScriptRepository struct {
	db *DB
}

// NewRestScriptRepository creates a new RestScriptRepository
func NewRestScriptRepository(db *DB) *RestScriptRepository {
	return &RestScriptRepository{db: db}
}

const restScriptColumns = `id, uuid, name, description, methods, groups_json, script_body`

// List returns every live REST script ordered by name
func (r *RestScriptRepository) List(ctx context.Context) ([]restscript.Script, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+restScriptColumns+` FROM rest_scripts WHERE deleted = 0 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rest scripts: %w", err)
	}
	defer rows.Close()

	scripts := []restscript.Script{}
	for rows.Next() {
		s, err := scanRestScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rest script rows: %w", err)
	}
	return scripts, nil
}

// Get retrieves a live REST script by ID
func (r *RestScriptRepository) Get(ctx context.Context, id int64) (restscript.Script, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+restScriptColumns+` FROM rest_scripts WHERE id = ? AND deleted = 0`, id)
	s, err := scanRestScript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return restscript.Script{}, repository.ErrNotFound
	}
	return s, err
}

// Create inserts a REST script with a fresh UUID
func (r *RestScriptRepository) Create(ctx context.Context, author string, form restscript.Form) (restscript.Script, error) {
	methods, groups, err := encodeRestLists(form)
	if err != nil {
		return restscript.Script{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO rest_scripts (uuid, name, description, methods, groups_json, script_body, author)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), form.Name, form.Description, methods, groups, form.ScriptBody, author)
	if err != nil {
		return restscript.Script{}, writeError("create rest script", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return restscript.Script{}, fmt.Errorf("failed to get rest script id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the editable fields. The UUID is kept so that run
// history stays attached to the endpoint.
func (r *RestScriptRepository) Update(ctx context.Context, author string, id int64, form restscript.Form) (restscript.Script, error) {
	methods, groups, err := encodeRestLists(form)
	if err != nil {
		return restscript.Script{}, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE rest_scripts
		SET name = ?, description = ?, methods = ?, groups_json = ?, script_body = ?, author = ?, modified_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted = 0
	`, form.Name, form.Description, methods, groups, form.ScriptBody, author, id)
	if err != nil {
		return restscript.Script{}, writeError("update rest script", err)
	}
	if err := requireAffected(res); err != nil {
		return restscript.Script{}, err
	}
	return r.Get(ctx, id)
}

// Delete marks a REST script deleted
func (r *RestScriptRepository) Delete(ctx context.Context, author string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rest_scripts SET deleted = 1, author = ?, modified_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0`,
		author, id)
	if err != nil {
		return fmt.Errorf("failed to delete rest script: %w", err)
	}
	return requireAffected(res)
}

func encodeRestLists(form restscript.Form) (string, string, error) {
	methods, err := json.Marshal(form.Methods)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode methods: %w", err)
	}
	groups := form.Groups
	if groups == nil {
		groups = []string{}
	}
	groupData, err := json.Marshal(groups)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode groups: %w", err)
	}
	return string(methods), string(groupData), nil
}

func scanRestScript(s scanner) (restscript.Script, error) {
	var (
		script  restscript.Script
		methods string
		groups  string
	)
	err := s.Scan(&script.ID, &script.UUID, &script.Name, &script.Description, &methods, &groups, &script.ScriptBody)
	if errors.Is(err, sql.ErrNoRows) {
		return restscript.Script{}, err
	}
	if err != nil {
		return restscript.Script{}, fmt.Errorf("failed to scan rest script: %w", err)
	}
	if err := json.Unmarshal([]byte(methods), &script.Methods); err != nil {
		return restscript.Script{}, fmt.Errorf("failed to decode rest script methods: %w", err)
	}
	if err := json.Unmarshal([]byte(groups), &script.Groups); err != nil {
		return restscript.Script{}, fmt.Errorf("failed to decode rest script groups: %w", err)
	}
	if len(script.Groups) == 0 {
		script.Groups = nil
	}
	return script, nil
}
