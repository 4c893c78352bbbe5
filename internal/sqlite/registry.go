package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/scriptdesk/internal/domain/registry"
	"github.com/rpggio/scriptdesk/internal/repository"
)

// RegistryRepository implements repository.RegistryRepository for SQLite
type RegistryRepository struct {
	db *DB
}

// NewRegistryRepository creates a new RegistryRepository
func NewRegistryRepository(db *DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// Tree returns the live directory forest with scripts attached. ParentName
// of each script is its directory's name.
func (r *RegistryRepository) Tree(ctx context.Context) ([]registry.Directory, error) {
	dirRows, err := r.db.QueryContext(ctx, `SELECT id, name, parent_id FROM registry_directories WHERE deleted = 0 ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list directories: %w", err)
	}
	defer dirRows.Close()

	var order []int64
	dirs := map[int64]*registry.Directory{}
	for dirRows.Next() {
		var (
			dir    registry.Directory
			parent sql.NullInt64
		)
		if err := dirRows.Scan(&dir.ID, &dir.Name, &parent); err != nil {
			return nil, fmt.Errorf("failed to scan directory: %w", err)
		}
		if parent.Valid {
			dir.ParentID = &parent.Int64
		}
		dirs[dir.ID] = &dir
		order = append(order, dir.ID)
	}
	if err = dirRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating directory rows: %w", err)
	}

	scripts, err := r.listScripts(ctx)
	if err != nil {
		return nil, err
	}
	for _, script := range scripts {
		if dir, ok := dirs[script.DirectoryID]; ok {
			script.ParentName = dir.Name
			dir.Scripts = append(dir.Scripts, script)
		}
	}

	children := map[int64][]int64{}
	var roots []int64
	for _, id := range order {
		dir := dirs[id]
		if dir.ParentID == nil {
			roots = append(roots, id)
			continue
		}
		if _, ok := dirs[*dir.ParentID]; !ok {
			roots = append(roots, id)
			continue
		}
		children[*dir.ParentID] = append(children[*dir.ParentID], id)
	}
	var build func(id int64) registry.Directory
	build = func(id int64) registry.Directory {
		dir := *dirs[id]
		if dir.Scripts == nil {
			dir.Scripts = []registry.Script{}
		}
		dir.Children = []registry.Directory{}
		for _, child := range children[id] {
			dir.Children = append(dir.Children, build(child))
		}
		return dir
	}

	tree := []registry.Directory{}
	for _, id := range roots {
		tree = append(tree, build(id))
	}
	return tree, nil
}

func (r *RegistryRepository) listScripts(ctx context.Context) ([]registry.Script, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uuid, directory_id, name, description, types, script_body
		FROM registry_scripts
		WHERE deleted = 0
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []registry.Script
	for rows.Next() {
		script, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, script)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating script rows: %w", err)
	}
	return scripts, nil
}

// GetScript retrieves a live script by ID with ParentName set
func (r *RegistryRepository) GetScript(ctx context.Context, id int64) (registry.Script, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.uuid, s.directory_id, s.name, s.description, s.types, s.script_body, d.name
		FROM registry_scripts s
		JOIN registry_directories d ON d.id = s.directory_id
		WHERE s.id = ? AND s.deleted = 0
	`, id)

	var (
		script registry.Script
		types  string
	)
	err := row.Scan(&script.ID, &script.UUID, &script.DirectoryID, &script.Name, &script.Description, &types, &script.ScriptBody, &script.ParentName)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.Script{}, repository.ErrNotFound
	}
	if err != nil {
		return registry.Script{}, fmt.Errorf("failed to get script: %w", err)
	}
	if err := json.Unmarshal([]byte(types), &script.Types); err != nil {
		return registry.Script{}, fmt.Errorf("failed to decode script types: %w", err)
	}
	return script, nil
}

// CreateScript inserts a script into a live directory
func (r *RegistryRepository) CreateScript(ctx context.Context, author string, form registry.ScriptForm) (registry.Script, error) {
	if err := r.requireDirectory(ctx, form.DirectoryID); err != nil {
		return registry.Script{}, err
	}
	types, err := json.Marshal(form.Types)
	if err != nil {
		return registry.Script{}, fmt.Errorf("failed to encode script types: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO registry_scripts (uuid, directory_id, name, description, types, script_body, author)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), form.DirectoryID, form.Name, form.Description, string(types), form.ScriptBody, author)
	if err != nil {
		return registry.Script{}, writeError("create script", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return registry.Script{}, fmt.Errorf("failed to get script id: %w", err)
	}
	return r.GetScript(ctx, id)
}

// UpdateScript replaces the editable fields and assigns a new UUID
func (r *RegistryRepository) UpdateScript(ctx context.Context, author string, id int64, form registry.ScriptForm) (registry.Script, error) {
	if err := r.requireDirectory(ctx, form.DirectoryID); err != nil {
		return registry.Script{}, err
	}
	types, err := json.Marshal(form.Types)
	if err != nil {
		return registry.Script{}, fmt.Errorf("failed to encode script types: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE registry_scripts
		SET uuid = ?, directory_id = ?, name = ?, description = ?, types = ?, script_body = ?, author = ?, modified_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted = 0
	`, uuid.NewString(), form.DirectoryID, form.Name, form.Description, string(types), form.ScriptBody, author, id)
	if err != nil {
		return registry.Script{}, writeError("update script", err)
	}
	if err := requireAffected(res); err != nil {
		return registry.Script{}, err
	}
	return r.GetScript(ctx, id)
}

// DeleteScript marks a script deleted
func (r *RegistryRepository) DeleteScript(ctx context.Context, author string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registry_scripts SET deleted = 1, author = ?, modified_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0`,
		author, id)
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	return requireAffected(res)
}

// CreateDirectory inserts a directory, optionally under a live parent
func (r *RegistryRepository) CreateDirectory(ctx context.Context, form registry.DirectoryForm) (registry.Directory, error) {
	if form.ParentID != nil {
		if err := r.requireDirectory(ctx, *form.ParentID); err != nil {
			return registry.Directory{}, err
		}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO registry_directories (name, parent_id) VALUES (?, ?)`,
		form.Name, nullableID(form.ParentID))
	if err != nil {
		return registry.Directory{}, writeError("create directory", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return registry.Directory{}, fmt.Errorf("failed to get directory id: %w", err)
	}
	return registry.Directory{
		ID:       id,
		Name:     form.Name,
		ParentID: form.ParentID,
		Scripts:  []registry.Script{},
		Children: []registry.Directory{},
	}, nil
}

// UpdateDirectory renames or moves a directory
func (r *RegistryRepository) UpdateDirectory(ctx context.Context, id int64, form registry.DirectoryForm) (registry.Directory, error) {
	if form.ParentID != nil {
		if err := r.requireDirectory(ctx, *form.ParentID); err != nil {
			return registry.Directory{}, err
		}
		cycle, err := r.isAncestor(ctx, id, *form.ParentID)
		if err != nil {
			return registry.Directory{}, err
		}
		if cycle {
			return registry.Directory{}, repository.ErrForeignKeyViolation
		}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE registry_directories SET name = ?, parent_id = ? WHERE id = ? AND deleted = 0`,
		form.Name, nullableID(form.ParentID), id)
	if err != nil {
		return registry.Directory{}, writeError("update directory", err)
	}
	if err := requireAffected(res); err != nil {
		return registry.Directory{}, err
	}
	return registry.Directory{ID: id, Name: form.Name, ParentID: form.ParentID}, nil
}

// DeleteDirectory marks an empty directory deleted
func (r *RegistryRepository) DeleteDirectory(ctx context.Context, id int64) error {
	var content int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM registry_directories WHERE parent_id = ? AND deleted = 0) +
			(SELECT COUNT(*) FROM registry_scripts WHERE directory_id = ? AND deleted = 0)
	`, id, id).Scan(&content)
	if err != nil {
		return fmt.Errorf("failed to count directory content: %w", err)
	}
	if content > 0 {
		return repository.ErrNotEmpty
	}

	res, err := r.db.ExecContext(ctx, `UPDATE registry_directories SET deleted = 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete directory: %w", err)
	}
	return requireAffected(res)
}

func (r *RegistryRepository) requireDirectory(ctx context.Context, id int64) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registry_directories WHERE id = ? AND deleted = 0`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check directory: %w", err)
	}
	if exists == 0 {
		return repository.ErrForeignKeyViolation
	}
	return nil
}

// isAncestor reports whether id is dir itself or one of its ancestors.
func (r *RegistryRepository) isAncestor(ctx context.Context, id, dir int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		WITH RECURSIVE ancestors(id) AS (
			SELECT ?
			UNION
			SELECT d.parent_id FROM registry_directories d
			JOIN ancestors a ON d.id = a.id
			WHERE d.parent_id IS NOT NULL
		)
		SELECT COUNT(*) FROM ancestors WHERE id = ?
	`, dir, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to walk directory ancestors: %w", err)
	}
	return n > 0, nil
}

func scanScript(s scanner) (registry.Script, error) {
	var (
		script registry.Script
		types  string
	)
	if err := s.Scan(&script.ID, &script.UUID, &script.DirectoryID, &script.Name, &script.Description, &types, &script.ScriptBody); err != nil {
		return registry.Script{}, fmt.Errorf("failed to scan script: %w", err)
	}
	if err := json.Unmarshal([]byte(types), &script.Types); err != nil {
		return registry.Script{}, fmt.Errorf("failed to decode script types: %w", err)
	}
	return script, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
