package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/repository"
)

// TaskRepository implements repository.TaskRepository for SQLite
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
	id, uuid, name, description, type, script_body, schedule_expression, user_key,
	issue_jql, workflow_name, workflow_action_id, transition_options, enabled,
	last_run_start, last_run_duration, last_run_outcome, last_run_message`

// List returns every live task ordered by id
func (r *TaskRepository) List(ctx context.Context) ([]scheduled.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM scheduled_tasks WHERE deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []scheduled.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}

// Get retrieves a live task by ID
func (r *TaskRepository) Get(ctx context.Context, id int64) (scheduled.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM scheduled_tasks WHERE id = ? AND deleted = 0`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduled.Task{}, repository.ErrNotFound
	}
	return task, err
}

// Create inserts a task with a fresh UUID
func (r *TaskRepository) Create(ctx context.Context, author string, form scheduled.Form) (scheduled.Task, error) {
	options, err := encodeOptions(form.TransitionOptions)
	if err != nil {
		return scheduled.Task{}, err
	}

	query := `
		INSERT INTO scheduled_tasks (
			uuid, name, description, type, script_body, schedule_expression, user_key,
			issue_jql, workflow_name, workflow_action_id, transition_options, enabled, author
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		uuid.NewString(),
		form.Name,
		form.Description,
		string(form.Type),
		form.ScriptBody,
		form.Schedule,
		form.UserKey,
		form.IssueJQL,
		form.IssueWorkflowName,
		form.IssueWorkflowActionID,
		options,
		boolToInt(form.Enabled),
		author,
	)
	if err != nil {
		return scheduled.Task{}, writeError("create task", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return scheduled.Task{}, fmt.Errorf("failed to get task id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the editable fields and assigns a new UUID
func (r *TaskRepository) Update(ctx context.Context, author string, id int64, form scheduled.Form) (scheduled.Task, error) {
	options, err := encodeOptions(form.TransitionOptions)
	if err != nil {
		return scheduled.Task{}, err
	}

	query := `
		UPDATE scheduled_tasks
		SET uuid = ?, name = ?, description = ?, type = ?, script_body = ?, schedule_expression = ?,
			user_key = ?, issue_jql = ?, workflow_name = ?, workflow_action_id = ?,
			transition_options = ?, enabled = ?, author = ?, modified_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted = 0
	`
	res, err := r.db.ExecContext(ctx, query,
		uuid.NewString(),
		form.Name,
		form.Description,
		string(form.Type),
		form.ScriptBody,
		form.Schedule,
		form.UserKey,
		form.IssueJQL,
		form.IssueWorkflowName,
		form.IssueWorkflowActionID,
		options,
		boolToInt(form.Enabled),
		author,
		id,
	)
	if err != nil {
		return scheduled.Task{}, writeError("update task", err)
	}
	if err := requireAffected(res); err != nil {
		return scheduled.Task{}, err
	}
	return r.Get(ctx, id)
}

// Delete marks a task deleted
func (r *TaskRepository) Delete(ctx context.Context, author string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_tasks SET deleted = 1, author = ?, modified_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0`,
		author, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(res)
}

// SetEnabled flips the enabled flag without touching the UUID
func (r *TaskRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_tasks SET enabled = ? WHERE id = ? AND deleted = 0`,
		boolToInt(enabled), id)
	if err != nil {
		return fmt.Errorf("failed to set task enabled: %w", err)
	}
	return requireAffected(res)
}

// RecordRun stores the outcome of the latest run
func (r *TaskRepository) RecordRun(ctx context.Context, id int64, run scheduled.RunInfo) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_tasks
		SET last_run_start = ?, last_run_duration = ?, last_run_outcome = ?, last_run_message = ?
		WHERE id = ? AND deleted = 0
	`, run.StartDate.UTC(), run.Duration, string(run.Outcome), run.Message, id)
	if err != nil {
		return fmt.Errorf("failed to record task run: %w", err)
	}
	return requireAffected(res)
}

func encodeOptions(options *scheduled.TransitionOptions) (sql.NullString, error) {
	if options == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode transition options: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanTask(s scanner) (scheduled.Task, error) {
	var (
		task        scheduled.Task
		taskType    string
		options     sql.NullString
		enabled     int
		runStart    sql.NullTime
		runDuration sql.NullInt64
		runOutcome  sql.NullString
		runMessage  sql.NullString
	)
	err := s.Scan(
		&task.ID,
		&task.UUID,
		&task.Name,
		&task.Description,
		&taskType,
		&task.ScriptBody,
		&task.Schedule,
		&task.UserKey,
		&task.IssueJQL,
		&task.IssueWorkflowName,
		&task.IssueWorkflowActionID,
		&options,
		&enabled,
		&runStart,
		&runDuration,
		&runOutcome,
		&runMessage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduled.Task{}, err
	}
	if err != nil {
		return scheduled.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}

	task.Type = scheduled.TaskType(taskType)
	task.Enabled = enabled == 1
	if options.Valid {
		task.TransitionOptions = &scheduled.TransitionOptions{}
		if err := json.Unmarshal([]byte(options.String), task.TransitionOptions); err != nil {
			return scheduled.Task{}, fmt.Errorf("failed to decode transition options: %w", err)
		}
	}
	if runStart.Valid {
		task.LastRunInfo = &scheduled.RunInfo{
			StartDate: runStart.Time,
			Duration:  runDuration.Int64,
			Outcome:   scheduled.Outcome(runOutcome.String),
			Message:   runMessage.String,
		}
	}
	return task, nil
}
