package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/scriptdesk/internal/domain/execution"
)

// ExecutionRepository implements repository.ExecutionRepository for SQLite
type ExecutionRepository struct {
	db *DB
}

// NewExecutionRepository creates a new ExecutionRepository
func NewExecutionRepository(db *DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

const executionColumns = `id, time_ms, success, error, extra_params, created_at`

// TrackRegistry records a run of a registry script
func (r *ExecutionRepository) TrackRegistry(ctx context.Context, scriptID int64, run execution.Execution) (execution.Execution, error) {
	return r.track(ctx, scriptID, "", run)
}

// TrackInline records a run of an inline script identified by uuid
func (r *ExecutionRepository) TrackInline(ctx context.Context, uuid string, run execution.Execution) (execution.Execution, error) {
	return r.track(ctx, 0, uuid, run)
}

func (r *ExecutionRepository) track(ctx context.Context, registryID int64, inlineID string, run execution.Execution) (execution.Execution, error) {
	var extra sql.NullString
	if len(run.ExtraParams) > 0 {
		data, err := json.Marshal(run.ExtraParams)
		if err != nil {
			return execution.Execution{}, fmt.Errorf("failed to encode extra params: %w", err)
		}
		extra = sql.NullString{String: string(data), Valid: true}
	}
	if run.Date.IsZero() {
		run.Date = time.Now()
	}
	run.Date = run.Date.UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO executions (registry_id, inline_id, time_ms, success, error, extra_params, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		sql.NullInt64{Int64: registryID, Valid: registryID != 0},
		sql.NullString{String: inlineID, Valid: inlineID != ""},
		run.Time,
		boolToInt(run.Success),
		run.Error,
		extra,
		run.Date,
	)
	if err != nil {
		return execution.Execution{}, writeError("track execution", err)
	}
	run.ID, err = res.LastInsertId()
	if err != nil {
		return execution.Execution{}, fmt.Errorf("failed to get execution id: %w", err)
	}
	return run, nil
}

// ForRegistry lists the runs of a registry script, newest first
func (r *ExecutionRepository) ForRegistry(ctx context.Context, scriptID int64) ([]execution.Execution, error) {
	return r.list(ctx, `registry_id = ?`, scriptID)
}

// ForInline lists the runs of an inline script, newest first
func (r *ExecutionRepository) ForInline(ctx context.Context, uuid string) ([]execution.Execution, error) {
	return r.list(ctx, `inline_id = ?`, uuid)
}

func (r *ExecutionRepository) list(ctx context.Context, where string, arg any) ([]execution.Execution, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+executionColumns+` FROM executions WHERE `+where+` ORDER BY created_at DESC, id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	runs := []execution.Execution{}
	for rows.Next() {
		var (
			run     execution.Execution
			success int
			extra   sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Time, &success, &run.Error, &extra, &run.Date); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		run.Success = success != 0
		if extra.Valid {
			if err := json.Unmarshal([]byte(extra.String), &run.ExtraParams); err != nil {
				return nil, fmt.Errorf("failed to decode extra params: %w", err)
			}
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating execution rows: %w", err)
	}
	return runs, nil
}

// DeleteBefore removes runs recorded before cutoff and returns how many
// were removed
func (r *ExecutionRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM executions WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old executions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
