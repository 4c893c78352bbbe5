package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/scriptdesk/internal/domain/watch"
)

// WatchRepository implements repository.WatchRepository for SQLite
type WatchRepository struct {
	db *DB
}

// NewWatchRepository creates a new WatchRepository
func NewWatchRepository(db *DB) *WatchRepository {
	return &WatchRepository{db: db}
}

// List returns the ids of entityType the user watches
func (r *WatchRepository) List(ctx context.Context, userKey string, entityType watch.EntityType) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_id FROM watches WHERE user_key = ? AND entity_type = ? ORDER BY entity_id`,
		userKey, string(entityType))
	if err != nil {
		return nil, fmt.Errorf("failed to list watches: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watch: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watch rows: %w", err)
	}
	return ids, nil
}

// Watch subscribes the user. Watching twice is a no-op.
func (r *WatchRepository) Watch(ctx context.Context, userKey string, entityType watch.EntityType, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO watches (user_key, entity_type, entity_id) VALUES (?, ?, ?)`,
		userKey, string(entityType), id)
	if err != nil {
		return fmt.Errorf("failed to add watch: %w", err)
	}
	return nil
}

// Unwatch removes the subscription if present
func (r *WatchRepository) Unwatch(ctx context.Context, userKey string, entityType watch.EntityType, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM watches WHERE user_key = ? AND entity_type = ? AND entity_id = ?`,
		userKey, string(entityType), id)
	if err != nil {
		return fmt.Errorf("failed to remove watch: %w", err)
	}
	return nil
}
