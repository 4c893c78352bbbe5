package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/scriptdesk/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and resolves them to users
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add registers token for userKey. Re-adding a token reassigns it.
func (r *APIKeyRepository) Add(ctx context.Context, token, userKey, description string) error {
	if token == "" || userKey == "" {
		return errors.New("token and user key are required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (key_hash, user_key, created_at, description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key_hash) DO UPDATE SET user_key = excluded.user_key, description = excluded.description
	`, HashToken(token), userKey, time.Now().UTC(), description)
	if err != nil {
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// ResolveUser returns the user key for token and stamps last_used.
func (r *APIKeyRepository) ResolveUser(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var userKey string
	err := r.db.QueryRowContext(ctx, `SELECT user_key FROM api_keys WHERE key_hash = ?`, hash).Scan(&userKey)
	if err != nil || userKey == "" {
		return "", repository.ErrNotFound
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), hash)
	return userKey, nil
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
