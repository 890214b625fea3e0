package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/webtab"
)

var _ webtab.CompletionCache = (*CompletionCache)(nil)

// CompletionCache implements webtab.CompletionCache using SQLite.
type CompletionCache struct {
	db *DB
}

// NewCompletionCache creates a new CompletionCache.
func NewCompletionCache(db *DB) *CompletionCache {
	return &CompletionCache{db: db}
}

// GetCompletion returns the stored response for key, if any.
func (c *CompletionCache) GetCompletion(ctx context.Context, key string) (string, bool, error) {
	var response string
	err := c.db.QueryRowContext(ctx, "SELECT response FROM completions WHERE key = ?", key).Scan(&response)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return response, true, nil
}

// PutCompletion stores a response, replacing any earlier one for key.
func (c *CompletionCache) PutCompletion(ctx context.Context, key, response string) error {
	if key == "" {
		return webtab.Errorf(webtab.EINVALID, "cache key required")
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO completions (key, response, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET response = excluded.response, created_at = excluded.created_at
	`, key, response, time.Now().UTC().Format(time.RFC3339))
	return err
}
