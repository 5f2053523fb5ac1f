package filequeue

import (
	"context"
	"fmt"
	"time"

	"souq/internal/infra/dbx"
)

// Entry is a remote file that still has to be deleted from the file host.
type Entry struct {
	ID            int64     `json:"id"`
	FileKey       string    `json:"file_key"`
	Reason        string    `json:"reason"`
	Attempts      int       `json:"attempts"`
	LastError     *string   `json:"last_error,omitempty"`
	NextAttemptAt time.Time `json:"next_attempt_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store records deletion intents so failed remote deletes are retried.
type Store interface {
	Enqueue(ctx context.Context, keys []string, reason string) error
	Due(ctx context.Context, limit int) ([]*Entry, error)
	Done(ctx context.Context, keys []string) error
	Retry(ctx context.Context, id int64, lastErr string, backoff time.Duration) error
	Pending(ctx context.Context) (int, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

// Enqueue is idempotent per key: re-enqueueing a known key only makes it due
// again.
func (r *Repository) Enqueue(ctx context.Context, keys []string, reason string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO file_deletions (file_key, reason)
		SELECT k, $2 FROM unnest($1::text[]) AS t(k)
		ON CONFLICT (file_key) DO UPDATE SET next_attempt_at = now()`,
		keys, reason,
	)
	if err != nil {
		return fmt.Errorf("enqueue file deletions: %w", err)
	}
	return nil
}

func (r *Repository) Due(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, file_key, reason, attempts, last_error, next_attempt_at, created_at
		FROM file_deletions
		WHERE next_attempt_at <= now()
		ORDER BY next_attempt_at, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list due file deletions: %w", err)
	}
	defer rows.Close()

	var list []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.FileKey, &e.Reason, &e.Attempts, &e.LastError, &e.NextAttemptAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file deletion: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// Done forgets the intents for keys that are gone from the file host.
func (r *Repository) Done(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM file_deletions WHERE file_key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("complete file deletions: %w", err)
	}
	return nil
}

func (r *Repository) Retry(ctx context.Context, id int64, lastErr string, backoff time.Duration) error {
	_, err := r.db.Exec(ctx, `
		UPDATE file_deletions
		SET attempts = attempts + 1, last_error = $2, next_attempt_at = now() + $3::interval
		WHERE id = $1`,
		id, lastErr, fmt.Sprintf("%d seconds", int64(backoff.Seconds())),
	)
	if err != nil {
		return fmt.Errorf("reschedule file deletion: %w", err)
	}
	return nil
}

func (r *Repository) Pending(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM file_deletions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count file deletions: %w", err)
	}
	return n, nil
}
