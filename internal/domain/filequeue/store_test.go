package filequeue

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestEnqueue(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, nil, "ignored"))

	mock.ExpectExec(`INSERT INTO file_deletions`).
		WithArgs([]string{"souq/a", "souq/b"}, "product deleted").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	require.NoError(t, repo.Enqueue(ctx, []string{"souq/a", "souq/b"}, "product deleted"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDue(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)

	now := time.Now()
	lastErr := "timeout"
	rows := pgxmock.NewRows([]string{"id", "file_key", "reason", "attempts", "last_error", "next_attempt_at", "created_at"}).
		AddRow(int64(1), "souq/a", "product deleted", 0, &lastErr, now, now).
		AddRow(int64(2), "souq/b", "image removed from product", 3, &lastErr, now, now)
	mock.ExpectQuery(`FROM file_deletions`).WithArgs(100).WillReturnRows(rows)

	due, err := repo.Due(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "souq/b", due[1].FileKey)
	assert.Equal(t, 3, due[1].Attempts)
	assert.Equal(t, "timeout", *due[0].LastError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoneAndRetry(t *testing.T) {
	mock := newMock(t)
	repo := NewRepository(mock)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM file_deletions`).
		WithArgs([]string{"souq/a"}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, repo.Done(ctx, []string{"souq/a"}))
	require.NoError(t, repo.Done(ctx, nil))

	mock.ExpectExec(`UPDATE file_deletions`).
		WithArgs(int64(7), "boom", "120 seconds").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.Retry(ctx, 7, "boom", 2*time.Minute))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM file_deletions`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))
	n, err := repo.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
