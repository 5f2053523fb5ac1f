package catalog

import (
	"context"
	"fmt"
	"time"
)

const (
	sweepBatch      = 100
	maxSweepBackoff = time.Hour
)

// SweepFileDeletions retries the recorded file deletions that are due. Keys
// the host removes are forgotten; the rest are pushed back with exponential
// backoff. It returns how many files were removed.
func (s *Service) SweepFileDeletions(ctx context.Context) (int, error) {
	due, err := s.deletions.Due(ctx, sweepBatch)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(due))
	for _, e := range due {
		keys = append(keys, e.FileKey)
	}

	undeleted, deleteErr := s.host.DeleteFiles(ctx, keys)
	done := without(keys, undeleted)
	if err := s.deletions.Done(ctx, done); err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}

	if len(undeleted) > 0 {
		stillPending := make(map[string]struct{}, len(undeleted))
		for _, k := range undeleted {
			stillPending[k] = struct{}{}
		}
		msg := "delete failed"
		if deleteErr != nil {
			msg = deleteErr.Error()
		}
		for _, e := range due {
			if _, ok := stillPending[e.FileKey]; !ok {
				continue
			}
			if err := s.deletions.Retry(ctx, e.ID, msg, backoff(e.Attempts+1)); err != nil {
				s.logger.Warnw("reschedule file deletion failed", "key", e.FileKey, "err", err)
			}
		}
		s.logger.Warnw("file sweep left files behind", "count", len(undeleted), "err", deleteErr)
	}

	return len(done), nil
}

// backoff is one minute doubled per attempt, capped at maxSweepBackoff.
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 7 {
		return maxSweepBackoff
	}
	d := time.Minute << (attempt - 1)
	return min(d, maxSweepBackoff)
}
