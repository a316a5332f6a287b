package postgres

import (
	"context"
	"fmt"

	"dtapi/internal/store"
)

// UpdateDistance sets distance and time on the distance record of a job.
// A job without a distance record is left alone.
func (s *Store) UpdateDistance(ctx context.Context, jobID int64, distance string, time *string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE distances SET distance = $1, time = $2 WHERE job_id = $3`,
		distance, time, jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update distance of job %d: %w", jobID, err)
	}
	return nil
}

// UpdateJobDetails writes the feed's admin fields to a job.
func (s *Store) UpdateJobDetails(ctx context.Context, jobID int64, update store.JobDetailsUpdate) error {
	query := `
		UPDATE jobs
		SET admin_comments = $1, flagged = $2, manually_handled = $3, by_admin = $4, session_time = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := s.db.ExecContext(ctx, query,
		update.AdminComments, update.Flagged, update.ManuallyHandled, update.ByAdmin, update.SessionTime,
		s.now(), jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update details of job %d: %w", jobID, err)
	}
	return nil
}
