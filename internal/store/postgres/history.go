package postgres

import (
	"context"
	"errors"
	"fmt"

	"dtapi/internal/store"
	"dtapi/pkg/api"

	"github.com/lib/pq"
)

// finishedStatuses are the statuses listed in a user's history.
var finishedStatuses = []string{
	api.StatusCompleted, api.StatusWithdrawBefore24, api.StatusWithdrawAfter24, api.StatusTimedOut,
}

// GetUsersJobsHistory returns a page of the user's finished jobs, latest due first.
func (s *Store) GetUsersJobsHistory(ctx context.Context, userID int64, filter store.JobFilter) (*store.JobHistory, error) {
	f := filter.Normalized()
	result := &store.JobHistory{
		EmergencyJobs: []store.Job{},
		NormalJobs:    []store.Job{},
		PageNum:       f.Page,
	}

	user, err := s.userByID(ctx, nil, userID)
	if errors.Is(err, store.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	var from, where string
	switch user.UserType {
	case s.roles.Customer:
		from = "jobs j"
		where = "j.user_id = $1 AND j.status = ANY($2)"
	case s.roles.Translator:
		from = "jobs j JOIN translator_job_rel r ON r.job_id = j.id"
		where = "r.user_id = $1 AND r.cancel_at IS NULL AND j.status = ANY($2)"
	default:
		return result, nil
	}

	statuses := pq.Array(finishedStatuses)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", from, where),
		userID, statuses,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count history of user %d: %w", userID, err)
	}

	jobs, err := s.queryJobs(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY j.due DESC LIMIT $3 OFFSET $4", jobColumns, from, where),
		userID, statuses, f.PerPage, f.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history of user %d: %w", userID, err)
	}

	result.UserType = s.roleName(user.UserType)
	result.NormalJobs = jobs
	result.NumPages = int((total + int64(f.PerPage) - 1) / int64(f.PerPage))
	return result, nil
}
