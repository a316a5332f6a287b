package postgres

import (
	"context"
	"errors"
	"fmt"

	"dtapi/internal/store"
	"dtapi/pkg/api"
)

const (
	msgAlreadyBooked   = "Du har redan en bokning den tiden! Bokningen är inte accepterad."
	msgAlreadyAccepted = "Denna tolkning har redan accepterats av annan tolk. Du har inte accepterat denna tolkning"
)

// AcceptJob assigns a pending job to the translator and notifies the customer.
// Conflicts are reported as a "fail" result.
func (s *Store) AcceptJob(ctx context.Context, data store.Payload, user *store.User) (*store.AcceptResult, error) {
	if user == nil {
		return nil, errors.New("accept job: no user")
	}
	jobID, ok := data.Int64("job_id")
	if !ok {
		return nil, fmt.Errorf("job_id: %w", store.ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	job, err := s.jobByID(ctx, tx, jobID, true)
	if err != nil {
		return nil, err
	}

	var booked bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM translator_job_rel r
			JOIN jobs j ON j.id = r.job_id
			WHERE r.user_id = $1 AND r.cancel_at IS NULL AND j.due = $2 AND j.id <> $3
		)`, user.ID, job.Due, job.ID,
	).Scan(&booked)
	if err != nil {
		return nil, fmt.Errorf("failed to check bookings of translator %d: %w", user.ID, err)
	}
	if booked {
		return &store.AcceptResult{Status: store.ResultFail, Message: msgAlreadyBooked}, nil
	}

	if job.Status != api.StatusPending {
		return &store.AcceptResult{Status: store.ResultFail, Message: msgAlreadyAccepted}, nil
	}

	now := s.now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO translator_job_rel (job_id, user_id, created_at) VALUES ($1, $2, $3)`,
		job.ID, user.ID, now,
	); err != nil {
		return nil, fmt.Errorf("failed to assign job %d: %w", job.ID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`,
		api.StatusAssigned, now, job.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to update job %d status: %w", job.ID, err)
	}

	owner, err := s.userByID(ctx, tx, job.UserID)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Bekräftelse - tolk har accepterat er bokning (bokning # %d)", job.ID)
	if err := s.queueJobEmail(ctx, tx, job, owner, TemplateJobAccepted, subject); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	job.Status = api.StatusAssigned
	job.UpdatedAt = now
	return &store.AcceptResult{Status: store.ResultSuccess, Job: job}, nil
}
