package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dtapi/internal/store"
)

// Email templates written to the outbox.
const (
	TemplateJobCreated  = "job-created"
	TemplateJobAccepted = "job-accepted"
)

type emailPayload struct {
	JobID     int64     `json:"job_id"`
	UserName  string    `json:"user_name"`
	Due       time.Time `json:"due"`
	Immediate string    `json:"immediate"`
	Duration  int       `json:"duration"`
}

// queueJobEmail writes an email about job to the outbox. The recipient is
// the job's contact email, falling back to the owner's account email.
func (s *Store) queueJobEmail(ctx context.Context, tx store.DBTransaction, job *store.Job, owner *store.User, template, subject string) error {
	recipient := job.UserEmail
	if recipient == "" {
		recipient = owner.Email
	}

	payload, err := json.Marshal(emailPayload{
		JobID:     job.ID,
		UserName:  owner.Name,
		Due:       job.Due,
		Immediate: job.Immediate,
		Duration:  job.Duration,
	})
	if err != nil {
		return err
	}

	_, err = s.Enqueue(ctx, tx, &store.OutboxEmail{
		JobID:     job.ID,
		Recipient: recipient,
		Name:      owner.Name,
		Subject:   subject,
		Template:  template,
		Payload:   payload,
	})
	return err
}

// StoreJobEmail saves the contact details of a job and queues the booking
// confirmation email.
func (s *Store) StoreJobEmail(ctx context.Context, data store.Payload) (*store.JobEmailResult, error) {
	jobID, ok := data.Int64("user_email_job_id")
	if !ok {
		return nil, fmt.Errorf("user_email_job_id: %w", store.ErrNotFound)
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

	job.UserEmail = data.String("user_email")
	job.Reference = data.StringOr("reference", "")
	if data.Has("address") {
		job.Address = data.String("address")
		job.Instructions = data.String("instructions")
		job.Town = data.String("town")
	}
	job.UpdatedAt = s.now()

	query := `
		UPDATE jobs
		SET user_email = $1, reference = $2, address = $3, instructions = $4, town = $5, updated_at = $6
		WHERE id = $7
	`
	if _, err := tx.ExecContext(ctx, query,
		job.UserEmail, job.Reference, job.Address, job.Instructions, job.Town, job.UpdatedAt, job.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to save contact details of job %d: %w", job.ID, err)
	}

	owner, err := s.userByID(ctx, tx, job.UserID)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Vi har mottagit er tolkbokning. Bokningsnr: #%d", job.ID)
	if err := s.queueJobEmail(ctx, tx, job, owner, TemplateJobCreated, subject); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &store.JobEmailResult{
		Type:   s.roleName(owner.UserType),
		Job:    job,
		Status: store.ResultSuccess,
	}, nil
}
