package postgres

import (
	"context"
	"fmt"

	"dtapi/internal/store"
)

// Enqueue adds an email to email_outbox.
func (s *Store) Enqueue(ctx context.Context, tx store.DBTransaction, email *store.OutboxEmail) (int64, error) {
	if email.CreatedAt.IsZero() {
		email.CreatedAt = s.now()
	}
	payload := email.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query := `
		INSERT INTO email_outbox (job_id, recipient, name, subject, template, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := s.getExecutor(tx).QueryRowContext(ctx, query,
		email.JobID, email.Recipient, email.Name, email.Subject, email.Template, []byte(payload), email.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue email for job %d: %w", email.JobID, err)
	}

	email.ID = id
	return id, nil
}

// Count returns the number of emails not yet delivered.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_outbox WHERE sent_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
