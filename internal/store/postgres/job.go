package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dtapi/internal/store"
	"dtapi/pkg/api"

	"github.com/lib/pq"
)

const jobColumns = `j.id, j.user_id, j.from_language_id, j.immediate, j.due, j.duration, j.status,
	j.gender, j.certified, j.job_type, j.customer_phone_type, j.customer_physical_type,
	j.user_email, j.reference, j.address, j.instructions, j.town, j.admin_comments,
	j.flagged, j.manually_handled, j.by_admin, j.session_time, j.created_at, j.updated_at`

// openStatuses are the statuses a customer still sees as upcoming.
var openStatuses = []string{api.StatusPending, api.StatusAssigned, api.StatusStarted}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*store.Job, error) {
	var j store.Job
	err := row.Scan(
		&j.ID, &j.UserID, &j.FromLanguageID, &j.Immediate, &j.Due, &j.Duration, &j.Status,
		&j.Gender, &j.Certified, &j.JobType, &j.CustomerPhoneType, &j.CustomerPhysicalType,
		&j.UserEmail, &j.Reference, &j.Address, &j.Instructions, &j.Town, &j.AdminComments,
		&j.Flagged, &j.ManuallyHandled, &j.ByAdmin, &j.SessionTime, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]store.Job, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []store.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	return jobs, rows.Err()
}

// jobByID loads a job. With lock set the row is locked for the transaction.
func (s *Store) jobByID(ctx context.Context, tx store.DBTransaction, id int64, lock bool) (*store.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs j WHERE j.id = $1"
	if lock {
		query += " FOR UPDATE"
	}

	job, err := scanJob(s.getExecutor(tx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %d: %w", id, err)
	}
	return job, nil
}

// FindWithRelation returns a job by ID.
// The only supported relation is store.RelTranslatorUser.
func (s *Store) FindWithRelation(ctx context.Context, id int64, relation string) (*store.Job, error) {
	if relation != "" && relation != store.RelTranslatorUser {
		return nil, fmt.Errorf("unknown relation %q", relation)
	}

	job, err := s.jobByID(ctx, nil, id, false)
	if err != nil {
		return nil, err
	}

	if relation == store.RelTranslatorUser {
		rel, err := s.activeTranslatorRel(ctx, id)
		if err != nil {
			return nil, err
		}
		job.TranslatorJobRel = rel
	}

	return job, nil
}

func (s *Store) activeTranslatorRel(ctx context.Context, jobID int64) (*store.TranslatorJobRel, error) {
	query := `
		SELECT r.id, r.job_id, r.user_id, r.cancel_at, r.completed_at, r.created_at,
			u.id, u.name, u.email, u.user_type, u.consumer_type, u.created_at
		FROM translator_job_rel r
		JOIN users u ON u.id = r.user_id
		WHERE r.job_id = $1 AND r.cancel_at IS NULL
		ORDER BY r.created_at DESC
		LIMIT 1
	`

	var rel store.TranslatorJobRel
	var u store.User
	err := s.db.QueryRowContext(ctx, query, jobID).Scan(
		&rel.ID, &rel.JobID, &rel.UserID, &rel.CancelAt, &rel.CompletedAt, &rel.CreatedAt,
		&u.ID, &u.Name, &u.Email, &u.UserType, &u.ConsumerType, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load translator for job %d: %w", jobID, err)
	}

	rel.User = &u
	return &rel, nil
}

// GetUsersJobs returns the upcoming jobs of a customer, or the assigned jobs
// of a translator, split into emergency and normal bookings.
func (s *Store) GetUsersJobs(ctx context.Context, userID int64) (*store.UsersJobs, error) {
	result := &store.UsersJobs{EmergencyJobs: []store.Job{}, NormalJobs: []store.Job{}}

	user, err := s.userByID(ctx, nil, userID)
	if errors.Is(err, store.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	var jobs []store.Job
	switch user.UserType {
	case s.roles.Customer:
		jobs, err = s.queryJobs(ctx,
			"SELECT "+jobColumns+" FROM jobs j WHERE j.user_id = $1 AND j.status = ANY($2) ORDER BY j.due ASC",
			userID, pq.Array(openStatuses),
		)
	case s.roles.Translator:
		jobs, err = s.queryJobs(ctx,
			"SELECT "+jobColumns+` FROM jobs j
			JOIN translator_job_rel r ON r.job_id = j.id
			WHERE r.user_id = $1 AND r.cancel_at IS NULL AND j.status = $2
			ORDER BY j.due ASC`,
			userID, api.StatusAssigned,
		)
	default:
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs for user %d: %w", userID, err)
	}

	result.UserType = s.roleName(user.UserType)
	for _, job := range jobs {
		if job.Immediate == "yes" {
			result.EmergencyJobs = append(result.EmergencyJobs, job)
		} else {
			result.NormalJobs = append(result.NormalJobs, job)
		}
	}

	return result, nil
}

// GetAll returns a filtered page of jobs, newest first.
func (s *Store) GetAll(ctx context.Context, filter store.JobFilter) (*store.JobPage, error) {
	f := filter.Normalized()

	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ID > 0 {
		add("j.id = $%d", f.ID)
	}
	if len(f.Lang) > 0 {
		add("j.from_language_id = ANY($%d)", pq.Array(f.Lang))
	}
	if len(f.Status) > 0 {
		add("j.status = ANY($%d)", pq.Array(f.Status))
	}
	if f.CustomerEmail != "" {
		add("j.user_id IN (SELECT id FROM users WHERE email = $%d)", f.CustomerEmail)
	}
	if f.DueFrom != nil {
		add("j.due >= $%d", *f.DueFrom)
	}
	if f.DueTo != nil {
		add("j.due <= $%d", *f.DueTo)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs j"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM jobs j%s ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d",
		jobColumns, where, len(args)+1, len(args)+2)
	jobs, err := s.queryJobs(ctx, query, append(args, f.PerPage, f.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return &store.JobPage{
		Data:    jobs,
		Total:   total,
		Page:    f.Page,
		PerPage: f.PerPage,
	}, nil
}
