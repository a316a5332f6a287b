package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"dtapi/internal/store"
	"dtapi/pkg/api"
)

const (
	// scheduledLayout is the m/d/Y H:i format of due_date + due_time.
	scheduledLayout = "01/02/2006 15:04"

	// immediateLead is how far ahead an immediate booking is due.
	immediateLead = 5 * time.Minute

	msgFillAllFields = "Du måste fylla in alla fält"
)

var knownStatuses = []string{
	api.StatusPending, api.StatusAssigned, api.StatusStarted, api.StatusCompleted,
	api.StatusWithdrawBefore24, api.StatusWithdrawAfter24, api.StatusTimedOut, api.StatusCancelled,
}

func failResult(message, field string) *store.StoreResult {
	return &store.StoreResult{Status: store.ResultFail, Message: message, FieldName: field}
}

// Store books a new job for a customer.
// Validation problems come back as a "fail" result, not as an error.
func (s *Store) Store(ctx context.Context, user *store.User, data store.Payload) (*store.StoreResult, error) {
	if user == nil || user.UserType != s.roles.Customer {
		return failResult("Translator can not create booking", ""), nil
	}

	if data.Empty("from_language_id") {
		return failResult(msgFillAllFields, "from_language_id"), nil
	}

	// Anything but "yes", including a missing field, is a scheduled booking.
	immediate := data.String("immediate") == "yes"
	if !immediate {
		switch {
		case data.Empty("due_date"):
			return failResult(msgFillAllFields, "due_date"), nil
		case data.Empty("due_time"):
			return failResult(msgFillAllFields, "due_time"), nil
		case data.Empty("customer_phone_type") && data.Empty("customer_physical_type"):
			return failResult("Du måste göra ett val här", "customer_phone_type"), nil
		case data.Empty("duration"):
			return failResult(msgFillAllFields, "duration"), nil
		}
	} else if data.Empty("duration") {
		return failResult(msgFillAllFields, "duration"), nil
	}

	now := s.now()
	job := store.Job{
		UserID:               user.ID,
		Status:               api.StatusPending,
		CustomerPhoneType:    yesNo(!data.Empty("customer_phone_type")),
		CustomerPhysicalType: yesNo(!data.Empty("customer_physical_type")),
		ByAdmin:              data.StringOr("by_admin", "no"),
		JobType:              jobTypeFor(user.ConsumerType),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	langID, ok := data.Int64("from_language_id")
	if !ok {
		return failResult(msgFillAllFields, "from_language_id"), nil
	}
	job.FromLanguageID = int(langID)

	duration, ok := data.Int64("duration")
	if !ok {
		return failResult(msgFillAllFields, "duration"), nil
	}
	job.Duration = int(duration)

	if immediate {
		job.Immediate = "yes"
		job.CustomerPhoneType = "yes"
		job.Due = now.Add(immediateLead)
	} else {
		due, err := time.ParseInLocation(scheduledLayout,
			strings.TrimSpace(data.String("due_date"))+" "+strings.TrimSpace(data.String("due_time")), time.UTC)
		if err != nil {
			return failResult("Invalid due date", "due_date"), nil
		}
		if due.Before(now) {
			return failResult("Can't create booking in past", "due_date"), nil
		}
		job.Immediate = "no"
		job.Due = due
	}

	jobFor := data.Strings("job_for")
	job.Gender, job.Certified = genderAndCertification(jobFor)

	query := `
		INSERT INTO jobs (user_id, from_language_id, immediate, due, duration, status, gender, certified,
			job_type, customer_phone_type, customer_physical_type, by_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		job.UserID, job.FromLanguageID, job.Immediate, job.Due, job.Duration, job.Status,
		job.Gender, job.Certified, job.JobType, job.CustomerPhoneType, job.CustomerPhysicalType,
		job.ByAdmin, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	return &store.StoreResult{
		Status:    store.ResultSuccess,
		ID:        job.ID,
		Immediate: job.Immediate,
		JobFor:    jobFor,
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func jobTypeFor(consumerType string) string {
	switch consumerType {
	case "rwsconsumer":
		return "rws"
	case "ngo":
		return "unpaid"
	case "paid":
		return "paid"
	}
	return ""
}

// genderAndCertification derives the gender and certification requirements
// from the job_for checkboxes.
func genderAndCertification(jobFor []string) (gender, certified string) {
	has := func(v string) bool { return slices.Contains(jobFor, v) }

	switch {
	case has("male"):
		gender = "male"
	case has("female"):
		gender = "female"
	}

	normal := has("normal")
	switch {
	case normal && has("certified"):
		certified = "both"
	case normal && has("certified_in_law"):
		certified = "n_law"
	case normal && has("certified_in_health"):
		certified = "n_health"
	case normal:
		certified = "normal"
	case has("certified"):
		certified = "yes"
	case has("certified_in_law"):
		certified = "law"
	case has("certified_in_health"):
		certified = "health"
	}

	return gender, certified
}

// dueLayouts are accepted for the "due" field of an update.
var dueLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"}

func parseDue(v string) (time.Time, error) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due %q", v)
}

type columnUpdate struct {
	column string
	value  any
}

// diffJob compares the editable fields of job against data.
func diffJob(job *store.Job, data store.Payload) ([]store.FieldChange, []columnUpdate, error) {
	var changes []store.FieldChange
	var updates []columnUpdate

	record := func(field, oldVal, newVal string, value any) {
		if oldVal == newVal {
			return
		}
		changes = append(changes, store.FieldChange{Field: field, Old: oldVal, New: newVal})
		updates = append(updates, columnUpdate{column: field, value: value})
	}

	if data.Has("due") {
		due, err := parseDue(data.String("due"))
		if err != nil {
			return nil, nil, err
		}
		if !due.Equal(job.Due) {
			record("due", job.Due.Format(time.RFC3339), due.Format(time.RFC3339), due)
		}
	}

	if data.Has("from_language_id") {
		lang, ok := data.Int64("from_language_id")
		if !ok {
			return nil, nil, fmt.Errorf("invalid from_language_id %q", data.String("from_language_id"))
		}
		record("from_language_id", strconv.Itoa(job.FromLanguageID), strconv.FormatInt(lang, 10), int(lang))
	}

	if data.Has("status") {
		status := data.String("status")
		if !slices.Contains(knownStatuses, status) {
			return nil, nil, fmt.Errorf("invalid status %q", status)
		}
		record("status", job.Status, status, status)
	}

	for _, field := range []struct {
		key string
		cur string
	}{
		{"admin_comments", job.AdminComments},
		{"reference", job.Reference},
		{"session_time", job.SessionTime},
	} {
		if data.Has(field.key) {
			v := data.String(field.key)
			record(field.key, field.cur, v, v)
		}
	}

	return changes, updates, nil
}

// UpdateJob applies the editable fields of data to the job and logs the
// changes against the acting user, all in one transaction.
func (s *Store) UpdateJob(ctx context.Context, id int64, data store.Payload, user *store.User) (*store.UpdateResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	job, err := s.jobByID(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	changes, updates, err := diffJob(job, data)
	if err != nil {
		return nil, err
	}

	result := &store.UpdateResult{Status: "Updated", Changes: []store.FieldChange{}}
	if len(changes) == 0 {
		return result, tx.Commit()
	}

	sets := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+2)
	for i, u := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", u.column, i+1))
		args = append(args, u.value)
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, s.now(), id)

	query := fmt.Sprintf("UPDATE jobs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update job %d: %w", id, err)
	}

	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}

	var userID *int64
	if user != nil {
		userID = &user.ID
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO job_logs (job_id, user_id, changes, created_at) VALUES ($1, $2, $3, $4)`,
		id, userID, changesJSON, s.now(),
	); err != nil {
		return nil, fmt.Errorf("failed to log job %d changes: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result.Changes = changes
	return result, nil
}
