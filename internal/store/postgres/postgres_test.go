package postgres

import (
	"context"
	"testing"
	"time"

	"dtapi/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	s := newStore(db, WithRoles("1", "2"), WithClock(func() time.Time { return fixedNow }))
	return s, mock
}

var jobColumnNames = []string{
	"id", "user_id", "from_language_id", "immediate", "due", "duration", "status",
	"gender", "certified", "job_type", "customer_phone_type", "customer_physical_type",
	"user_email", "reference", "address", "instructions", "town", "admin_comments",
	"flagged", "manually_handled", "by_admin", "session_time", "created_at", "updated_at",
}

func jobRows(jobs ...store.Job) *sqlmock.Rows {
	rows := sqlmock.NewRows(jobColumnNames)
	for _, j := range jobs {
		rows.AddRow(
			j.ID, j.UserID, j.FromLanguageID, j.Immediate, j.Due, j.Duration, j.Status,
			j.Gender, j.Certified, j.JobType, j.CustomerPhoneType, j.CustomerPhysicalType,
			j.UserEmail, j.Reference, j.Address, j.Instructions, j.Town, j.AdminComments,
			j.Flagged, j.ManuallyHandled, j.ByAdmin, j.SessionTime, j.CreatedAt, j.UpdatedAt,
		)
	}
	return rows
}

var userColumnNames = []string{"id", "name", "email", "user_type", "consumer_type", "created_at"}

func userRows(u store.User) *sqlmock.Rows {
	return sqlmock.NewRows(userColumnNames).
		AddRow(u.ID, u.Name, u.Email, u.UserType, u.ConsumerType, u.CreatedAt)
}

func testJob(id int64) store.Job {
	return store.Job{
		ID:              id,
		UserID:          7,
		FromLanguageID:  3,
		Immediate:       "no",
		Due:             fixedNow.Add(48 * time.Hour),
		Duration:        60,
		Status:          "pending",
		Flagged:         "no",
		ManuallyHandled: "no",
		ByAdmin:         "no",
		CreatedAt:       fixedNow.Add(-time.Hour),
		UpdatedAt:       fixedNow.Add(-time.Hour),
	}
}

func customer() store.User {
	return store.User{ID: 7, Name: "Anna", Email: "anna@example.com", UserType: "1", ConsumerType: "paid", CreatedAt: fixedNow}
}

func translator() store.User {
	return store.User{ID: 9, Name: "Tolk", Email: "tolk@example.com", UserType: "2", CreatedAt: fixedNow}
}

func TestRoleName(t *testing.T) {
	s, _ := newMockStore(t)
	defer s.db.Close()

	if got := s.roleName("1"); got != "customer" {
		t.Errorf("roleName(1) = %q", got)
	}
	if got := s.roleName("2"); got != "translator" {
		t.Errorf("roleName(2) = %q", got)
	}
	if got := s.roleName("3"); got != "" {
		t.Errorf("roleName(3) = %q", got)
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	s := newStore(db)
	defer s.Close()

	mock.ExpectPing()

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
