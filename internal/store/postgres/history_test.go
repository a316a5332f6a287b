package postgres

import (
	"context"
	"database/sql"
	"testing"

	"dtapi/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetUsersJobsHistory_Customer(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	c := customer()
	done := testJob(3)
	done.Status = "completed"

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(c.ID).
		WillReturnRows(userRows(c))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs j WHERE j.user_id = \$1 AND j.status = ANY\(\$2\)`).
		WithArgs(c.ID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(31)))
	mock.ExpectQuery(`ORDER BY j.due DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(c.ID, sqlmock.AnyArg(), store.DefaultPerPage, 15).
		WillReturnRows(jobRows(done))

	got, err := s.GetUsersJobsHistory(context.Background(), c.ID, store.JobFilter{Page: 2})
	if err != nil {
		t.Fatalf("GetUsersJobsHistory failed: %v", err)
	}

	if got.UserType != "customer" {
		t.Errorf("got usertype %q", got.UserType)
	}
	if got.NumPages != 3 || got.PageNum != 2 {
		t.Errorf("got numpages=%d pagenum=%d, want 3/2", got.NumPages, got.PageNum)
	}
	if len(got.NormalJobs) != 1 || len(got.EmergencyJobs) != 0 {
		t.Errorf("unexpected jobs: %+v / %+v", got.NormalJobs, got.EmergencyJobs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetUsersJobsHistory_Translator(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	tr := translator()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(tr.ID).
		WillReturnRows(userRows(tr))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs j JOIN translator_job_rel r`).
		WithArgs(tr.ID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`r.cancel_at IS NULL .+ ORDER BY j.due DESC`).
		WithArgs(tr.ID, sqlmock.AnyArg(), store.DefaultPerPage, 0).
		WillReturnRows(sqlmock.NewRows(jobColumnNames))

	got, err := s.GetUsersJobsHistory(context.Background(), tr.ID, store.JobFilter{})
	if err != nil {
		t.Fatalf("GetUsersJobsHistory failed: %v", err)
	}
	if got.UserType != "translator" || got.NumPages != 0 || got.PageNum != 1 {
		t.Errorf("got %+v", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetUsersJobsHistory_UnknownUser(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(int64(50)).
		WillReturnError(sql.ErrNoRows)

	got, err := s.GetUsersJobsHistory(context.Background(), 50, store.JobFilter{})
	if err != nil {
		t.Fatalf("GetUsersJobsHistory failed: %v", err)
	}
	if len(got.NormalJobs) != 0 || got.UserType != "" {
		t.Errorf("expected empty history, got %+v", got)
	}
}
