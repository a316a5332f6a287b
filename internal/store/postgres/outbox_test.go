package postgres

import (
	"context"
	"testing"

	"dtapi/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnqueue(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	email := &store.OutboxEmail{
		JobID:     11,
		Recipient: "anna@example.com",
		Name:      "Anna",
		Subject:   "Hej",
		Template:  TemplateJobCreated,
	}

	mock.ExpectQuery(`INSERT INTO email_outbox`).
		WithArgs(int64(11), "anna@example.com", "Anna", "Hej", TemplateJobCreated, []byte("{}"), fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := s.Enqueue(context.Background(), nil, email)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if id != 42 || email.ID != 42 {
		t.Errorf("got id=%d email.ID=%d, want 42", id, email.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCount(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM email_outbox WHERE sent_at IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 4 {
		t.Errorf("got %d, want 4", n)
	}
}
