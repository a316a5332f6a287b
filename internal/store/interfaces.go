package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNotFound is returned when an addressed job or user does not exist.
var ErrNotFound = errors.New("not found")

// DBTransaction defines the methods shared by *sql.DB and *sql.Tx
// This allows us to pass either a connection pool or an active transaction to the repository methods.
type DBTransaction interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// UserStore handles retrieving users for authentication.
type UserStore interface {
	// GetUserByID returns a user by its ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByTokenHash returns the user owning the hashed API token.
	GetUserByTokenHash(ctx context.Context, hash string) (*User, error)
}

// BookingStore handles job and distance persistence and queries.
// Every mutation of a job happens behind this interface.
type BookingStore interface {
	// GetUsersJobs returns the open jobs of a customer or translator.
	GetUsersJobs(ctx context.Context, userID int64) (*UsersJobs, error)

	// GetAll returns a filtered page of all jobs (admin listing).
	GetAll(ctx context.Context, filter JobFilter) (*JobPage, error)

	// FindWithRelation returns a job with the named relation loaded eagerly.
	FindWithRelation(ctx context.Context, id int64, relation string) (*Job, error)

	// Store books a new job on behalf of user.
	Store(ctx context.Context, user *User, data Payload) (*StoreResult, error)

	// UpdateJob applies an edit to an existing job.
	UpdateJob(ctx context.Context, id int64, data Payload, user *User) (*UpdateResult, error)

	// StoreJobEmail saves contact details on a job and queues its confirmation email.
	StoreJobEmail(ctx context.Context, data Payload) (*JobEmailResult, error)

	// GetUsersJobsHistory returns a page of the user's finished jobs.
	GetUsersJobsHistory(ctx context.Context, userID int64, filter JobFilter) (*JobHistory, error)

	// AcceptJob assigns a pending job to the translator.
	AcceptJob(ctx context.Context, data Payload, user *User) (*AcceptResult, error)

	// UpdateDistance sets distance and time on the job's distance record.
	UpdateDistance(ctx context.Context, jobID int64, distance string, time *string) error

	// UpdateJobDetails applies the feed's partial update to a job.
	UpdateJobDetails(ctx context.Context, jobID int64, update JobDetailsUpdate) error
}

// Outbox queues notification emails for later delivery.
type Outbox interface {
	// Enqueue adds an email to the outbox and returns its ID.
	Enqueue(ctx context.Context, tx DBTransaction, email *OutboxEmail) (int64, error)

	// Count tracks the number of undelivered emails.
	Count(ctx context.Context) (int64, error)
}
