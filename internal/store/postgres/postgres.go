// Package postgres implements the store interfaces using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dtapi/internal/store"

	_ "github.com/lib/pq"
)

// Roles holds the role identifiers stored in users.user_type.
type Roles struct {
	Customer   string
	Translator string
}

// Option configures a Store.
type Option func(*Store)

// WithRoles sets the customer and translator role identifiers.
func WithRoles(customer, translator string) Option {
	return func(s *Store) {
		s.roles = Roles{Customer: customer, Translator: translator}
	}
}

// WithClock overrides the time source used for due dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store provides PostgreSQL-backed implementations of all repositories.
type Store struct {
	db    *sql.DB
	roles Roles
	now   func() time.Time
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, databaseURL string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newStore(db, opts...), nil
}

func newStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		roles: Roles{Customer: "1", Translator: "2"},
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the connection pool for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) getExecutor(tx store.DBTransaction) store.DBTransaction {
	if tx != nil {
		return tx
	}
	return s.db
}

// roleName turns a user_type into the name used in API responses.
func (s *Store) roleName(userType string) string {
	switch userType {
	case s.roles.Customer:
		return "customer"
	case s.roles.Translator:
		return "translator"
	}
	return ""
}
