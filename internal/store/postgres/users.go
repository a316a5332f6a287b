package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dtapi/internal/store"
)

const userColumns = "id, name, email, user_type, consumer_type, created_at"

func (s *Store) GetUserByID(ctx context.Context, id int64) (*store.User, error) {
	return s.userByID(ctx, nil, id)
}

func (s *Store) GetUserByTokenHash(ctx context.Context, hash string) (*store.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE api_token_hash = $1"

	var u store.User
	err := s.db.QueryRowContext(ctx, query, hash).Scan(
		&u.ID, &u.Name, &u.Email, &u.UserType, &u.ConsumerType, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}

	return &u, nil
}

func (s *Store) userByID(ctx context.Context, tx store.DBTransaction, id int64) (*store.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	var u store.User
	err := s.getExecutor(tx).QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.UserType, &u.ConsumerType, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}

	return &u, nil
}
