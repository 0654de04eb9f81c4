package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kmccarty/tradeops/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var roleStr string

	if err := s.Scan(&u.Username, &u.FullName, &roleStr, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}

	u.Role = user.Role(roleStr)

	return &u, nil
}

const selectUserColumns = `username, full_name, role, password_hash, created_at`

func (s *Store) GetUser(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, full_name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	if err := s.db.QueryRowContext(ctx, query,
		u.Username, u.FullName, u.Role, u.PasswordHash,
	).Scan(&u.CreatedAt); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) ListUsers(ctx context.Context, role *user.Role) ([]*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users`

	var args []any

	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}

	query += ` ORDER BY full_name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}
