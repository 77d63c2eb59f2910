package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Storer is the persistence surface the handlers and middleware need.
type Storer interface {
	InsertUser(ctx context.Context, nu NewUser) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserRole(ctx context.Context, id string) (string, error)
	UpdateUser(ctx context.Context, id string, uu UpdateUser) (User, error)
}

// Conf wraps the Storer interface so handler structs can embed it and call
// store methods directly.
type Conf struct {
	Storer
}

func NewConf(s Storer) (Conf, error) {
	if s == nil {
		return Conf{}, fmt.Errorf("store is nil")
	}
	return Conf{Storer: s}, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Store{db: db}, nil
}

const userColumns = `id, email, full_name, phone, role, created_at, updated_at`

func (s *Store) InsertUser(ctx context.Context, nu NewUser) (User, error) {
	role := nu.Role
	if role == "" {
		role = "customer"
	}

	query := `
		INSERT INTO users (id, email, full_name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + userColumns
	var u User
	err := s.db.QueryRowContext(ctx, query, nu.ID, nu.Email, nu.FullName, role).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u User
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, err
		}
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetUserRole returns the application role for a user id. A missing row is
// not an error; those users simply have no role yet.
func (s *Store) GetUserRole(ctx context.Context, id string) (string, error) {
	query := `SELECT role FROM users WHERE id = $1`
	var role string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query user role: %w", err)
	}
	return role, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, uu UpdateUser) (User, error) {
	query := `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    phone = COALESCE($3, phone),
		    role = COALESCE($4, role),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	var u User
	err := s.db.QueryRowContext(ctx, query, id, uu.FullName, uu.Phone, uu.Role).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, err
		}
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}
