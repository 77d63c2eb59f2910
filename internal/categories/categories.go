// Package categories accesses category rows through the database's stored
// procedures. Reads that need no validation hit the table directly.
package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Storer interface {
	SearchCategories(ctx context.Context, search string, limit, offset int) ([]Category, error)
	InsertCategory(ctx context.Context, nc NewCategory) (Category, error)
	GetCategoryByID(ctx context.Context, id string) (Category, error)
	UpdateCategory(ctx context.Context, id string, uc UpdateCategory) (Category, error)
	DeleteCategory(ctx context.Context, id string) (string, error)
}

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

func (s *Store) SearchCategories(ctx context.Context, search string, limit, offset int) ([]Category, error) {
	query := `SELECT * FROM categories_search($1, $2, $3)`
	rows, err := s.db.QueryContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to call categories_search: %w", err)
	}
	defer rows.Close()

	cats := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return cats, nil
}

func (s *Store) InsertCategory(ctx context.Context, nc NewCategory) (Category, error) {
	query := `SELECT * FROM categories_create($1, $2, $3)`
	var c Category
	err := s.db.QueryRowContext(ctx, query, nc.Name, nc.ImageURL, nc.Description).
		Scan(&c.ID, &c.Name, &c.ImageURL, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Category{}, fmt.Errorf("failed to call categories_create: %w", err)
	}
	return c, nil
}

func (s *Store) GetCategoryByID(ctx context.Context, id string) (Category, error) {
	query := `
		SELECT id, name, image_url, description, created_at, updated_at
		FROM categories
		WHERE id = $1`
	var c Category
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.ImageURL, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, err
		}
		return Category{}, fmt.Errorf("failed to query category: %w", err)
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, uc UpdateCategory) (Category, error) {
	query := `SELECT * FROM categories_update($1, $2, $3, $4)`
	var c Category
	err := s.db.QueryRowContext(ctx, query, id, uc.Name, uc.ImageURL, uc.Description).
		Scan(&c.ID, &c.Name, &c.ImageURL, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, err
		}
		return Category{}, fmt.Errorf("failed to call categories_update: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (string, error) {
	query := `SELECT categories_delete($1)`
	var deleted sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&deleted)
	if err != nil {
		return "", fmt.Errorf("failed to call categories_delete: %w", err)
	}
	if !deleted.Valid {
		return "", sql.ErrNoRows
	}
	return deleted.String, nil
}
