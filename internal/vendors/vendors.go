package vendors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Storer interface {
	SearchVendors(ctx context.Context, search string, limit, offset int) ([]Vendor, error)
	InsertVendor(ctx context.Context, nv NewVendor) (Vendor, error)
	GetVendorByID(ctx context.Context, id string) (Vendor, error)
	GetVendorByOwner(ctx context.Context, ownerUserID string) (Vendor, error)
	UpdateVendor(ctx context.Context, id string, uv UpdateVendor) (Vendor, error)
	DeleteVendor(ctx context.Context, id string) (string, error)
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

const vendorColumns = `id, name, type, address, owner_user_id, created_at, updated_at`

func (s *Store) SearchVendors(ctx context.Context, search string, limit, offset int) ([]Vendor, error) {
	query := `SELECT * FROM vendors_search($1, $2, $3)`
	rows, err := s.db.QueryContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to call vendors_search: %w", err)
	}
	defer rows.Close()

	vendors := []Vendor{}
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Type, &v.Address, &v.OwnerUserID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendors: %w", err)
	}
	return vendors, nil
}

func (s *Store) InsertVendor(ctx context.Context, nv NewVendor) (Vendor, error) {
	query := `
		INSERT INTO vendors (name, type, address, owner_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + vendorColumns
	var v Vendor
	err := s.db.QueryRowContext(ctx, query, nv.Name, nv.Type, nv.Address, nv.OwnerUserID).
		Scan(&v.ID, &v.Name, &v.Type, &v.Address, &v.OwnerUserID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return Vendor{}, fmt.Errorf("failed to insert vendor: %w", err)
	}
	return v, nil
}

func (s *Store) GetVendorByID(ctx context.Context, id string) (Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	var v Vendor
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&v.ID, &v.Name, &v.Type, &v.Address, &v.OwnerUserID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vendor{}, err
		}
		return Vendor{}, fmt.Errorf("failed to query vendor: %w", err)
	}
	return v, nil
}

func (s *Store) GetVendorByOwner(ctx context.Context, ownerUserID string) (Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE owner_user_id = $1 LIMIT 1`
	var v Vendor
	err := s.db.QueryRowContext(ctx, query, ownerUserID).
		Scan(&v.ID, &v.Name, &v.Type, &v.Address, &v.OwnerUserID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vendor{}, err
		}
		return Vendor{}, fmt.Errorf("failed to query vendor by owner: %w", err)
	}
	return v, nil
}

func (s *Store) UpdateVendor(ctx context.Context, id string, uv UpdateVendor) (Vendor, error) {
	query := `
		UPDATE vendors
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    address = COALESCE($4, address),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + vendorColumns
	var v Vendor
	err := s.db.QueryRowContext(ctx, query, id, uv.Name, uv.Type, uv.Address).
		Scan(&v.ID, &v.Name, &v.Type, &v.Address, &v.OwnerUserID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Vendor{}, err
		}
		return Vendor{}, fmt.Errorf("failed to update vendor: %w", err)
	}
	return v, nil
}

func (s *Store) DeleteVendor(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM vendors WHERE id = $1 RETURNING id`
	var deleted string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("failed to delete vendor: %w", err)
	}
	return deleted, nil
}
