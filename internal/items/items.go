package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Storer interface {
	SearchItems(ctx context.Context, p SearchParams) ([]Item, error)
	InsertItem(ctx context.Context, ni NewItem) (Item, error)
	GetItemByID(ctx context.Context, id string) (Item, error)
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

func scanItem(row interface{ Scan(...any) error }, i *Item) error {
	return row.Scan(&i.ID, &i.Name, &i.Price, &i.Stock, &i.ImageURL,
		&i.VendorID, &i.CategoryID, &i.Description, &i.Status,
		&i.CreatedAt, &i.UpdatedAt)
}

func (s *Store) SearchItems(ctx context.Context, p SearchParams) ([]Item, error) {
	query := `SELECT * FROM items_search($1, $2, $3, $4, $5)`
	rows, err := s.db.QueryContext(ctx, query, p.Search, p.Limit, p.Offset, p.Category, p.Vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to call items_search: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var i Item
		if err := scanItem(rows, &i); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

// InsertItem goes through the items_insert stored procedure so the database
// validates the vendor and category references.
func (s *Store) InsertItem(ctx context.Context, ni NewItem) (Item, error) {
	status := ni.Status
	if status == "" {
		status = StatusDraft
	}

	query := `SELECT * FROM items_insert($1, $2, $3, $4, $5, $6, $7, $8)`
	var i Item
	err := scanItem(s.db.QueryRowContext(ctx, query,
		ni.Name, ni.Price, ni.ImageURL, ni.VendorID, ni.CategoryID,
		ni.Description, ni.Stock, status), &i)
	if err != nil {
		return Item{}, fmt.Errorf("failed to call items_insert: %w", err)
	}
	return i, nil
}

func (s *Store) GetItemByID(ctx context.Context, id string) (Item, error) {
	query := `
		SELECT id, name, price, stock, image_url, vendor_id, category_id,
		       description, status, created_at, updated_at
		FROM items
		WHERE id = $1`
	var i Item
	err := scanItem(s.db.QueryRowContext(ctx, query, id), &i)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("failed to query item: %w", err)
	}
	return i, nil
}
