// Package orders implements the composite order write. The order header and
// its order_items rows are two separate writes with a compensating delete of
// the header when the second write fails, so a paid-nothing order never
// survives a partial failure.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"marketplace-service/pkg/logkey"
)

type Storer interface {
	InsertOrder(ctx context.Context, buyerID *string, total int64) (Order, error)
	InsertOrderItems(ctx context.Context, orderID int64, lines []OrderLine) error
	DeleteOrder(ctx context.Context, orderID int64) error
	GetOrderByID(ctx context.Context, orderID int64) (Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string, transactionID string) error
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

// CreateOrder inserts the order header and its lines. Total is the sum of
// price x quantity over the lines. If the order_items insert fails, the
// just-created header is deleted before the error is returned; that delete
// is best effort and only logged when it fails itself.
func (c Conf) CreateOrder(ctx context.Context, no NewOrder) (Order, error) {
	if len(no.Items) == 0 {
		return Order{}, fmt.Errorf("order has no items")
	}

	var total int64
	for _, line := range no.Items {
		total += line.Price * int64(line.Quantity)
	}

	order, err := c.InsertOrder(ctx, no.BuyerID, total)
	if err != nil {
		return Order{}, fmt.Errorf("failed to create order: %w", err)
	}

	if err := c.InsertOrderItems(ctx, order.ID, no.Items); err != nil {
		if delErr := c.DeleteOrder(ctx, order.ID); delErr != nil {
			slog.Error("failed to compensate order after order_items failure",
				slog.Int64("order_id", order.ID), slog.String(logkey.ERROR, delErr.Error()))
		}
		return Order{}, fmt.Errorf("failed to create order items: %w", err)
	}

	return order, nil
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

const orderColumns = `id, buyer_id, total, status, stripe_transaction_id, created_at, updated_at`

func (s *Store) InsertOrder(ctx context.Context, buyerID *string, total int64) (Order, error) {
	query := `
		INSERT INTO orders (buyer_id, total, status, created_at, updated_at)
		VALUES ($1, $2, 'pending', NOW(), NOW())
		RETURNING ` + orderColumns
	var o Order
	err := s.db.QueryRowContext(ctx, query, buyerID, total).
		Scan(&o.ID, &o.BuyerID, &o.Total, &o.Status, &o.StripeTransactionID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

func (s *Store) InsertOrderItems(ctx context.Context, orderID int64, lines []OrderLine) error {
	query := `
		INSERT INTO order_items (order_id, item_id, quantity, price)
		VALUES ($1, $2, $3, $4)`
	for _, line := range lines {
		if _, err := s.db.ExecContext(ctx, query, orderID, line.ItemID, line.Quantity, line.Price); err != nil {
			return fmt.Errorf("failed to insert order item %s: %w", line.ItemID, err)
		}
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	query := `DELETE FROM orders WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (s *Store) GetOrderByID(ctx context.Context, orderID int64) (Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o Order
	err := s.db.QueryRowContext(ctx, query, orderID).
		Scan(&o.ID, &o.BuyerID, &o.Total, &o.Status, &o.StripeTransactionID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("failed to query order: %w", err)
	}
	return o, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string, transactionID string) error {
	query := `
		UPDATE orders
		SET status = $2, stripe_transaction_id = $3, updated_at = NOW()
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, orderID, status, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
