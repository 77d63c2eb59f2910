package kafka

import "time"

const (
	TopicAccountCreated = `marketplace.account-created`
	TopicOrderCreated   = `marketplace.order-created`
)

// Events other services consume from kafka.

type AccountCreatedEvent struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderCreatedEvent struct {
	OrderID   int64     `json:"order_id"`
	BuyerID   string    `json:"buyer_id"`
	Total     int64     `json:"total"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}
