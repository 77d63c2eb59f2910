package orders

import "time"

// Order statuses.
const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusCanceled = "canceled"
)

// Order is the header row of a purchase. Total is the sum of line totals
// computed once at creation time and never recomputed.
type Order struct {
	ID                  int64     `json:"id"`
	BuyerID             *string   `json:"buyer_id"`
	Total               int64     `json:"total"`
	Status              string    `json:"status"`
	StripeTransactionID *string   `json:"stripe_transaction_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// OrderLine is one requested item with its price snapshot at purchase time.
type OrderLine struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Price    int64  `json:"price" validate:"gte=0"`
}

type NewOrder struct {
	BuyerID *string     `json:"buyer_id"`
	Items   []OrderLine `json:"items" validate:"required,min=1,dive"`
}
