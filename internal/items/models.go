package items

import "time"

// Item statuses. New items start as drafts unless the creator says
// otherwise.
const (
	StatusDraft       = "draft"
	StatusPublished   = "published"
	StatusUnderReview = "under_review"
)

// Item is a sellable listing. Price is in the smallest currency unit.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    *string   `json:"image_url"`
	VendorID    string    `json:"vendor_id"`
	CategoryID  string    `json:"category_id"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewItem struct {
	Name        string  `json:"name" validate:"required"`
	Price       int64   `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url"`
	VendorID    string  `json:"vendor_id" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft published under_review"`
}

// SearchParams are the filters items_search accepts. Nil category/vendor
// means no filter.
type SearchParams struct {
	Search   string
	Category *string
	Vendor   *string
	Limit    int
	Offset   int
}
