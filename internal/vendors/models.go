package vendors

import "time"

// Vendor is a storefront owned by a single user. Vendor-role signups get a
// lightweight vendor row created for them automatically.
type Vendor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        *string   `json:"type"`
	Address     *string   `json:"address"`
	OwnerUserID *string   `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewVendor struct {
	Name        string  `json:"name" validate:"required"`
	Type        *string `json:"type"`
	Address     *string `json:"address"`
	OwnerUserID *string `json:"owner_user_id"`
}

type UpdateVendor struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Address *string `json:"address"`
}
