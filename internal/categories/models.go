package categories

import "time"

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    *string   `json:"image_url"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewCategory struct {
	Name        string  `json:"name" validate:"required"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

// UpdateCategory holds only the fields present in the PATCH body.
type UpdateCategory struct {
	Name        *string `json:"name"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}
