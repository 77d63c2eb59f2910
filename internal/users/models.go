package users

import "time"

// User is an application-level user row. The id comes from the identity
// provider; the role column drives authorization decisions.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewUser struct {
	ID       string  `json:"id" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role" validate:"omitempty,oneof=customer vendor admin"`
}

// UpdateUser carries only the fields present in the PATCH body; nil fields
// leave the existing column untouched.
type UpdateUser struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" validate:"omitempty,oneof=customer vendor admin"`
}
