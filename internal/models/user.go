package models

// Role decides which half of the application a user sees.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

// ParseRole returns the role for s, defaulting to customer.
func ParseRole(s string) Role {
	if Role(s) == RoleOwner {
		return RoleOwner
	}
	return RoleCustomer
}

// User is the profile snapshot the backend returns on login.
type User struct {
	ID             string  `json:"_id"`
	FullName       string  `json:"fullName"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phoneNumber"`
	ProfilePicture *string `json:"profilePicture"`
	Role           Role    `json:"role"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
