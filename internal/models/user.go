// internal/models/user.go
package models

import "time"

// User is a dealership account created through the signup flow. Payment
// collection happens in the external billing front-end; by the time a row
// lands here the account is considered paid or trialing.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email" validate:"required,email"`
	Name           string    `json:"name,omitempty"`
	DealershipName string    `json:"dealership_name,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type SignupRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Name           string `json:"name" validate:"required"`
	DealershipName string `json:"dealership_name" validate:"required"`
	PhoneNumber    string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken    string `json:"access_token"`
	ExpiresIn      int64  `json:"expires_in"`
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	DealershipName string `json:"dealership_name,omitempty"`
}
