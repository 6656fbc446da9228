package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/service"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToInput converts the payload for the auth service.
func (r RegisterRequest) ToInput() service.RegisterInput {
	return service.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserResponse is the public account representation.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

// NewUserResponse maps an account without its password hash.
func NewUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	if !user.CreatedAt.IsZero() {
		created := user.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// AuthResponse standard response for login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}
