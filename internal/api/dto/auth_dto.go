package dto

import (
	"time"

	"github.com/Ahmed-Younes0x/greenswap/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username        string      `json:"username"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	PasswordConfirm string      `json:"password_confirm"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	UserType        domain.Role `json:"user_type"`
	Phone           string      `json:"phone"`
	Location        string      `json:"location"`
	Organization    string      `json:"organization"`
	Bio             string      `json:"bio"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogoutRequest carries the refresh token to revoke.
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshRequest payload for token refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ProfileUpdateRequest carries partial profile edits.
type ProfileUpdateRequest struct {
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	Organization *string `json:"organization"`
	Bio          *string `json:"bio"`
}

// UserResponse is the public account snapshot.
type UserResponse struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	UserType     domain.Role `json:"user_type"`
	Phone        string      `json:"phone"`
	Location     string      `json:"location"`
	Organization string      `json:"organization"`
	Bio          string      `json:"bio"`
	Verified     bool        `json:"is_verified"`
	Rating       float64     `json:"rating"`
	TotalDeals   int         `json:"total_deals"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TokenPairResponse mirrors the issued token pair.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is the login/register envelope.
type AuthResponse struct {
	User   UserResponse      `json:"user"`
	Tokens TokenPairResponse `json:"tokens"`
}

// NewUserResponse maps a domain user onto the wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		UserType:     user.Role,
		Phone:        user.Phone,
		Location:     user.Location,
		Organization: user.Organization,
		Bio:          user.Bio,
		Verified:     user.Verified,
		Rating:       user.Rating,
		TotalDeals:   user.TotalDeals,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
