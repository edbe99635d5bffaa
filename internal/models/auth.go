package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	NIC       string `json:"nic" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserInfo  `json:"user"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RegisterRequest creates a new citizen or officer account.
type RegisterRequest struct {
	FullName              string   `json:"full_name" validate:"required"`
	NIC                   string   `json:"nic" validate:"required"`
	Email                 string   `json:"email" validate:"required,email"`
	Password              string   `json:"password" validate:"required,min=6"`
	Role                  UserRole `json:"role" validate:"required"`
	District              string   `json:"district"`
	DivisionalSecretariat string   `json:"divisional_secretariat"`
	GNDivision            string   `json:"gn_division"`
	OfficerKey            string   `json:"officer_key"`
}

// ProxyRegisterRequest lets an officer register a citizen without portal
// access (the elderly registration flow).
type ProxyRegisterRequest struct {
	FullName string `json:"full_name" validate:"required"`
	NIC      string `json:"nic" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	NIC      string   `json:"nic"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	NIC      string   `json:"nic"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
