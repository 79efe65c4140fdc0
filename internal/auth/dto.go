package auth

import "github.com/pawhaven/petshop-backend/internal/users"

// RegisterInput carries the public sign-up fields.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginInput carries the credential fields for sign-in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput pairs the expired access token with its refresh token.
type RefreshInput struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPairDTO is the issued credential pair.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResultDTO bundles the authenticated user with fresh tokens.
type AuthResultDTO struct {
	User   users.UserDTO `json:"user"`
	Tokens TokenPairDTO  `json:"tokens"`
}
