package dto

import "github.com/counselorhub/counselorhub/internal/app/models"

// LoginRequest accepts either a username or an email
type LoginRequest struct {
	Username string `json:"username" binding:"required_without=Email"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"28800"`
	User        *models.User `json:"user"`
}
