package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload carried by session tokens.
type UserClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse carries the session token and the resolved user.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
