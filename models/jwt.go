package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// CustomClaims is the token payload accepted by the local HS256 verifier.
type CustomClaims struct {
	jwt.RegisteredClaims
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}
