package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the payload of the HS256 bearer token issued at login.
type AccessClaims struct {
	UserID int `json:"userId"`
	jwt.RegisteredClaims
}
