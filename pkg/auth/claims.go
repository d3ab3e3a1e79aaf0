package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CustomerID int64
	Email      string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to customers.
type AccessTokenClaims struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
