package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenClaims carries the verified customer identity inside the JWT.
type AccessTokenClaims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input for minting a customer session token.
type AccessTokenPayload struct {
	Phone string
	JTI   string
}
