package auth

import (
	"github.com/anandbhagyawant/messconnect-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the JWT payload carried by every authenticated request.
type AccessTokenClaims struct {
	UserID string         `json:"uid"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// AccessTokenPayload is the input for minting a token.
type AccessTokenPayload struct {
	UserID string
	Role   enums.UserRole
	JTI    string
}
