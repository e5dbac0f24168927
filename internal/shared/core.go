// File: internal/shared/core.go

// Package shared holds contracts used across feature packages without
// creating import cycles between them.
package shared

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RefreshTokenType is the type tag carried by refresh tokens only.
const RefreshTokenType = "refresh"

// Claims represents the JWT claims structure. Access tokens carry only the
// user id; refresh tokens additionally carry Type and a JTI.
type Claims struct {
	UserID uuid.UUID `json:"id"`
	Type   string    `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is returned to clients after any successful sign-in.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	TokenType             string    `json:"tokenType"`
}

// TokenService issues and verifies session tokens and produces opaque
// single-use credentials such as password reset tokens.
type TokenService interface {
	IssueAccessToken(userID uuid.UUID) (string, time.Time, error)
	IssueRefreshToken(userID uuid.UUID) (string, time.Time, error)
	IssueTokenPair(userID uuid.UUID) (*TokenPair, error)
	VerifyAccessToken(token string) (*Claims, error)
	VerifyRefreshToken(token string) (*Claims, error)
	GenerateResetToken() (string, error)
	HashToken(token string) string
}
