// File: internal/auth/service.go
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/platform/crypto"
	"startupteam_backend/internal/shared"
)

// resetTokenBytes is the entropy of a password reset token (64 hex chars).
const resetTokenBytes = 32

// JWTService implements shared.TokenService with HS256 tokens. Access and
// refresh tokens are signed with independent secrets.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	logger        *zap.Logger
	now           func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg *config.Config, logger *zap.Logger) *JWTService {
	return &JWTService{
		accessSecret:  []byte(cfg.JWTSecretKey),
		refreshSecret: []byte(cfg.JWTRefreshSecretKey),
		accessTTL:     cfg.JWTAccessTokenExpiryMinutes,
		refreshTTL:    cfg.JWTRefreshTokenExpiryDays,
		issuer:        cfg.JWTIssuer,
		logger:        logger.Named("token_service"),
		now:           time.Now,
	}
}

// IssueAccessToken returns a short-lived token carrying only the user id.
func (s *JWTService) IssueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	claims := &shared.Claims{
		UserID:           userID,
		RegisteredClaims: s.registered(userID, now, expiresAt, ""),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		s.logger.Error("Failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign access token: %w", err)
	}
	return token, expiresAt, nil
}

// IssueRefreshToken returns a long-lived token tagged with the refresh type and a JTI.
func (s *JWTService) IssueRefreshToken(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.refreshTTL)
	claims := &shared.Claims{
		UserID:           userID,
		Type:             shared.RefreshTokenType,
		RegisteredClaims: s.registered(userID, now, expiresAt, uuid.NewString()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		s.logger.Error("Failed to sign refresh token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("could not sign refresh token: %w", err)
	}
	return token, expiresAt, nil
}

func (s *JWTService) IssueTokenPair(userID uuid.UUID) (*shared.TokenPair, error) {
	access, accessExp, err := s.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &shared.TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

// VerifyAccessToken validates an access token. Refresh tokens are rejected.
func (s *JWTService) VerifyAccessToken(token string) (*shared.Claims, error) {
	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != "" {
		s.logger.Debug("Rejected typed token presented as access token", zap.String("type", claims.Type))
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken validates a refresh token. Every failure cause yields
// ErrInvalidToken; the cause is only logged.
func (s *JWTService) VerifyRefreshToken(token string) (*shared.Claims, error) {
	claims, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.Type != shared.RefreshTokenType || claims.ID == "" {
		s.logger.Debug("Rejected refresh token without refresh type tag")
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// GenerateResetToken returns 32 cryptographically random bytes, hex-encoded.
func (s *JWTService) GenerateResetToken() (string, error) {
	return crypto.GenerateHexToken(resetTokenBytes)
}

// HashToken returns the SHA-256 hex digest of token.
func (s *JWTService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *JWTService) parse(token string, secret []byte) (*shared.Claims, error) {
	claims := &shared.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		s.logger.Debug("Token verification failed", zap.Error(err))
		return nil, common.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		s.logger.Debug("Token verification failed: missing user id")
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (s *JWTService) registered(userID uuid.UUID, now, expiresAt time.Time, jti string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        jti,
	}
}
