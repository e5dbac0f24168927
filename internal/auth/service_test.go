package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/shared"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.Config{
		JWTSecretKey:                "access-secret-for-tests",
		JWTRefreshSecretKey:         "refresh-secret-for-tests",
		JWTIssuer:                   "startupteam-test",
		JWTAccessTokenExpiryMinutes: 15 * time.Minute,
		JWTRefreshTokenExpiryDays:   7 * 24 * time.Hour,
	}, zap.NewNop())
}

func TestIssueTokenPair_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.IssueTokenPair(userID)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	access, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, access.UserID)
	assert.Empty(t, access.Type)

	refresh, err := svc.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refresh.UserID)
	assert.Equal(t, shared.RefreshTokenType, refresh.Type)
	assert.NotEmpty(t, refresh.ID)
}

func TestVerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestJWTService()
	access, _, err := svc.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerifyRefreshToken_RejectsRefreshTypedTokenSignedWithAccessSecret(t *testing.T) {
	svc := newTestJWTService()
	claims := &shared.Claims{
		UserID: uuid.New(),
		Type:   shared.RefreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "startupteam-test",
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret-for-tests"))
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(forged)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerifyAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService()
	refresh, _, err := svc.IssueRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerifyRefreshToken_FailureCausesCollapse(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	valid, _, err := svc.IssueRefreshToken(userID)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &shared.Claims{UserID: userID, Type: shared.RefreshTokenType}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	expiredSvc := newTestJWTService()
	expiredSvc.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, _, err := expiredSvc.IssueRefreshToken(userID)
	require.NoError(t, err)

	cases := map[string]string{
		"malformed":      "not-a-jwt",
		"tampered":       valid[:len(valid)-2] + "xx",
		"none algorithm": noneToken,
		"expired":        expired,
		"empty":          "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyRefreshToken(token)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
		})
	}
}

func TestHashToken(t *testing.T) {
	svc := newTestJWTService()

	a := svc.HashToken("token-a")
	assert.Equal(t, a, svc.HashToken("token-a"))
	assert.NotEqual(t, a, svc.HashToken("token-b"))
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "token-a")
}

func TestGenerateResetToken(t *testing.T) {
	svc := newTestJWTService()

	first, err := svc.GenerateResetToken()
	require.NoError(t, err)
	second, err := svc.GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}
