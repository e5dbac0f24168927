package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/platform/database/dbtest"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/shared"
)

// stubTokens implements shared.TokenService with a fixed reset token.
type stubTokens struct {
	shared.TokenService
	resetToken string
}

func (s stubTokens) GenerateResetToken() (string, error) { return s.resetToken, nil }

func (stubTokens) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type MockCredentialNotifier struct {
	mock.Mock
}

func (m *MockCredentialNotifier) SendVerificationCode(ctx context.Context, u *User, code string) {
	m.Called(ctx, u, code)
}

func (m *MockCredentialNotifier) SendPasswordReset(ctx context.Context, u *User, token string) {
	m.Called(ctx, u, token)
}

type userServiceTestSuite struct {
	service  *ServiceImplementation
	repo     Repository
	notifier *MockCredentialNotifier
	now      time.Time
}

func setupUserService(t *testing.T) *userServiceTestSuite {
	t.Helper()
	db := dbtest.New(t, &User{}, &profile.FounderProfile{}, &profile.MemberProfile{})
	repo := NewGORMRepository(db)
	notifier := new(MockCredentialNotifier)
	cfg := &config.Config{
		ResetTokenExpiry:       time.Hour,
		VerificationCodeExpiry: 10 * time.Minute,
		DefaultPhoneRegion:     "US",
	}
	svc := NewService(repo, stubTokens{resetToken: "raw-reset-token"}, notifier, cfg, zap.NewNop())
	ts := &userServiceTestSuite{service: svc, repo: repo, notifier: notifier, now: time.Now()}
	svc.now = func() time.Time { return ts.now }
	return ts
}

func TestRegister_HashesPasswordAndSendsCode(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()

	var sentCode string
	ts.notifier.On("SendVerificationCode", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sentCode = args.String(2) }).Once()

	phone := "(650) 253-0000"
	u, err := ts.service.Register(ctx, RegisterRequest{Name: "Ana", Email: "Ana@Example.com", Password: "s3cretpass", Role: "member", Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, domain.ProviderLocal, u.AuthProvider)
	require.NotNil(t, u.Phone)
	assert.Equal(t, "+16502530000", *u.Phone)
	assert.NotEqual(t, "s3cretpass", *u.PasswordHash)
	assert.Len(t, sentCode, 6)
	require.NotNil(t, u.VerificationCodeHash)
	assert.NotEqual(t, sentCode, *u.VerificationCodeHash, "only the digest is stored")

	_, err = ts.service.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "other-pass", Role: "founder"})
	assert.ErrorIs(t, err, common.ErrConflict)
	ts.notifier.AssertExpectations(t)
}

func TestVerifyEmail(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()

	var code string
	ts.notifier.On("SendVerificationCode", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { code = args.String(2) })

	_, err := ts.service.Register(ctx, RegisterRequest{Name: "Ben", Email: "ben@example.com", Password: "password1", Role: "member"})
	require.NoError(t, err)

	_, err = ts.service.VerifyEmail(ctx, "ben@example.com", "000000x")
	assert.ErrorIs(t, err, common.ErrBadRequest)

	ts.now = ts.now.Add(11 * time.Minute)
	_, err = ts.service.VerifyEmail(ctx, "ben@example.com", code)
	assert.ErrorIs(t, err, common.ErrBadRequest, "expired code")

	require.NoError(t, ts.service.ResendVerification(ctx, "ben@example.com"))
	u, err := ts.service.VerifyEmail(ctx, "ben@example.com", code)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Nil(t, u.VerificationCodeHash)
}

func TestLogin(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()
	ts.notifier.On("SendVerificationCode", ctx, mock.Anything, mock.Anything)

	_, err := ts.service.Register(ctx, RegisterRequest{Name: "Cy", Email: "cy@example.com", Password: "password1", Role: "founder"})
	require.NoError(t, err)

	_, err = ts.service.Login(ctx, "cy@example.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = ts.service.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	u, err := ts.service.Login(ctx, "CY@example.com", "password1")
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.WithinDuration(t, ts.now, *u.LastLogin, time.Second)
}

func TestLogin_OAuthOnlyAccount(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()
	require.NoError(t, ts.repo.Create(ctx, &User{Name: "G", Email: "g@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderGoogle, ProviderID: strPtr("g")}))

	_, err := ts.service.Login(ctx, "g@example.com", "anything1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestPasswordReset_StoresDigestAndIsSingleUse(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()
	ts.notifier.On("SendVerificationCode", ctx, mock.Anything, mock.Anything)
	ts.notifier.On("SendPasswordReset", ctx, mock.Anything, "raw-reset-token").Once()

	_, err := ts.service.Register(ctx, RegisterRequest{Name: "Di", Email: "di@example.com", Password: "password1", Role: "member"})
	require.NoError(t, err)

	require.NoError(t, ts.service.ForgotPassword(ctx, "di@example.com"))
	require.NoError(t, ts.service.ForgotPassword(ctx, "unknown@example.com"))

	stored, err := ts.repo.FindByEmail(ctx, "di@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetTokenHash)
	assert.NotEqual(t, "raw-reset-token", *stored.ResetTokenHash)
	assert.Equal(t, stubTokens{}.HashToken("raw-reset-token"), *stored.ResetTokenHash)

	require.NoError(t, ts.service.ResetPassword(ctx, "raw-reset-token", "brand-new-pass"))
	_, err = ts.service.Login(ctx, "di@example.com", "brand-new-pass")
	require.NoError(t, err)

	err = ts.service.ResetPassword(ctx, "raw-reset-token", "again-new-pass")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	ts.notifier.AssertExpectations(t)
}

func TestPasswordReset_Expired(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()
	ts.notifier.On("SendPasswordReset", ctx, mock.Anything, mock.Anything)

	require.NoError(t, ts.repo.Create(ctx, &User{Name: "Ed", Email: "ed@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}))
	require.NoError(t, ts.service.ForgotPassword(ctx, "ed@example.com"))

	ts.now = ts.now.Add(2 * time.Hour)
	err := ts.service.ResetPassword(ctx, "raw-reset-token", "brand-new-pass")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSetAvatar_ReturnsPreviousRef(t *testing.T) {
	ts := setupUserService(t)
	ctx := context.Background()
	u := &User{Name: "Fi", Email: "fi@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}
	require.NoError(t, ts.repo.Create(ctx, u))

	prev, err := ts.service.SetAvatar(ctx, u.ID, "https://img/1", "avatars/1")
	require.NoError(t, err)
	assert.Nil(t, prev)

	prev, err = ts.service.SetAvatar(ctx, u.ID, "https://img/2", "avatars/2")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "avatars/1", *prev)

	_, err = ts.service.SetAvatar(ctx, uuid.New(), "x", "y")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
