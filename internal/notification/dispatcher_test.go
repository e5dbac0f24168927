package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/platform/database/dbtest"
	"startupteam_backend/internal/user"
)

type MockMessenger struct {
	mock.Mock
}

func (m *MockMessenger) Send(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, Repository, *MockMessenger) {
	repo := NewGORMRepository(dbtest.New(t, &Notification{}))
	messenger := new(MockMessenger)
	cfg := &config.Config{FrontendURL: "https://app.example.com/", VerificationCodeExpiry: 10 * time.Minute}
	return NewDispatcher(NewService(repo, zap.NewNop()), messenger, cfg, zap.NewNop()), repo, messenger
}

func TestDispatcher_RoleMatchCreatesInAppAndSMS(t *testing.T) {
	d, repo, messenger := newTestDispatcher(t)
	ctx := context.Background()
	memberID, roleID := uuid.New(), uuid.New()
	phone := "+919876543210"

	messenger.On("Send", ctx, phone, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Acme") && strings.Contains(body, "Go Developer")
	})).Return("SM1", nil).Once()

	require.NoError(t, d.RoleMatch(ctx, memberID, roleID, &phone, "Acme", "Go Developer"))
	require.NoError(t, d.RoleMatch(ctx, memberID, roleID, nil, "Acme", "Go Developer"))

	items, _, err := repo.GetByUserID(ctx, memberID, common.PaginationQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, RoleMatch, items[0].Type)
	assert.Equal(t, roleID, *items[0].RelatedEntityID)
	messenger.AssertExpectations(t)
}

func TestDispatcher_PasswordResetLink(t *testing.T) {
	d, _, messenger := newTestDispatcher(t)
	ctx := context.Background()
	phone := "+16502530000"
	u := &user.User{Phone: &phone}

	messenger.On("Send", ctx, phone, "Reset your StartupTeam password: https://app.example.com/reset-password?token=abc123").
		Return("SM2", nil).Once()

	d.SendPasswordReset(ctx, u, "abc123")
	d.SendPasswordReset(ctx, &user.User{}, "ignored")
	messenger.AssertExpectations(t)
}

func TestDispatcher_VerificationCode(t *testing.T) {
	d, _, messenger := newTestDispatcher(t)
	ctx := context.Background()
	phone := "+16502530000"

	messenger.On("Send", ctx, phone, "Your StartupTeam verification code is 123456. It expires in 10 minutes.").
		Return("", assert.AnError).Once()

	d.SendVerificationCode(ctx, &user.User{Phone: &phone}, "123456")
	messenger.AssertExpectations(t)
}
