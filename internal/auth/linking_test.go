package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/platform/database/dbtest"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/user"
)

func setupLinker(t *testing.T) (*Linker, user.Repository, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t, &user.User{}, &profile.FounderProfile{}, &profile.MemberProfile{})
	repo := user.NewGORMRepository(db)
	return NewLinker(repo, zap.NewNop()), repo, db
}

func googleIdentity(email string) ExternalIdentity {
	return ExternalIdentity{
		Provider:   domain.ProviderGoogle,
		ProviderID: "google-sub-123",
		Email:      email,
		Name:       "Asha Rao",
		AvatarURL:  "https://example.com/a.png",
	}
}

func TestLink_CreatesMemberWithProfile(t *testing.T) {
	linker, _, db := setupLinker(t)
	ctx := context.Background()

	u, created, err := linker.Link(ctx, googleIdentity("Asha@Example.com"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleMember, u.Role)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.True(t, u.EmailVerified)
	assert.NotNil(t, u.LastLogin)
	assert.Nil(t, u.PasswordHash)
	require.NotNil(t, u.ProviderID)
	assert.Equal(t, "google-sub-123", *u.ProviderID)

	var mp profile.MemberProfile
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&mp).Error)
	assert.False(t, mp.CompletionStatus)
}

func TestLink_IsIdempotent(t *testing.T) {
	linker, _, db := setupLinker(t)
	ctx := context.Background()

	first, created, err := linker.Link(ctx, googleIdentity("asha@example.com"))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := linker.Link(ctx, googleIdentity("asha@example.com"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var users, profiles int64
	db.Model(&user.User{}).Count(&users)
	db.Model(&profile.MemberProfile{}).Count(&profiles)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, profiles)
}

func TestLink_MergesIntoLocalAccountByEmail(t *testing.T) {
	linker, repo, _ := setupLinker(t)
	ctx := context.Background()

	hash := "bcrypt-hash"
	local := &user.User{Name: "Asha", Email: "asha@example.com", PasswordHash: &hash,
		AuthProvider: domain.ProviderLocal, Role: domain.RoleMember}
	require.NoError(t, repo.CreateWithProfile(ctx, local))

	linked, created, err := linker.Link(ctx, googleIdentity("asha@example.com"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, local.ID, linked.ID)

	stored, err := repo.FindByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, stored.AuthProvider)
	require.NotNil(t, stored.ProviderID)
	assert.Equal(t, "google-sub-123", *stored.ProviderID)
	assert.True(t, stored.EmailVerified)
	assert.True(t, stored.HasPassword())
}

func TestLink_SecondProviderDoesNotOverwrite(t *testing.T) {
	linker, repo, _ := setupLinker(t)
	ctx := context.Background()

	first, _, err := linker.Link(ctx, googleIdentity("asha@example.com"))
	require.NoError(t, err)

	linked, created, err := linker.Link(ctx, ExternalIdentity{
		Provider:   domain.ProviderLinkedIn,
		ProviderID: "linkedin-sub-9",
		Email:      "asha@example.com",
		Name:       "Asha Rao",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, linked.ID)

	stored, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, stored.AuthProvider)
	assert.Equal(t, "google-sub-123", *stored.ProviderID)
}

func TestLink_FounderMergeKeepsRoleAndAddsNoMemberProfile(t *testing.T) {
	linker, repo, db := setupLinker(t)
	ctx := context.Background()

	hash := "bcrypt-hash"
	founder := &user.User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: &hash,
		AuthProvider: domain.ProviderLocal, Role: domain.RoleFounder}
	require.NoError(t, repo.CreateWithProfile(ctx, founder))

	linked, created, err := linker.Link(ctx, googleIdentity("ravi@example.com"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, domain.RoleFounder, linked.Role)

	var members int64
	db.Model(&profile.MemberProfile{}).Where("user_id = ?", founder.ID).Count(&members)
	assert.Zero(t, members)
}

type failingStore struct {
	IdentityStore
}

func (failingStore) FindByProvider(context.Context, domain.AuthProvider, string) (*user.User, error) {
	return nil, common.ErrNotFound
}

func (failingStore) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, common.ErrNotFound
}

func (failingStore) CreateWithProfile(context.Context, *user.User) error {
	return errors.New("connection reset")
}

func TestLink_PersistenceFailureIsAuthProviderError(t *testing.T) {
	linker := NewLinker(failingStore{}, zap.NewNop())

	_, _, err := linker.Link(context.Background(), googleIdentity("asha@example.com"))
	assert.ErrorIs(t, err, common.ErrAuthProvider)
}

func TestLink_RejectsIncompleteIdentity(t *testing.T) {
	linker, _, _ := setupLinker(t)

	_, _, err := linker.Link(context.Background(), ExternalIdentity{Provider: domain.ProviderGoogle, Email: "a@b.com"})
	assert.ErrorIs(t, err, common.ErrAuthProvider)
}
