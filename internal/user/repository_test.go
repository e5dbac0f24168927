package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/platform/database/dbtest"
	"startupteam_backend/internal/profile"
)

func setupUserRepo(t *testing.T) (Repository, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t, &User{}, &profile.FounderProfile{}, &profile.MemberProfile{})
	return NewGORMRepository(db), db
}

func strPtr(s string) *string { return &s }

func TestCreateWithProfile_CreatesProfileMatchingRole(t *testing.T) {
	repo, db := setupUserRepo(t)
	ctx := context.Background()

	founder := &User{Name: "Fay", Email: "Fay@Example.com ", Role: domain.RoleFounder, AuthProvider: domain.ProviderLocal}
	require.NoError(t, repo.CreateWithProfile(ctx, founder))
	assert.Equal(t, "fay@example.com", founder.Email)

	member := &User{Name: "Max", Email: "max@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}
	require.NoError(t, repo.CreateWithProfile(ctx, member))

	var founderProfiles, memberProfiles int64
	db.Model(&profile.FounderProfile{}).Where("user_id = ?", founder.ID).Count(&founderProfiles)
	db.Model(&profile.MemberProfile{}).Where("user_id = ?", founder.ID).Count(&memberProfiles)
	assert.EqualValues(t, 1, founderProfiles)
	assert.EqualValues(t, 0, memberProfiles)

	db.Model(&profile.MemberProfile{}).Where("user_id = ?", member.ID).Count(&memberProfiles)
	assert.EqualValues(t, 1, memberProfiles)
}

func TestCreateWithProfile_DuplicateEmailLeavesNoOrphans(t *testing.T) {
	repo, db := setupUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithProfile(ctx, &User{Name: "A", Email: "dup@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}))
	err := repo.CreateWithProfile(ctx, &User{Name: "B", Email: "DUP@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal})
	assert.ErrorIs(t, err, common.ErrConflict)

	var users, profiles int64
	db.Model(&User{}).Count(&users)
	db.Model(&profile.MemberProfile{}).Count(&profiles)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, profiles)
}

func TestCreate_ProviderIdentityIsUnique(t *testing.T) {
	repo, _ := setupUserRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &User{Name: "A", Email: "a@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderGoogle, ProviderID: strPtr("g-1")}))
	err := repo.Create(ctx, &User{Name: "B", Email: "b@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderGoogle, ProviderID: strPtr("g-1")})
	assert.ErrorIs(t, err, common.ErrConflict)

	// Local accounts have no provider id; many may coexist.
	require.NoError(t, repo.Create(ctx, &User{Name: "C", Email: "c@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}))
	require.NoError(t, repo.Create(ctx, &User{Name: "D", Email: "d@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}))

	found, err := repo.FindByProvider(ctx, domain.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", found.Email)

	_, err = repo.FindByProvider(ctx, domain.ProviderLinkedIn, "g-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_DoesNotChangeRole(t *testing.T) {
	repo, _ := setupUserRepo(t)
	ctx := context.Background()

	u := &User{Name: "M", Email: "m@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal}
	require.NoError(t, repo.Create(ctx, u))

	u.Role = domain.RoleFounder
	u.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, u))

	stored, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.Equal(t, domain.RoleMember, stored.Role)
}

func TestPurgeExpiredCredentials(t *testing.T) {
	repo, _ := setupUserRepo(t)
	ctx := context.Background()
	now := time.Now()
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	expired := &User{Name: "E", Email: "e@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal,
		ResetTokenHash: strPtr("aa"), ResetTokenExpiresAt: &past}
	live := &User{Name: "L", Email: "l@example.com", Role: domain.RoleMember, AuthProvider: domain.ProviderLocal,
		ResetTokenHash: strPtr("bb"), ResetTokenExpiresAt: &future,
		VerificationCodeHash: strPtr("cc"), VerificationCodeExpiresAt: &past}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.PurgeExpiredCredentials(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = repo.FindByResetTokenHash(ctx, "aa")
	assert.ErrorIs(t, err, common.ErrNotFound)

	stillLive, err := repo.FindByResetTokenHash(ctx, "bb")
	require.NoError(t, err)
	assert.Nil(t, stillLive.VerificationCodeHash)
}
