package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindFounderByUserID(ctx context.Context, userID uuid.UUID) (*FounderProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FounderProfile), args.Error(1)
}

func (m *MockProfileRepository) FindMemberByUserID(ctx context.Context, userID uuid.UUID) (*MemberProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MemberProfile), args.Error(1)
}

func (m *MockProfileRepository) SaveFounder(ctx context.Context, p *FounderProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) SaveMember(ctx context.Context, p *MemberProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepository) FindMembersWithAnySkill(ctx context.Context, skills []string, limit int) ([]MemberProfile, error) {
	args := m.Called(ctx, skills, limit)
	return args.Get(0).([]MemberProfile), args.Error(1)
}

func TestUpdateMemberProfile_PartialUpdateKeepsOtherFields(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	existing := &MemberProfile{UserID: userID, CurrentRole: "Engineer", Bio: "old"}
	existing.ID = uuid.New()
	repo.On("FindMemberByUserID", ctx, userID).Return(existing, nil)
	repo.On("SaveMember", ctx, mock.MatchedBy(func(p *MemberProfile) bool {
		return p.CurrentRole == "Engineer" && p.Bio == "new" && len(p.Skills) == 1
	})).Return(nil)

	bio := "new"
	got, err := svc.UpdateMemberProfile(ctx, userID, UpdateMemberProfileRequest{Bio: &bio, Skills: []string{"Go", " go "}})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestUpdateFounderProfile_CreatesWhenMissing(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	repo.On("FindFounderByUserID", ctx, userID).Return(nil, common.ErrNotFound)
	repo.On("SaveFounder", ctx, mock.MatchedBy(func(p *FounderProfile) bool {
		return p.ID == uuid.Nil && p.UserID == userID && p.Experience == "ten years"
	})).Return(nil)

	exp := "ten years"
	_, err := svc.UpdateFounderProfile(ctx, userID, UpdateFounderProfileRequest{Experience: &exp})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateFounderProfile_PropagatesSaveError(t *testing.T) {
	repo := new(MockProfileRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	repo.On("FindFounderByUserID", ctx, userID).Return(nil, common.ErrNotFound)
	repo.On("SaveFounder", ctx, mock.Anything).Return(common.ErrForbidden)

	_, err := svc.UpdateFounderProfile(ctx, userID, UpdateFounderProfileRequest{})
	assert.ErrorIs(t, err, common.ErrForbidden)
}
