package role

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/user"
)

type stubResolver struct {
	refs map[uuid.UUID]*StartupRef
}

func (s stubResolver) StartupForFounder(_ context.Context, founderID uuid.UUID) (*StartupRef, error) {
	if ref, ok := s.refs[founderID]; ok {
		return ref, nil
	}
	return nil, common.ErrNotFound
}

type MockMembers struct{ mock.Mock }

func (m *MockMembers) FindMembersWithAnySkill(ctx context.Context, skills []string, limit int) ([]profile.MemberProfile, error) {
	args := m.Called(ctx, skills, limit)
	return args.Get(0).([]profile.MemberProfile), args.Error(1)
}

type MockPhoneBook struct{ mock.Mock }

func (m *MockPhoneBook) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]user.User), args.Error(1)
}

type MockMatchNotifier struct{ mock.Mock }

func (m *MockMatchNotifier) RoleMatch(ctx context.Context, memberID, roleID uuid.UUID, phone *string, startupName, roleTitle string) error {
	return m.Called(ctx, memberID, roleID, phone, startupName, roleTitle).Error(0)
}

type roleFixture struct {
	svc       *ServiceImplementation
	repo      Repository
	members   *MockMembers
	phones    *MockPhoneBook
	notifier  *MockMatchNotifier
	founderID uuid.UUID
	startup   *StartupRef
}

func newRoleFixture(t *testing.T) *roleFixture {
	t.Helper()
	f := &roleFixture{
		repo:      NewGORMRepository(newRoleDB(t)),
		members:   new(MockMembers),
		phones:    new(MockPhoneBook),
		notifier:  new(MockMatchNotifier),
		founderID: uuid.New(),
		startup:   &StartupRef{ID: uuid.New(), Name: "Acme"},
	}
	resolver := stubResolver{refs: map[uuid.UUID]*StartupRef{f.founderID: f.startup}}
	f.svc = NewService(f.repo, resolver, f.members, f.phones, f.notifier, zap.NewNop())
	return f
}

func validCreateRequest() CreateRoleRequest {
	return CreateRoleRequest{
		Title:           "Backend Engineer",
		ExperienceLevel: "Mid-Level (3-5 Years)",
		EmploymentType:  "Full-Time",
		Skills:          []string{"Go", " go ", "Postgres", ""},
		Description:     "Own the API",
	}
}

func TestCreateRole_OpensRoleAndAlertsMatches(t *testing.T) {
	f := newRoleFixture(t)
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	memberID := uuid.New()
	phone := "+14155550100"
	f.members.On("FindMembersWithAnySkill", ctx, []string{"Go", "Postgres"}, maxRoleMatchAlerts).
		Return([]profile.MemberProfile{{UserID: memberID}}, nil)
	f.phones.On("FindByIDs", ctx, []uuid.UUID{memberID}).
		Return([]user.User{{BaseModel: common.BaseModel{ID: memberID}, Phone: &phone}}, nil)
	f.notifier.On("RoleMatch", ctx, memberID, mock.AnythingOfType("uuid.UUID"), &phone, "Acme", "Backend Engineer").Return(nil)

	r, err := f.svc.CreateRole(ctx, f.founderID, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, r.Status)
	assert.Equal(t, f.startup.ID, r.StartupID)
	assert.Equal(t, 0, r.ApplicationsCount)
	assert.True(t, r.PostedDate.Equal(fixed))
	assert.Equal(t, []string{"Go", "Postgres"}, r.Skills)

	f.members.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestCreateRole_AlertFailuresDoNotFailCreation(t *testing.T) {
	f := newRoleFixture(t)
	ctx := context.Background()
	f.members.On("FindMembersWithAnySkill", ctx, mock.Anything, mock.Anything).
		Return([]profile.MemberProfile{}, errors.New("db down"))

	r, err := f.svc.CreateRole(ctx, f.founderID, validCreateRequest())
	require.NoError(t, err)

	stored, err := f.repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", stored.Title)
	f.notifier.AssertNotCalled(t, "RoleMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRole_RequiresStartup(t *testing.T) {
	f := newRoleFixture(t)
	_, err := f.svc.CreateRole(context.Background(), uuid.New(), validCreateRequest())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateRole_OtherFounderForbidden(t *testing.T) {
	f := newRoleFixture(t)
	ctx := context.Background()
	r := seedRole(t, f.repo, uuid.New(), "Not yours", StatusOpen, time.Now())

	title := "Hijacked"
	_, err := f.svc.UpdateRole(ctx, f.founderID, r.ID, UpdateRoleRequest{Title: &title})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdateRole_ChangesStatus(t *testing.T) {
	f := newRoleFixture(t)
	ctx := context.Background()
	r := seedRole(t, f.repo, f.startup.ID, "Designer", StatusOpen, time.Now())

	closed := string(StatusClosed)
	got, err := f.svc.UpdateRole(ctx, f.founderID, r.ID, UpdateRoleRequest{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, got.Status)

	open, err := f.svc.ListOpenRoles(ctx, f.startup.ID)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestDeleteRole_Ownership(t *testing.T) {
	f := newRoleFixture(t)
	ctx := context.Background()
	mine := seedRole(t, f.repo, f.startup.ID, "Mine", StatusOpen, time.Now())
	theirs := seedRole(t, f.repo, uuid.New(), "Theirs", StatusOpen, time.Now())

	assert.ErrorIs(t, f.svc.DeleteRole(ctx, f.founderID, theirs.ID), common.ErrForbidden)
	require.NoError(t, f.svc.DeleteRole(ctx, f.founderID, mine.ID))

	_, err := f.svc.GetRole(ctx, mine.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCleanSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "React"}, cleanSkills([]string{" Go", "go", "", "React", "react "}))
	assert.Empty(t, cleanSkills(nil))
}
