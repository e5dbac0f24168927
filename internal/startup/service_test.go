package startup

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/role"
)

type stubRoles struct {
	roles []role.Role
}

func (s stubRoles) ListByStartup(_ context.Context, _ uuid.UUID, _ role.Status) ([]role.Role, error) {
	return s.roles, nil
}

type stubApplied struct {
	ids []uuid.UUID
}

func (s stubApplied) AppliedRoleIDs(_ context.Context, _, _ uuid.UUID) ([]uuid.UUID, error) {
	return s.ids, nil
}

type fakeIndex struct {
	searchIDs []uuid.UUID
	searchErr error
	indexed   []uuid.UUID
	bulk      int
}

func (f *fakeIndex) Index(_ context.Context, s *Startup) error {
	f.indexed = append(f.indexed, s.ID)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ ExploreQuery, _ common.PaginationQuery) ([]uuid.UUID, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.searchIDs, int64(len(f.searchIDs)), nil
}

func (f *fakeIndex) BulkIndex(_ context.Context, startups []Startup) (int, error) {
	f.bulk += len(startups)
	return len(startups), nil
}

func createRequest(name string) CreateStartupRequest {
	return CreateStartupRequest{Name: name, Industry: "SaaS", Stage: "Seed", TeamSize: "1-5"}
}

func TestCreateStartup_SlugAndIndex(t *testing.T) {
	repo := newTestRepo(t)
	index := &fakeIndex{}
	svc := NewService(repo, stubRoles{}, stubApplied{}, index, zap.NewNop())

	st, err := svc.CreateStartup(context.Background(), uuid.New(), createRequest("Acme Robotics!"))
	require.NoError(t, err)
	assert.Regexp(t, `^acme-robotics-[0-9a-f]{6}$`, st.Slug)
	assert.True(t, st.IsActive)
	assert.Equal(t, []uuid.UUID{st.ID}, index.indexed)
}

func TestUpdateStartup_CanDeactivate(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, stubRoles{}, stubApplied{}, nil, zap.NewNop())
	ctx := context.Background()
	founderID := uuid.New()

	created, err := svc.CreateStartup(ctx, founderID, createRequest("Acme"))
	require.NoError(t, err)

	inactive := false
	tagline := "Now hiring"
	_, err = svc.UpdateStartup(ctx, founderID, UpdateStartupRequest{IsActive: &inactive, Tagline: &tagline})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Now hiring", got.Tagline)
	assert.Equal(t, created.Slug, got.Slug)

	_, err = svc.GetDetails(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestExplore_UsesIndexOrder(t *testing.T) {
	repo := newTestRepo(t)
	a := seedStartup(t, repo, "Alpha", "SaaS", "", true)
	b := seedStartup(t, repo, "Beta", "SaaS", "", true)
	index := &fakeIndex{searchIDs: []uuid.UUID{b.ID, a.ID}}
	svc := NewService(repo, stubRoles{}, stubApplied{}, index, zap.NewNop())

	got, pagination, err := svc.Explore(context.Background(), ExploreQuery{Search: "a"}, firstPage)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.EqualValues(t, 2, pagination.TotalItems)
}

func TestExplore_FallsBackToDatabase(t *testing.T) {
	repo := newTestRepo(t)
	seedStartup(t, repo, "Rocket", "SaaS", "", true)
	seedStartup(t, repo, "Other", "SaaS", "", true)
	index := &fakeIndex{searchErr: errors.New("cluster down")}
	svc := NewService(repo, stubRoles{}, stubApplied{}, index, zap.NewNop())

	got, _, err := svc.Explore(context.Background(), ExploreQuery{Search: "rocket"}, firstPage)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rocket", got[0].Name)
}

func TestGetDetails(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	st := seedStartup(t, repo, "Acme", "SaaS", "", true)
	memberID := uuid.New()
	openRole := role.Role{Title: "Engineer", Status: role.StatusOpen}
	appliedID := uuid.New()
	svc := NewService(repo, stubRoles{roles: []role.Role{openRole}}, stubApplied{ids: []uuid.UUID{appliedID}}, nil, zap.NewNop())

	require.NoError(t, svc.SaveStartup(ctx, memberID, st.ID))

	details, err := svc.GetDetails(ctx, memberID, st.ID)
	require.NoError(t, err)
	assert.True(t, details.IsSaved)
	assert.EqualValues(t, 1, details.Startup.ViewCount)
	assert.Len(t, details.OpenRoles, 1)
	assert.Equal(t, []uuid.UUID{appliedID}, details.AppliedRoleIDs)
}

func TestStartupForFounder(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(repo, stubRoles{}, stubApplied{}, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.StartupForFounder(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)

	founderID := uuid.New()
	st, err := svc.CreateStartup(ctx, founderID, createRequest("Acme"))
	require.NoError(t, err)
	ref, err := svc.StartupForFounder(ctx, founderID)
	require.NoError(t, err)
	assert.Equal(t, role.StartupRef{ID: st.ID, Name: "Acme"}, *ref)
}

func TestReindex(t *testing.T) {
	repo := newTestRepo(t)
	seedStartup(t, repo, "One", "SaaS", "", true)
	seedStartup(t, repo, "Two", "SaaS", "", true)
	seedStartup(t, repo, "Off", "SaaS", "", false)

	_, err := NewService(repo, stubRoles{}, stubApplied{}, nil, zap.NewNop()).Reindex(context.Background())
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)

	index := &fakeIndex{}
	n, err := NewService(repo, stubRoles{}, stubApplied{}, index, zap.NewNop()).Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, index.bulk)
}

func TestBuildSearchQuery(t *testing.T) {
	body := buildSearchQuery(ExploreQuery{Search: "ai", Industry: "AI/ML"}, common.PaginationQuery{Page: 3, PageSize: 20})
	assert.Equal(t, 40, body["from"])
	assert.Equal(t, 20, body["size"])

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["filter"], 2)
	assert.Len(t, boolQuery["must"], 1)
}
