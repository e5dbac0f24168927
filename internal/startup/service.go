// File: internal/startup/service.go
package startup

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/platform/crypto"
	"startupteam_backend/internal/role"
)

const reindexBatchSize = 200

// AppliedRoleLister reports which roles of a startup a member has applied to.
type AppliedRoleLister interface {
	AppliedRoleIDs(ctx context.Context, memberID, startupID uuid.UUID) ([]uuid.UUID, error)
}

// OpenRoleLister lists the open roles of a startup.
type OpenRoleLister interface {
	ListByStartup(ctx context.Context, startupID uuid.UUID, status role.Status) ([]role.Role, error)
}

// Service defines the startup operations for founders and members.
type Service interface {
	CreateStartup(ctx context.Context, founderID uuid.UUID, req CreateStartupRequest) (*Startup, error)
	GetFounderStartup(ctx context.Context, founderID uuid.UUID) (*Startup, error)
	UpdateStartup(ctx context.Context, founderID uuid.UUID, req UpdateStartupRequest) (*Startup, error)
	SetLogo(ctx context.Context, founderID uuid.UUID, url, ref string) (previousRef *string, err error)
	StartupForFounder(ctx context.Context, founderID uuid.UUID) (*role.StartupRef, error)

	Explore(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]Startup, *common.Pagination, error)
	GetDetails(ctx context.Context, memberID, startupID uuid.UUID) (*Details, error)
	SaveStartup(ctx context.Context, memberID, startupID uuid.UUID) error
	UnsaveStartup(ctx context.Context, memberID, startupID uuid.UUID) error
	ListSaved(ctx context.Context, memberID uuid.UUID, page common.PaginationQuery) ([]Startup, *common.Pagination, error)

	Reindex(ctx context.Context) (int, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo    Repository
	roles   OpenRoleLister
	applied AppliedRoleLister
	index   SearchIndex
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a startup service. index may be nil.
func NewService(repo Repository, roles OpenRoleLister, applied AppliedRoleLister, index SearchIndex, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:    repo,
		roles:   roles,
		applied: applied,
		index:   index,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *ServiceImplementation) CreateStartup(ctx context.Context, founderID uuid.UUID, req CreateStartupRequest) (*Startup, error) {
	startupSlug, err := makeSlug(req.Name)
	if err != nil {
		s.logger.Error("Failed to generate startup slug", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create startup.")
	}

	st := &Startup{
		FounderID:   founderID,
		Name:        req.Name,
		Slug:        startupSlug,
		Industry:    req.Industry,
		Website:     req.Website,
		Location:    req.Location,
		Stage:       req.Stage,
		TeamSize:    req.TeamSize,
		Tagline:     req.Tagline,
		Description: req.Description,
		LinkedIn:    req.LinkedIn,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		if _, ok := common.IsAPIError(err); !ok {
			s.logger.Error("Failed to create startup", zap.String("founderID", founderID.String()), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("Startup created", zap.String("startupID", st.ID.String()), zap.String("founderID", founderID.String()))
	s.reindexOne(ctx, st)
	return st, nil
}

func (s *ServiceImplementation) GetFounderStartup(ctx context.Context, founderID uuid.UUID) (*Startup, error) {
	return s.repo.FindByFounderID(ctx, founderID)
}

// UpdateStartup applies a partial update. The slug is fixed at creation.
func (s *ServiceImplementation) UpdateStartup(ctx context.Context, founderID uuid.UUID, req UpdateStartupRequest) (*Startup, error) {
	st, err := s.repo.FindByFounderID(ctx, founderID)
	if err != nil {
		return nil, err
	}
	req.applyTo(st)
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	s.reindexOne(ctx, st)
	return st, nil
}

// SetLogo records a newly stored logo and returns the reference it replaced.
func (s *ServiceImplementation) SetLogo(ctx context.Context, founderID uuid.UUID, url, ref string) (*string, error) {
	st, err := s.repo.FindByFounderID(ctx, founderID)
	if err != nil {
		return nil, err
	}
	previous := st.LogoRef
	st.Logo = &url
	st.LogoRef = &ref
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return previous, nil
}

// StartupForFounder lets the role package resolve a founder's startup.
func (s *ServiceImplementation) StartupForFounder(ctx context.Context, founderID uuid.UUID) (*role.StartupRef, error) {
	st, err := s.repo.FindByFounderID(ctx, founderID)
	if err != nil {
		return nil, err
	}
	return &role.StartupRef{ID: st.ID, Name: st.Name}, nil
}

// Explore lists active startups. Free-text queries go to the search index when
// one is configured and fall back to the database if it fails.
func (s *ServiceImplementation) Explore(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]Startup, *common.Pagination, error) {
	if s.index != nil && q.Search != "" {
		startups, total, err := s.searchIndex(ctx, q, page)
		if err == nil {
			return startups, common.NewPagination(total, page.Page, page.PageSize), nil
		}
		s.logger.Warn("Startup search index unavailable, falling back to database", zap.Error(err))
	}

	startups, total, err := s.repo.Explore(ctx, q, page)
	if err != nil {
		return nil, nil, err
	}
	return startups, common.NewPagination(total, page.Page, page.PageSize), nil
}

func (s *ServiceImplementation) searchIndex(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]Startup, int64, error) {
	ids, total, err := s.index.Search(ctx, q, page)
	if err != nil {
		return nil, 0, err
	}
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[uuid.UUID]Startup, len(found))
	for _, st := range found {
		byID[st.ID] = st
	}
	ordered := make([]Startup, 0, len(ids))
	for _, id := range ids {
		if st, ok := byID[id]; ok && st.IsActive {
			ordered = append(ordered, st)
		}
	}
	return ordered, total, nil
}

// GetDetails returns an active startup with its open roles and the member's
// relationship to it, and counts the view.
func (s *ServiceImplementation) GetDetails(ctx context.Context, memberID, startupID uuid.UUID) (*Details, error) {
	st, err := s.repo.FindByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, common.ErrNotFound.WithDetails("Startup not found.")
	}

	if err := s.repo.IncrementViewCount(ctx, startupID); err != nil {
		s.logger.Warn("Failed to record startup view", zap.String("startupID", startupID.String()), zap.Error(err))
	} else {
		st.ViewCount++
	}

	openRoles, err := s.roles.ListByStartup(ctx, startupID, role.StatusOpen)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.IsSaved(ctx, memberID, startupID)
	if err != nil {
		return nil, err
	}
	appliedIDs, err := s.applied.AppliedRoleIDs(ctx, memberID, startupID)
	if err != nil {
		return nil, err
	}
	if appliedIDs == nil {
		appliedIDs = []uuid.UUID{}
	}

	return &Details{Startup: st, OpenRoles: openRoles, IsSaved: saved, AppliedRoleIDs: appliedIDs}, nil
}

func (s *ServiceImplementation) SaveStartup(ctx context.Context, memberID, startupID uuid.UUID) error {
	st, err := s.repo.FindByID(ctx, startupID)
	if err != nil {
		return err
	}
	if !st.IsActive {
		return common.ErrNotFound.WithDetails("Startup not found.")
	}
	return s.repo.Save(ctx, memberID, startupID, s.now())
}

func (s *ServiceImplementation) UnsaveStartup(ctx context.Context, memberID, startupID uuid.UUID) error {
	return s.repo.Unsave(ctx, memberID, startupID)
}

func (s *ServiceImplementation) ListSaved(ctx context.Context, memberID uuid.UUID, page common.PaginationQuery) ([]Startup, *common.Pagination, error) {
	startups, total, err := s.repo.ListSaved(ctx, memberID, page)
	if err != nil {
		return nil, nil, err
	}
	return startups, common.NewPagination(total, page.Page, page.PageSize), nil
}

// Reindex pushes every active startup to the search index.
func (s *ServiceImplementation) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, common.ErrServiceUnavailable.WithDetails("Search index is not configured.")
	}
	indexed := 0
	err := s.repo.EachActive(ctx, reindexBatchSize, func(batch []Startup) error {
		n, err := s.index.BulkIndex(ctx, batch)
		indexed += n
		return err
	})
	if err != nil {
		return indexed, err
	}
	s.logger.Info("Startups reindexed", zap.Int("count", indexed))
	return indexed, nil
}

func (s *ServiceImplementation) reindexOne(ctx context.Context, st *Startup) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, st); err != nil {
		s.logger.Warn("Failed to index startup", zap.String("startupID", st.ID.String()), zap.Error(err))
	}
}

func makeSlug(name string) (string, error) {
	suffix, err := crypto.GenerateHexToken(3)
	if err != nil {
		return "", err
	}
	base := slug.Make(name)
	if base == "" {
		base = "startup"
	}
	return base + "-" + suffix, nil
}

var _ role.StartupResolver = (*ServiceImplementation)(nil)
