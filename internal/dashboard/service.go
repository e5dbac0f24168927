// File: internal/dashboard/service.go
package dashboard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"startupteam_backend/internal/application"
	"startupteam_backend/internal/common"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/role"
	"startupteam_backend/internal/startup"
)

const recentApplications = 5

var recentPage = common.PaginationQuery{Page: 1, PageSize: recentApplications}

// FounderDashboard summarizes a founder's hiring activity.
type FounderDashboard struct {
	Startup             *startup.Startup             `json:"startup"`
	ProfileComplete     bool                         `json:"profileComplete"`
	TotalRoles          int64                        `json:"totalRoles"`
	OpenRoles           int64                        `json:"openRoles"`
	Applications        map[application.Status]int64 `json:"applications"`
	RecentApplications  []application.View           `json:"recentApplications"`
	UnreadNotifications int64                        `json:"unreadNotifications"`
}

// MemberDashboard summarizes a member's job search.
type MemberDashboard struct {
	ProfileComplete     bool                         `json:"profileComplete"`
	Applications        map[application.Status]int64 `json:"applications"`
	SavedStartups       int64                        `json:"savedStartups"`
	RecentApplications  []application.View           `json:"recentApplications"`
	UnreadNotifications int64                        `json:"unreadNotifications"`
}

type StartupFinder interface {
	FindByFounderID(ctx context.Context, founderID uuid.UUID) (*startup.Startup, error)
	CountSaved(ctx context.Context, userID uuid.UUID) (int64, error)
}

type RoleCounter interface {
	CountByStartup(ctx context.Context, startupID uuid.UUID, status role.Status) (int64, error)
}

type ApplicationStats interface {
	CountByStatusForStartup(ctx context.Context, startupID uuid.UUID) (map[application.Status]int64, error)
	CountByStatusForMember(ctx context.Context, memberID uuid.UUID) (map[application.Status]int64, error)
	ListForStartup(ctx context.Context, startupID uuid.UUID, status application.Status, roleID *uuid.UUID, page common.PaginationQuery) ([]application.View, int64, error)
	ListForMember(ctx context.Context, memberID uuid.UUID, status application.Status, page common.PaginationQuery) ([]application.View, int64, error)
}

type UnreadCounter interface {
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type ProfileFinder interface {
	FindFounderByUserID(ctx context.Context, userID uuid.UUID) (*profile.FounderProfile, error)
	FindMemberByUserID(ctx context.Context, userID uuid.UUID) (*profile.MemberProfile, error)
}

// Service builds dashboards. Each dashboard's queries run concurrently.
type Service struct {
	startups      StartupFinder
	roles         RoleCounter
	applications  ApplicationStats
	notifications UnreadCounter
	profiles      ProfileFinder
	logger        *zap.Logger
}

func NewService(startups StartupFinder, roles RoleCounter, applications ApplicationStats, notifications UnreadCounter, profiles ProfileFinder, logger *zap.Logger) *Service {
	return &Service{
		startups:      startups,
		roles:         roles,
		applications:  applications,
		notifications: notifications,
		profiles:      profiles,
		logger:        logger,
	}
}

// Founder returns the founder dashboard. A founder without a startup gets
// zero counts and a nil startup.
func (s *Service) Founder(ctx context.Context, founderID uuid.UUID) (*FounderDashboard, error) {
	out := &FounderDashboard{
		Applications:       emptyCounts(),
		RecentApplications: []application.View{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.FindFounderByUserID(gctx, founderID)
		if err != nil {
			return ignoreNotFound(err)
		}
		out.ProfileComplete = p.CompletionStatus
		return nil
	})
	g.Go(func() error {
		n, err := s.notifications.CountUnread(gctx, founderID)
		out.UnreadNotifications = n
		return err
	})

	st, err := s.startups.FindByFounderID(ctx, founderID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		if err := g.Wait(); err != nil {
			return nil, s.fail("founder", err)
		}
		return out, nil
	case err != nil:
		_ = g.Wait()
		return nil, s.fail("founder", err)
	}
	out.Startup = st

	g.Go(func() error {
		n, err := s.roles.CountByStartup(gctx, st.ID, "")
		out.TotalRoles = n
		return err
	})
	g.Go(func() error {
		n, err := s.roles.CountByStartup(gctx, st.ID, role.StatusOpen)
		out.OpenRoles = n
		return err
	})
	g.Go(func() error {
		counts, err := s.applications.CountByStatusForStartup(gctx, st.ID)
		if err == nil {
			out.Applications = counts
		}
		return err
	})
	g.Go(func() error {
		views, _, err := s.applications.ListForStartup(gctx, st.ID, "", nil, recentPage)
		if err == nil {
			out.RecentApplications = views
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, s.fail("founder", err)
	}
	return out, nil
}

// Member returns the member dashboard.
func (s *Service) Member(ctx context.Context, memberID uuid.UUID) (*MemberDashboard, error) {
	out := &MemberDashboard{
		Applications:       emptyCounts(),
		RecentApplications: []application.View{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.FindMemberByUserID(gctx, memberID)
		if err != nil {
			return ignoreNotFound(err)
		}
		out.ProfileComplete = p.CompletionStatus
		return nil
	})
	g.Go(func() error {
		counts, err := s.applications.CountByStatusForMember(gctx, memberID)
		if err == nil {
			out.Applications = counts
		}
		return err
	})
	g.Go(func() error {
		n, err := s.startups.CountSaved(gctx, memberID)
		out.SavedStartups = n
		return err
	})
	g.Go(func() error {
		views, _, err := s.applications.ListForMember(gctx, memberID, "", recentPage)
		if err == nil {
			out.RecentApplications = views
		}
		return err
	})
	g.Go(func() error {
		n, err := s.notifications.CountUnread(gctx, memberID)
		out.UnreadNotifications = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, s.fail("member", err)
	}
	return out, nil
}

func (s *Service) fail(kind string, err error) error {
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	s.logger.Error("Failed to build dashboard", zap.String("dashboard", kind), zap.Error(err))
	return common.ErrInternalServer.WithDetails("Could not load dashboard.")
}

func ignoreNotFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	return err
}

func emptyCounts() map[application.Status]int64 {
	counts := make(map[application.Status]int64, len(application.AllStatuses))
	for _, st := range application.AllStatuses {
		counts[st] = 0
	}
	return counts
}
