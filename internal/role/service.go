// File: internal/role/service.go
package role

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/user"
)

// maxRoleMatchAlerts caps how many members are alerted for one new role.
const maxRoleMatchAlerts = 50

// StartupRef identifies the startup a founder owns.
type StartupRef struct {
	ID   uuid.UUID
	Name string
}

// StartupResolver finds the startup owned by a founder. It returns
// common.ErrNotFound when the founder has not created one yet.
type StartupResolver interface {
	StartupForFounder(ctx context.Context, founderID uuid.UUID) (*StartupRef, error)
}

// MatchNotifier delivers a role-match alert to one member.
type MatchNotifier interface {
	RoleMatch(ctx context.Context, memberID, roleID uuid.UUID, phone *string, startupName, roleTitle string) error
}

// MemberDirectory is the lookup used to find members to alert.
type MemberDirectory interface {
	FindMembersWithAnySkill(ctx context.Context, skills []string, limit int) ([]profile.MemberProfile, error)
}

// PhoneBook resolves member ids to user records.
type PhoneBook interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
}

// Service defines the role operations available to founders and members.
type Service interface {
	CreateRole(ctx context.Context, founderID uuid.UUID, req CreateRoleRequest) (*Role, error)
	ListFounderRoles(ctx context.Context, founderID uuid.UUID, status Status) ([]Role, error)
	UpdateRole(ctx context.Context, founderID, roleID uuid.UUID, req UpdateRoleRequest) (*Role, error)
	DeleteRole(ctx context.Context, founderID, roleID uuid.UUID) error
	GetRole(ctx context.Context, roleID uuid.UUID) (*Role, error)
	ListOpenRoles(ctx context.Context, startupID uuid.UUID) ([]Role, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	startups StartupResolver
	members  MemberDirectory
	phones   PhoneBook
	notifier MatchNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, startups StartupResolver, members MemberDirectory, phones PhoneBook, notifier MatchNotifier, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		startups: startups,
		members:  members,
		phones:   phones,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRole posts a role under the founder's startup and alerts members whose
// skills overlap it.
func (s *ServiceImplementation) CreateRole(ctx context.Context, founderID uuid.UUID, req CreateRoleRequest) (*Role, error) {
	startup, err := s.founderStartup(ctx, founderID)
	if err != nil {
		return nil, err
	}

	r := &Role{
		StartupID:       startup.ID,
		Title:           strings.TrimSpace(req.Title),
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     req.SalaryRange,
		EmploymentType:  req.EmploymentType,
		Skills:          cleanSkills(req.Skills),
		Description:     req.Description,
		Status:          StatusOpen,
		PostedDate:      s.now(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("Failed to create role", zap.String("startupID", startup.ID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create role.")
	}
	s.logger.Info("Role created", zap.String("roleID", r.ID.String()), zap.String("startupID", startup.ID.String()))

	s.alertMatchingMembers(ctx, r, startup.Name)
	return r, nil
}

func (s *ServiceImplementation) ListFounderRoles(ctx context.Context, founderID uuid.UUID, status Status) ([]Role, error) {
	startup, err := s.founderStartup(ctx, founderID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStartup(ctx, startup.ID, status)
}

func (s *ServiceImplementation) UpdateRole(ctx context.Context, founderID, roleID uuid.UUID, req UpdateRoleRequest) (*Role, error) {
	r, err := s.ownedRole(ctx, founderID, roleID)
	if err != nil {
		return nil, err
	}
	req.applyTo(r)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRole removes a role together with all applications to it.
func (s *ServiceImplementation) DeleteRole(ctx context.Context, founderID, roleID uuid.UUID) error {
	if _, err := s.ownedRole(ctx, founderID, roleID); err != nil {
		return err
	}
	removed, err := s.repo.DeleteWithApplications(ctx, roleID)
	if err != nil {
		return err
	}
	s.logger.Info("Role deleted",
		zap.String("roleID", roleID.String()),
		zap.Int64("applicationsRemoved", removed))
	return nil
}

func (s *ServiceImplementation) GetRole(ctx context.Context, roleID uuid.UUID) (*Role, error) {
	return s.repo.FindByID(ctx, roleID)
}

func (s *ServiceImplementation) ListOpenRoles(ctx context.Context, startupID uuid.UUID) ([]Role, error) {
	return s.repo.ListByStartup(ctx, startupID, StatusOpen)
}

func (s *ServiceImplementation) founderStartup(ctx context.Context, founderID uuid.UUID) (*StartupRef, error) {
	startup, err := s.startups.StartupForFounder(ctx, founderID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails("Create your startup before posting roles.")
		}
		return nil, err
	}
	return startup, nil
}

func (s *ServiceImplementation) ownedRole(ctx context.Context, founderID, roleID uuid.UUID) (*Role, error) {
	startup, err := s.founderStartup(ctx, founderID)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if r.StartupID != startup.ID {
		return nil, common.ErrForbidden.WithDetails("This role belongs to another startup.")
	}
	return r, nil
}

// alertMatchingMembers is best-effort: failures are logged and never returned.
func (s *ServiceImplementation) alertMatchingMembers(ctx context.Context, r *Role, startupName string) {
	if len(r.Skills) == 0 {
		return
	}
	log := s.logger.With(zap.String("roleID", r.ID.String()))

	matches, err := s.members.FindMembersWithAnySkill(ctx, r.Skills, maxRoleMatchAlerts)
	if err != nil {
		log.Warn("Role match lookup failed", zap.Error(err))
		return
	}
	if len(matches) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.UserID)
	}
	users, err := s.phones.FindByIDs(ctx, ids)
	if err != nil {
		log.Warn("Role match user lookup failed", zap.Error(err))
		return
	}

	sent := 0
	for i := range users {
		if err := s.notifier.RoleMatch(ctx, users[i].ID, r.ID, users[i].Phone, startupName, r.Title); err != nil {
			log.Warn("Role match alert failed", zap.String("memberID", users[i].ID.String()), zap.Error(err))
			continue
		}
		sent++
	}
	log.Info("Role match alerts sent", zap.Int("matched", len(users)), zap.Int("sent", sent))
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		key := strings.ToLower(sk)
		if sk == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sk)
	}
	return out
}
