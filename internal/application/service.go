// File: internal/application/service.go
package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/role"
	"startupteam_backend/internal/startup"
	"startupteam_backend/internal/user"
)

// Notifier delivers application events. Every call is best-effort.
type Notifier interface {
	ApplicationReceived(ctx context.Context, founderID, applicationID uuid.UUID, memberName, roleTitle string) error
	ApplicationStatusChanged(ctx context.Context, memberID, applicationID uuid.UUID, status, startupName, roleTitle string) error
	SendAcceptance(ctx context.Context, phone, startupName, founderContact string) error
}

// StartupLookup loads startups by id.
type StartupLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*startup.Startup, error)
}

// RoleLookup loads roles by id.
type RoleLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*role.Role, error)
}

// UserLookup loads users by id.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service defines the application workflow for members and founders.
type Service interface {
	Apply(ctx context.Context, memberID, roleID uuid.UUID, req ApplyRequest) (*Application, error)
	Cancel(ctx context.Context, memberID, applicationID uuid.UUID) error
	MoveToInterview(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error)
	Accept(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error)
	Reject(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error)
	ListForMember(ctx context.Context, memberID uuid.UUID, q ListQuery, page common.PaginationQuery) ([]View, *common.Pagination, error)
	ListForFounder(ctx context.Context, founderID uuid.UUID, q ListQuery, page common.PaginationQuery) ([]View, *common.Pagination, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	founders role.StartupResolver
	startups StartupLookup
	roles    RoleLookup
	users    UserLookup
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	repo Repository,
	founders role.StartupResolver,
	startups StartupLookup,
	roles RoleLookup,
	users UserLookup,
	notifier Notifier,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		founders: founders,
		startups: startups,
		roles:    roles,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Apply records a pending application from memberID to an open role.
func (s *ServiceImplementation) Apply(ctx context.Context, memberID, roleID uuid.UUID, req ApplyRequest) (*Application, error) {
	now := s.now()
	app := &Application{
		MemberID:    memberID,
		RoleID:      roleID,
		Status:      StatusPending,
		AppliedDate: now,
		UpdatedDate: now,
		CoverLetter: req.CoverLetter,
	}
	if err := s.repo.Apply(ctx, app); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to apply", zap.String("memberID", memberID.String()), zap.String("roleID", roleID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not submit application.")
	}
	s.logger.Info("Application submitted",
		zap.String("applicationID", app.ID.String()),
		zap.String("memberID", memberID.String()),
		zap.String("roleID", roleID.String()))

	s.notifyReceived(ctx, app)
	return app, nil
}

// Cancel withdraws a member's pending application.
func (s *ServiceImplementation) Cancel(ctx context.Context, memberID, applicationID uuid.UUID) error {
	if err := s.repo.Cancel(ctx, applicationID, memberID); err != nil {
		return err
	}
	s.logger.Info("Application cancelled", zap.String("applicationID", applicationID.String()), zap.String("memberID", memberID.String()))
	return nil
}

func (s *ServiceImplementation) MoveToInterview(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error) {
	return s.decide(ctx, founderID, applicationID, StatusInterview, notes)
}

func (s *ServiceImplementation) Accept(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error) {
	return s.decide(ctx, founderID, applicationID, StatusAccepted, notes)
}

func (s *ServiceImplementation) Reject(ctx context.Context, founderID, applicationID uuid.UUID, notes string) (*Application, error) {
	return s.decide(ctx, founderID, applicationID, StatusRejected, notes)
}

func (s *ServiceImplementation) decide(ctx context.Context, founderID, applicationID uuid.UUID, to Status, notes string) (*Application, error) {
	app, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	owned, err := s.founders.StartupForFounder(ctx, founderID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrForbidden.WithDetails("You do not own this application's startup.")
		}
		return nil, err
	}
	if owned.ID != app.StartupID {
		return nil, common.ErrForbidden.WithDetails("You do not own this application's startup.")
	}

	if !CanTransition(app.Status, to) {
		return nil, common.ErrInvalidTransition.WithDetails(
			"Cannot move an application from " + string(app.Status) + " to " + string(to) + ".")
	}

	now := s.now()
	if err := s.repo.Transition(ctx, app.ID, app.Status, to, notes, now); err != nil {
		return nil, err
	}
	from := app.Status
	app.Status = to
	app.UpdatedDate = now
	app.UpdatedAt = now
	if notes != "" {
		app.Notes = notes
	}
	s.logger.Info("Application status changed",
		zap.String("applicationID", app.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	s.notifyStatus(ctx, founderID, app, owned.Name)
	return app, nil
}

func (s *ServiceImplementation) ListForMember(ctx context.Context, memberID uuid.UUID, q ListQuery, page common.PaginationQuery) ([]View, *common.Pagination, error) {
	views, total, err := s.repo.ListForMember(ctx, memberID, Status(q.Status), page)
	if err != nil {
		return nil, nil, err
	}
	return views, common.NewPagination(total, page.Page, page.PageSize), nil
}

func (s *ServiceImplementation) ListForFounder(ctx context.Context, founderID uuid.UUID, q ListQuery, page common.PaginationQuery) ([]View, *common.Pagination, error) {
	owned, err := s.founders.StartupForFounder(ctx, founderID)
	if err != nil {
		return nil, nil, err
	}
	views, total, err := s.repo.ListForStartup(ctx, owned.ID, Status(q.Status), q.roleID(), page)
	if err != nil {
		return nil, nil, err
	}
	return views, common.NewPagination(total, page.Page, page.PageSize), nil
}

func (s *ServiceImplementation) notifyReceived(ctx context.Context, app *Application) {
	log := s.logger.With(zap.String("applicationID", app.ID.String()))

	r, err := s.roles.FindByID(ctx, app.RoleID)
	if err != nil {
		log.Warn("Skipping application notification: role lookup failed", zap.Error(err))
		return
	}
	st, err := s.startups.FindByID(ctx, app.StartupID)
	if err != nil {
		log.Warn("Skipping application notification: startup lookup failed", zap.Error(err))
		return
	}
	memberName := "A member"
	if member, err := s.users.FindByID(ctx, app.MemberID); err == nil {
		memberName = member.Name
	}
	if err := s.notifier.ApplicationReceived(ctx, st.FounderID, app.ID, memberName, r.Title); err != nil {
		log.Warn("Application notification failed", zap.Error(err))
	}
}

func (s *ServiceImplementation) notifyStatus(ctx context.Context, founderID uuid.UUID, app *Application, startupName string) {
	log := s.logger.With(zap.String("applicationID", app.ID.String()))

	roleTitle := "a role"
	if r, err := s.roles.FindByID(ctx, app.RoleID); err == nil {
		roleTitle = r.Title
	}
	if err := s.notifier.ApplicationStatusChanged(ctx, app.MemberID, app.ID, string(app.Status), startupName, roleTitle); err != nil {
		log.Warn("Status notification failed", zap.Error(err))
	}

	if app.Status != StatusAccepted {
		return
	}
	member, err := s.users.FindByID(ctx, app.MemberID)
	if err != nil {
		log.Warn("Skipping acceptance message: member lookup failed", zap.Error(err))
		return
	}
	if member.Phone == nil || *member.Phone == "" {
		log.Info("Skipping acceptance message: member has no phone")
		return
	}
	contact := ""
	if founder, err := s.users.FindByID(ctx, founderID); err == nil {
		contact = founder.Email
	}
	if err := s.notifier.SendAcceptance(ctx, *member.Phone, startupName, contact); err != nil {
		log.Warn("Acceptance message failed", zap.Error(err))
	}
}
