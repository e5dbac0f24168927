// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

// Service defines profile business logic.
type Service interface {
	GetFounderProfile(ctx context.Context, userID uuid.UUID) (*FounderProfile, error)
	UpdateFounderProfile(ctx context.Context, userID uuid.UUID, req UpdateFounderProfileRequest) (*FounderProfile, error)
	GetMemberProfile(ctx context.Context, userID uuid.UUID) (*MemberProfile, error)
	UpdateMemberProfile(ctx context.Context, userID uuid.UUID, req UpdateMemberProfileRequest) (*MemberProfile, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

func (s *ServiceImplementation) GetFounderProfile(ctx context.Context, userID uuid.UUID) (*FounderProfile, error) {
	return s.repo.FindFounderByUserID(ctx, userID)
}

func (s *ServiceImplementation) GetMemberProfile(ctx context.Context, userID uuid.UUID) (*MemberProfile, error) {
	return s.repo.FindMemberByUserID(ctx, userID)
}

// UpdateFounderProfile applies req and saves, creating the profile if the
// founder does not have one yet.
func (s *ServiceImplementation) UpdateFounderProfile(ctx context.Context, userID uuid.UUID, req UpdateFounderProfileRequest) (*FounderProfile, error) {
	p, err := s.repo.FindFounderByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		p = &FounderProfile{UserID: userID}
	}
	req.applyTo(p)
	if err := s.repo.SaveFounder(ctx, p); err != nil {
		s.logger.Error("Failed to save founder profile", zap.String("userID", userID.String()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Founder profile updated", zap.String("userID", userID.String()), zap.Bool("complete", p.CompletionStatus))
	return p, nil
}

// UpdateMemberProfile applies req and saves, creating the profile if the
// member does not have one yet.
func (s *ServiceImplementation) UpdateMemberProfile(ctx context.Context, userID uuid.UUID, req UpdateMemberProfileRequest) (*MemberProfile, error) {
	p, err := s.repo.FindMemberByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		p = &MemberProfile{UserID: userID}
	}
	req.applyTo(p)
	if err := s.repo.SaveMember(ctx, p); err != nil {
		s.logger.Error("Failed to save member profile", zap.String("userID", userID.String()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Member profile updated", zap.String("userID", userID.String()), zap.Bool("complete", p.CompletionStatus))
	return p, nil
}
