// File: internal/filestorage/service.go
package filestorage

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvatarSetter persists a user's avatar and returns the reference it replaced.
type AvatarSetter interface {
	SetAvatar(ctx context.Context, userID uuid.UUID, url, ref string) (*string, error)
}

// LogoSetter persists a founder's startup logo and returns the reference it replaced.
type LogoSetter interface {
	SetLogo(ctx context.Context, founderID uuid.UUID, url, ref string) (*string, error)
}

// UploadService stores images and points the owning record at them.
type UploadService struct {
	store   ImageStore
	avatars AvatarSetter
	logos   LogoSetter
	logger  *zap.Logger
}

func NewUploadService(store ImageStore, avatars AvatarSetter, logos LogoSetter, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, avatars: avatars, logos: logos, logger: logger}
}

func (s *UploadService) UploadAvatar(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	return s.replace(ctx, FolderAvatars, data, func(url, ref string) (*string, error) {
		return s.avatars.SetAvatar(ctx, userID, url, ref)
	})
}

func (s *UploadService) UploadStartupLogo(ctx context.Context, founderID uuid.UUID, data []byte) (string, error) {
	return s.replace(ctx, FolderLogos, data, func(url, ref string) (*string, error) {
		return s.logos.SetLogo(ctx, founderID, url, ref)
	})
}

// replace stores the new image, persists it, then removes the previous one.
// The previous image is only deleted once the new reference is saved.
func (s *UploadService) replace(ctx context.Context, folder string, data []byte, persist func(url, ref string) (*string, error)) (string, error) {
	url, ref, err := s.store.Store(ctx, folder, data)
	if err != nil {
		return "", err
	}

	previous, err := persist(url, ref)
	if err != nil {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			s.logger.Warn("Failed to remove orphaned image", zap.String("ref", ref), zap.Error(delErr))
		}
		return "", err
	}

	if previous != nil && *previous != "" && *previous != ref {
		if err := s.store.Delete(ctx, *previous); err != nil {
			s.logger.Warn("Failed to delete previous image", zap.String("ref", *previous), zap.Error(err))
		}
	}
	return url, nil
}
