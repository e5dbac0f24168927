// File: internal/auth/linking.go
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/user"
)

// IdentityStore is the slice of the user repository the linker needs.
type IdentityStore interface {
	FindByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	CreateWithProfile(ctx context.Context, u *user.User) error
}

// Linker resolves a provider assertion to exactly one local user.
type Linker struct {
	store  IdentityStore
	logger *zap.Logger
	now    func() time.Time
}

func NewLinker(store IdentityStore, logger *zap.Logger) *Linker {
	return &Linker{store: store, logger: logger.Named("oauth_linker"), now: time.Now}
}

// Link finds the user by provider identity, then by email. An existing user
// gets the provider attached only when it has none yet. Otherwise a new member
// account with an empty member profile is created. created reports which path ran.
func (l *Linker) Link(ctx context.Context, ident ExternalIdentity) (*user.User, bool, error) {
	if ident.ProviderID == "" || strings.TrimSpace(ident.Email) == "" {
		return nil, false, common.ErrAuthProvider.WithDetails("Provider returned an incomplete identity.")
	}

	existing, err := l.lookup(ctx, ident)
	if err != nil {
		return nil, false, err
	}
	now := l.now()

	if existing != nil {
		if existing.ProviderID == nil {
			providerID := ident.ProviderID
			existing.AuthProvider = ident.Provider
			existing.ProviderID = &providerID
			l.logger.Info("Linked provider to existing account",
				zap.String("userID", existing.ID.String()),
				zap.String("provider", string(ident.Provider)))
		}
		if existing.Avatar == nil && ident.AvatarURL != "" {
			avatar := ident.AvatarURL
			existing.Avatar = &avatar
		}
		existing.EmailVerified = true
		existing.LastLogin = &now
		if err := l.store.Update(ctx, existing); err != nil {
			l.logger.Error("Failed to update linked account", zap.String("userID", existing.ID.String()), zap.Error(err))
			return nil, false, common.ErrAuthProvider.WithDetails("Could not complete sign-in.")
		}
		return existing, false, nil
	}

	providerID := ident.ProviderID
	u := &user.User{
		BaseModel:     common.BaseModel{ID: uuid.New()},
		Name:          displayName(ident),
		Email:         user.NormalizeEmail(ident.Email),
		AuthProvider:  ident.Provider,
		ProviderID:    &providerID,
		EmailVerified: true,
		Role:          domain.RoleMember,
		LastLogin:     &now,
	}
	if ident.AvatarURL != "" {
		avatar := ident.AvatarURL
		u.Avatar = &avatar
	}
	if err := l.store.CreateWithProfile(ctx, u); err != nil {
		l.logger.Error("Failed to create account from provider identity",
			zap.String("provider", string(ident.Provider)), zap.Error(err))
		return nil, false, common.ErrAuthProvider.WithDetails("Could not complete sign-in.")
	}
	l.logger.Info("Created member account from provider identity",
		zap.String("userID", u.ID.String()), zap.String("provider", string(ident.Provider)))
	return u, true, nil
}

func (l *Linker) lookup(ctx context.Context, ident ExternalIdentity) (*user.User, error) {
	u, err := l.store.FindByProvider(ctx, ident.Provider, ident.ProviderID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		l.logger.Error("Provider identity lookup failed", zap.Error(err))
		return nil, common.ErrAuthProvider.WithDetails("Could not complete sign-in.")
	}

	u, err = l.store.FindByEmail(ctx, ident.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		l.logger.Error("Email lookup failed", zap.Error(err))
		return nil, common.ErrAuthProvider.WithDetails("Could not complete sign-in.")
	}
	return nil, nil
}

func displayName(ident ExternalIdentity) string {
	if name := strings.TrimSpace(ident.Name); len(name) >= 2 {
		return name
	}
	local := strings.SplitN(ident.Email, "@", 2)[0]
	if len(local) < 2 {
		return "Member"
	}
	return local
}
