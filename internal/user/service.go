// File: internal/user/service.go
package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/config"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/platform/crypto"
	"startupteam_backend/internal/shared"
)

const verificationCodeDigits = 6

// CredentialNotifier delivers one-time credentials out of band. Delivery is
// best-effort; implementations log their own failures.
type CredentialNotifier interface {
	SendVerificationCode(ctx context.Context, u *User, code string)
	SendPasswordReset(ctx context.Context, u *User, token string)
}

// Service defines the interface for account business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	VerifyEmail(ctx context.Context, email, code string) (*User, error)
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*User, error)
	SetAvatar(ctx context.Context, id uuid.UUID, url, ref string) (previousRef *string, err error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	tokens   shared.TokenService
	notifier CredentialNotifier
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new user service.
func NewService(repo Repository, tokens shared.TokenService, notifier CredentialNotifier, cfg *config.Config, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a local account together with its role profile and sends
// an email verification code.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hash, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, common.ErrInternalServer
	}

	u := &User{
		Name:         req.Name,
		Email:        NormalizeEmail(req.Email),
		PasswordHash: &hash,
		AuthProvider: domain.ProviderLocal,
		Role:         domain.UserRole(req.Role),
	}
	if req.Phone != nil && *req.Phone != "" {
		phone, err := common.NormalizePhone(*req.Phone, s.cfg.DefaultPhoneRegion)
		if err != nil {
			return nil, common.NewValidationAPIError(map[string]string{"Phone": "The phone field must be a valid phone number."})
		}
		u.Phone = &phone
	}

	code, err := s.issueVerificationCode(u)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateWithProfile(ctx, u); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict.WithDetails("An account with this email already exists.")
		}
		s.logger.Error("Failed to create user", zap.String("email", u.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("userID", u.ID.String()), zap.String("role", string(u.Role)))
	s.notifier.SendVerificationCode(ctx, u, code)
	return u, nil
}

// Login authenticates a local account and records the login time.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*User, error) {
	invalid := common.ErrUnauthorized.WithDetails("Invalid email or password.")

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !u.HasPassword() {
		return nil, common.ErrUnauthorized.WithDetails("This account uses social sign-in. Continue with " + string(u.AuthProvider) + ".")
	}
	if !common.CheckPasswordHash(password, *u.PasswordHash) {
		s.logger.Warn("Failed login attempt", zap.String("userID", u.ID.String()))
		return nil, invalid
	}

	now := s.now()
	u.LastLogin = &now
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("Failed to record last login", zap.String("userID", u.ID.String()), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// VerifyEmail checks a verification code and marks the email as verified.
func (s *ServiceImplementation) VerifyEmail(ctx context.Context, email, code string) (*User, error) {
	invalid := common.ErrBadRequest.WithDetails("Invalid or expired verification code.")

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if u.EmailVerified {
		return u, nil
	}
	if u.VerificationCodeHash == nil || u.VerificationCodeExpiresAt == nil ||
		s.now().After(*u.VerificationCodeExpiresAt) ||
		!digestsEqual(*u.VerificationCodeHash, s.tokens.HashToken(code)) {
		return nil, invalid
	}

	u.EmailVerified = true
	u.VerificationCodeHash = nil
	u.VerificationCodeExpiresAt = nil
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("Email verified", zap.String("userID", u.ID.String()))
	return u, nil
}

// ResendVerification issues a fresh code. Unknown or verified emails are ignored
// so the endpoint does not reveal which addresses are registered.
func (s *ServiceImplementation) ResendVerification(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if u.EmailVerified {
		return nil
	}
	code, err := s.issueVerificationCode(u)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.notifier.SendVerificationCode(ctx, u, code)
	return nil
}

// ForgotPassword stores the digest of a fresh reset token and delivers the raw
// token out of band. Unknown emails succeed silently.
func (s *ServiceImplementation) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokens.GenerateResetToken()
	if err != nil {
		s.logger.Error("Failed to generate reset token", zap.Error(err))
		return common.ErrInternalServer
	}
	digest := s.tokens.HashToken(token)
	expires := s.now().Add(s.cfg.ResetTokenExpiry)
	u.ResetTokenHash = &digest
	u.ResetTokenExpiresAt = &expires
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.Info("Password reset token issued", zap.String("userID", u.ID.String()))
	s.notifier.SendPasswordReset(ctx, u, token)
	return nil
}

// ResetPassword consumes a reset token. The presented token is hashed and
// looked up by digest; it is cleared on success so it cannot be reused.
func (s *ServiceImplementation) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.repo.FindByResetTokenHash(ctx, s.tokens.HashToken(token))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidToken.WithDetails("Reset link is invalid or has expired.")
		}
		return err
	}
	if u.ResetTokenExpiresAt == nil || s.now().After(*u.ResetTokenExpiresAt) {
		return common.ErrInvalidToken.WithDetails("Reset link is invalid or has expired.")
	}

	hash, err := common.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return common.ErrInternalServer
	}
	u.PasswordHash = &hash
	u.ResetTokenHash = nil
	u.ResetTokenExpiresAt = nil
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.logger.Info("Password reset", zap.String("userID", u.ID.String()))
	return nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ServiceImplementation) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			u.Phone = nil
		} else {
			phone, err := common.NormalizePhone(*req.Phone, s.cfg.DefaultPhoneRegion)
			if err != nil {
				return nil, common.NewValidationAPIError(map[string]string{"Phone": "The phone field must be a valid phone number."})
			}
			u.Phone = &phone
		}
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetAvatar records a newly stored avatar and returns the reference of the
// image it replaced, if any, so the caller can delete it.
func (s *ServiceImplementation) SetAvatar(ctx context.Context, id uuid.UUID, url, ref string) (*string, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := u.AvatarRef
	u.Avatar = &url
	u.AvatarRef = &ref
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return previous, nil
}

func (s *ServiceImplementation) issueVerificationCode(u *User) (string, error) {
	code, err := crypto.GenerateNumericCode(verificationCodeDigits)
	if err != nil {
		s.logger.Error("Failed to generate verification code", zap.Error(err))
		return "", common.ErrInternalServer
	}
	digest := s.tokens.HashToken(code)
	expires := s.now().Add(s.cfg.VerificationCodeExpiry)
	u.VerificationCodeHash = &digest
	u.VerificationCodeExpiresAt = &expires
	return code, nil
}

func digestsEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
