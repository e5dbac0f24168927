// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
	"startupteam_backend/internal/profile"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	CreateWithProfile(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (*User, error)
	FindByResetTokenHash(ctx context.Context, digest string) (*User, error)
	Update(ctx context.Context, user *User) error
	PurgeExpiredCredentials(ctx context.Context, now time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user record into the database.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)
	return translateWriteError(r.db.WithContext(ctx).Create(user).Error)
}

// CreateWithProfile inserts the user and the empty profile matching its role
// in one transaction, so a user is never left without a profile.
func (r *gormRepository) CreateWithProfile(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		switch user.Role {
		case domain.RoleFounder:
			return tx.Create(&profile.FounderProfile{UserID: user.ID}).Error
		case domain.RoleMember:
			return tx.Create(&profile.MemberProfile{UserID: user.ID}).Error
		default:
			return fmt.Errorf("unknown role %q", user.Role)
		}
	})
	return translateWriteError(err)
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found.")
		}
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, err
	}
	return &u, nil
}

// FindByProvider retrieves a user by OAuth provider and provider-assigned id.
func (r *gormRepository) FindByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("auth_provider = ? AND provider_id = ?", provider, providerID).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("User not found for %s identity.", provider))
		}
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) FindByResetTokenHash(ctx context.Context, digest string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("reset_token_hash = ?", digest).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Reset token not recognised.")
		}
		return nil, err
	}
	return &u, nil
}

// Update modifies an existing user record in the database. Role is
// create-only at the column level and is never written here.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	user.Email = NormalizeEmail(user.Email)
	return translateWriteError(r.db.WithContext(ctx).Save(user).Error)
}

// PurgeExpiredCredentials clears verification codes and reset-token digests
// whose expiry has passed.
func (r *gormRepository) PurgeExpiredCredentials(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&User{}).
			Where("reset_token_expires_at IS NOT NULL AND reset_token_expires_at < ?", now).
			Updates(map[string]interface{}{"reset_token_hash": nil, "reset_token_expires_at": nil})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected

		res = tx.Model(&User{}).
			Where("verification_code_expires_at IS NOT NULL AND verification_code_expires_at < ?", now).
			Updates(map[string]interface{}{"verification_code_hash": nil, "verification_code_expires_at": nil})
		if res.Error != nil {
			return res.Error
		}
		total += res.RowsAffected
		return nil
	})
	return total, err
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if common.IsDuplicateKeyError(err) {
		return common.ErrConflict.WithDetails("An account with this email or sign-in identity already exists.")
	}
	return err
}
