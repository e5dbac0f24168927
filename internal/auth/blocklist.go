// File: internal/auth/blocklist.go
package auth

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedToken records a refresh token JTI that was logged out before expiry.
type RevokedToken struct {
	JTI       string    `gorm:"type:varchar(64);primaryKey"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName specifies the table name for the RevokedToken model.
func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// TokenBlocklistService defines the interface for a JWT blocklist.
type TokenBlocklistService interface {
	// AddToBlocklist adds a token's JTI (JWT ID) to the blocklist until expiresAt.
	AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error
	// IsBlocklisted checks if a token's JTI is in the blocklist.
	IsBlocklisted(ctx context.Context, jti string) (bool, error)
	// PurgeExpired removes entries whose tokens would have expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// GORMBlocklistService stores revoked JTIs in the database so every instance
// sees the same revocations.
type GORMBlocklistService struct {
	db *gorm.DB
}

// NewGORMBlocklistService creates a new database-backed blocklist service.
func NewGORMBlocklistService(db *gorm.DB) *GORMBlocklistService {
	return &GORMBlocklistService{db: db}
}

// AddToBlocklist is idempotent; revoking the same JTI twice is not an error.
func (s *GORMBlocklistService) AddToBlocklist(ctx context.Context, jti string, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&RevokedToken{JTI: jti, ExpiresAt: expiresAt}).Error
}

func (s *GORMBlocklistService) IsBlocklisted(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&RevokedToken{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}

func (s *GORMBlocklistService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&RevokedToken{})
	return res.RowsAffected, res.Error
}
