// File: internal/app/migrate.go
package app

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"startupteam_backend/internal/application"
	"startupteam_backend/internal/auth"
	"startupteam_backend/internal/notification"
	"startupteam_backend/internal/profile"
	"startupteam_backend/internal/role"
	"startupteam_backend/internal/startup"
	"startupteam_backend/internal/user"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&profile.FounderProfile{},
		&profile.MemberProfile{},
		&startup.Startup{},
		&startup.SavedStartup{},
		&role.Role{},
		&application.Application{},
		&notification.Notification{},
		&auth.RevokedToken{},
	}
}

// Migrate creates or updates every table and index.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info("Database schema migrated", zap.Int("models", len(Models())))
	return nil
}
