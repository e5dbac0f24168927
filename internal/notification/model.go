// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	ApplicationReceived NotificationType = "application_received"
	ApplicationStatus   NotificationType = "application_status"
	RoleMatch           NotificationType = "role_match"
)

// Notification represents an in-app notification for a user.
type Notification struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"userId"`
	Type            NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message         string           `gorm:"type:text;not null" json:"message"`
	RelatedEntityID *uuid.UUID       `gorm:"type:uuid" json:"relatedEntityId,omitempty"`
	IsRead          bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"isRead"`
	CreatedAt       time.Time        `gorm:"not null;index:idx_notification_user_status" json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
