// File: internal/application/model.go
package application

import (
	"time"

	"github.com/google/uuid"

	"startupteam_backend/internal/common"
)

// Application is a member's application to a role. A member applies to a
// role at most once.
type Application struct {
	common.BaseModel
	MemberID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_member_role;index:idx_applications_member_status,priority:1" json:"memberId"`
	RoleID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_member_role" json:"roleId"`
	StartupID   uuid.UUID `gorm:"type:uuid;not null;index:idx_applications_startup_status,priority:1" json:"startupId"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'pending';index:idx_applications_startup_status,priority:2;index:idx_applications_member_status,priority:2" json:"status"`
	AppliedDate time.Time `gorm:"not null" json:"appliedDate"`
	UpdatedDate time.Time `gorm:"not null" json:"updatedDate"`
	CoverLetter string    `gorm:"type:varchar(1000)" json:"coverLetter"`
	Notes       string    `gorm:"type:varchar(500)" json:"notes"`
}

func (Application) TableName() string { return "applications" }

// View is an application joined with the names a listing needs.
type View struct {
	Application
	RoleTitle   string `json:"roleTitle"`
	StartupName string `json:"startupName"`
	MemberName  string `json:"memberName,omitempty"`
	MemberEmail string `json:"memberEmail,omitempty"`
}

// ApplyRequest defines the payload for applying to a role.
type ApplyRequest struct {
	CoverLetter string `json:"coverLetter" binding:"omitempty,max=1000"`
}

// DecisionRequest carries optional founder notes for a status change.
type DecisionRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// ListQuery filters application listings.
type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending interview accepted rejected"`
	RoleID string `form:"roleId" binding:"omitempty,uuid"`
}

func (q ListQuery) roleID() *uuid.UUID {
	if q.RoleID == "" {
		return nil
	}
	id, err := uuid.Parse(q.RoleID)
	if err != nil {
		return nil
	}
	return &id
}
