// File: internal/startup/model.go
package startup

import (
	"time"

	"github.com/google/uuid"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/role"
)

// Startup is the company profile owned by exactly one founder.
type Startup struct {
	common.BaseModel
	FounderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"founderId"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(140);not null;uniqueIndex" json:"slug"`
	Logo        *string   `gorm:"type:text" json:"logo,omitempty"`
	LogoRef     *string   `gorm:"type:text" json:"-"`
	Industry    string    `gorm:"type:varchar(50);not null;index" json:"industry"`
	Website     string    `gorm:"type:varchar(255)" json:"website"`
	Location    string    `gorm:"type:varchar(100)" json:"location"`
	Stage       string    `gorm:"type:varchar(30);not null;index" json:"stage"`
	TeamSize    string    `gorm:"type:varchar(10);not null" json:"teamSize"`
	Tagline     string    `gorm:"type:varchar(150)" json:"tagline"`
	Description string    `gorm:"type:varchar(2000)" json:"description"`
	LinkedIn    string    `gorm:"column:linkedin;type:varchar(255)" json:"linkedin"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"isActive"`
	ViewCount   int64     `gorm:"not null;default:0" json:"viewCount"`
}

func (Startup) TableName() string { return "startups" }

// SavedStartup records a member bookmarking a startup.
type SavedStartup struct {
	common.BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_startup" json:"userId"`
	StartupID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_startup;index" json:"startupId"`
	SavedDate time.Time `gorm:"not null" json:"savedDate"`
}

func (SavedStartup) TableName() string { return "saved_startups" }

// CreateStartupRequest defines the payload for creating a founder's startup.
type CreateStartupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Industry    string `json:"industry" binding:"required,industry"`
	Website     string `json:"website" binding:"omitempty,url,max=255"`
	Location    string `json:"location" binding:"omitempty,max=100"`
	Stage       string `json:"stage" binding:"required,stage"`
	TeamSize    string `json:"teamSize" binding:"required,teamsize"`
	Tagline     string `json:"tagline" binding:"omitempty,max=150"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	LinkedIn    string `json:"linkedin" binding:"omitempty,url,linkedinurl"`
}

// UpdateStartupRequest carries a partial update; nil fields are left unchanged.
type UpdateStartupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Industry    *string `json:"industry" binding:"omitempty,industry"`
	Website     *string `json:"website" binding:"omitempty,url,max=255"`
	Location    *string `json:"location" binding:"omitempty,max=100"`
	Stage       *string `json:"stage" binding:"omitempty,stage"`
	TeamSize    *string `json:"teamSize" binding:"omitempty,teamsize"`
	Tagline     *string `json:"tagline" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	LinkedIn    *string `json:"linkedin" binding:"omitempty,url,linkedinurl"`
	IsActive    *bool   `json:"isActive"`
}

func (r UpdateStartupRequest) applyTo(s *Startup) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Industry != nil {
		s.Industry = *r.Industry
	}
	if r.Website != nil {
		s.Website = *r.Website
	}
	if r.Location != nil {
		s.Location = *r.Location
	}
	if r.Stage != nil {
		s.Stage = *r.Stage
	}
	if r.TeamSize != nil {
		s.TeamSize = *r.TeamSize
	}
	if r.Tagline != nil {
		s.Tagline = *r.Tagline
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.LinkedIn != nil {
		s.LinkedIn = *r.LinkedIn
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
}

// ExploreQuery filters the member explore listing. Only active startups are listed.
type ExploreQuery struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Industry string `form:"industry" binding:"omitempty,industry"`
	Stage    string `form:"stage" binding:"omitempty,stage"`
	Location string `form:"location" binding:"omitempty,max=100"`
}

// Details is the member view of a single startup.
type Details struct {
	Startup        *Startup    `json:"startup"`
	OpenRoles      []role.Role `json:"openRoles"`
	IsSaved        bool        `json:"isSaved"`
	AppliedRoleIDs []uuid.UUID `json:"appliedRoleIds"`
}
