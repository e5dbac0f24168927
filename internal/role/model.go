// File: internal/role/model.go
package role

import (
	"time"

	"github.com/google/uuid"

	"startupteam_backend/internal/common"
)

// Status is the hiring status of a role.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusFilled Status = "filled"
)

// Role is an open position posted by a startup.
type Role struct {
	common.BaseModel
	StartupID         uuid.UUID `gorm:"type:uuid;not null;index" json:"startupId"`
	Title             string    `gorm:"type:varchar(100);not null" json:"title"`
	ExperienceLevel   string    `gorm:"type:varchar(50);not null" json:"experienceLevel"`
	SalaryRange       string    `gorm:"type:varchar(100)" json:"salaryRange"`
	EmploymentType    string    `gorm:"type:varchar(30);not null" json:"employmentType"`
	Skills            []string  `gorm:"type:text;serializer:json" json:"skills"`
	Description       string    `gorm:"type:varchar(2000);not null" json:"description"`
	Status            Status    `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	PostedDate        time.Time `gorm:"not null" json:"postedDate"`
	ApplicationsCount int       `gorm:"not null;default:0" json:"applicationsCount"`
}

func (Role) TableName() string { return "roles" }

// CreateRoleRequest defines the payload for posting a role.
type CreateRoleRequest struct {
	Title           string   `json:"title" binding:"required,min=2,max=100"`
	ExperienceLevel string   `json:"experienceLevel" binding:"required,experiencelevel"`
	SalaryRange     string   `json:"salaryRange" binding:"omitempty,max=100"`
	EmploymentType  string   `json:"employmentType" binding:"required,employmenttype"`
	Skills          []string `json:"skills" binding:"omitempty,max=30,dive,min=1,max=50"`
	Description     string   `json:"description" binding:"required,max=2000"`
}

// UpdateRoleRequest carries a partial update; nil fields are left unchanged.
type UpdateRoleRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=2,max=100"`
	ExperienceLevel *string  `json:"experienceLevel" binding:"omitempty,experiencelevel"`
	SalaryRange     *string  `json:"salaryRange" binding:"omitempty,max=100"`
	EmploymentType  *string  `json:"employmentType" binding:"omitempty,employmenttype"`
	Skills          []string `json:"skills" binding:"omitempty,max=30,dive,min=1,max=50"`
	Description     *string  `json:"description" binding:"omitempty,min=1,max=2000"`
	Status          *string  `json:"status" binding:"omitempty,oneof=open closed filled"`
}

func (r UpdateRoleRequest) applyTo(role *Role) {
	if r.Title != nil {
		role.Title = *r.Title
	}
	if r.ExperienceLevel != nil {
		role.ExperienceLevel = *r.ExperienceLevel
	}
	if r.SalaryRange != nil {
		role.SalaryRange = *r.SalaryRange
	}
	if r.EmploymentType != nil {
		role.EmploymentType = *r.EmploymentType
	}
	if r.Skills != nil {
		role.Skills = cleanSkills(r.Skills)
	}
	if r.Description != nil {
		role.Description = *r.Description
	}
	if r.Status != nil {
		role.Status = Status(*r.Status)
	}
}

// ListRolesQuery filters a founder's roles.
type ListRolesQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=open closed filled"`
}
