// File: internal/profile/model.go
package profile

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
)

// FounderProfile extends a founder user with public profile details.
type FounderProfile struct {
	common.BaseModel
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Experience       string    `gorm:"type:varchar(500)" json:"experience"`
	Bio              string    `gorm:"type:varchar(1000)" json:"bio"`
	Skills           []string  `gorm:"type:text;serializer:json" json:"skills"`
	LinkedIn         string    `gorm:"column:linkedin;type:varchar(255)" json:"linkedin"`
	Portfolio        string    `gorm:"type:varchar(255)" json:"portfolio"`
	CompletionStatus bool      `gorm:"not null;default:false" json:"completionStatus"`
}

func (FounderProfile) TableName() string { return "founder_profiles" }

// BeforeSave keeps CompletionStatus derived from the other fields on every write.
func (p *FounderProfile) BeforeSave(tx *gorm.DB) error {
	p.CompletionStatus = FounderComplete(p)
	return nil
}

// MemberProfile extends a member user with public profile details.
type MemberProfile struct {
	common.BaseModel
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	CurrentRole      string    `gorm:"type:varchar(100)" json:"currentRole"`
	Company          string    `gorm:"type:varchar(100)" json:"company"`
	YearsExperience  *int      `json:"yearsExperience"`
	LinkedIn         string    `gorm:"column:linkedin;type:varchar(255)" json:"linkedin"`
	GitHub           string    `gorm:"column:github;type:varchar(255)" json:"github"`
	Skills           []string  `gorm:"type:text;serializer:json" json:"skills"`
	Bio              string    `gorm:"type:varchar(1000)" json:"bio"`
	Portfolio        string    `gorm:"type:varchar(255)" json:"portfolio"`
	CompletionStatus bool      `gorm:"not null;default:false" json:"completionStatus"`
}

func (MemberProfile) TableName() string { return "member_profiles" }

// BeforeSave keeps CompletionStatus derived from the other fields on every write.
func (p *MemberProfile) BeforeSave(tx *gorm.DB) error {
	p.CompletionStatus = MemberComplete(p)
	return nil
}

// UpdateFounderProfileRequest carries a partial update; nil fields are left unchanged.
type UpdateFounderProfileRequest struct {
	Experience *string  `json:"experience" binding:"omitempty,max=500"`
	Bio        *string  `json:"bio" binding:"omitempty,max=1000"`
	Skills     []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50"`
	LinkedIn   *string  `json:"linkedin" binding:"omitempty,linkedinurl"`
	Portfolio  *string  `json:"portfolio" binding:"omitempty,url"`
}

// UpdateMemberProfileRequest carries a partial update; nil fields are left unchanged.
type UpdateMemberProfileRequest struct {
	CurrentRole     *string  `json:"currentRole" binding:"omitempty,max=100"`
	Company         *string  `json:"company" binding:"omitempty,max=100"`
	YearsExperience *int     `json:"yearsExperience" binding:"omitempty,gte=0,lte=50"`
	LinkedIn        *string  `json:"linkedin" binding:"omitempty,linkedinurl"`
	GitHub          *string  `json:"github" binding:"omitempty,githuburl"`
	Skills          []string `json:"skills" binding:"omitempty,max=50,dive,min=1,max=50"`
	Bio             *string  `json:"bio" binding:"omitempty,max=1000"`
	Portfolio       *string  `json:"portfolio" binding:"omitempty,url"`
}

func (r UpdateFounderProfileRequest) applyTo(p *FounderProfile) {
	if r.Experience != nil {
		p.Experience = *r.Experience
	}
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	if r.Skills != nil {
		p.Skills = normalizeSkills(r.Skills)
	}
	if r.LinkedIn != nil {
		p.LinkedIn = *r.LinkedIn
	}
	if r.Portfolio != nil {
		p.Portfolio = *r.Portfolio
	}
}

func (r UpdateMemberProfileRequest) applyTo(p *MemberProfile) {
	if r.CurrentRole != nil {
		p.CurrentRole = *r.CurrentRole
	}
	if r.Company != nil {
		p.Company = *r.Company
	}
	if r.YearsExperience != nil {
		years := *r.YearsExperience
		p.YearsExperience = &years
	}
	if r.LinkedIn != nil {
		p.LinkedIn = *r.LinkedIn
	}
	if r.GitHub != nil {
		p.GitHub = *r.GitHub
	}
	if r.Skills != nil {
		p.Skills = normalizeSkills(r.Skills)
	}
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	if r.Portfolio != nil {
		p.Portfolio = *r.Portfolio
	}
}
