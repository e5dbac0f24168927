// File: internal/profile/repository.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
)

// Repository persists founder and member profiles. All writes go through
// Save so the completion hook sees the whole row.
type Repository interface {
	FindFounderByUserID(ctx context.Context, userID uuid.UUID) (*FounderProfile, error)
	FindMemberByUserID(ctx context.Context, userID uuid.UUID) (*MemberProfile, error)
	SaveFounder(ctx context.Context, p *FounderProfile) error
	SaveMember(ctx context.Context, p *MemberProfile) error
	FindMembersWithAnySkill(ctx context.Context, skills []string, limit int) ([]MemberProfile, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindFounderByUserID(ctx context.Context, userID uuid.UUID) (*FounderProfile, error) {
	var p FounderProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Founder profile not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) FindMemberByUserID(ctx context.Context, userID uuid.UUID) (*MemberProfile, error) {
	var p MemberProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Member profile not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) SaveFounder(ctx context.Context, p *FounderProfile) error {
	return r.save(ctx, p.ID, p.UserID, domain.RoleFounder, p)
}

func (r *gormRepository) SaveMember(ctx context.Context, p *MemberProfile) error {
	return r.save(ctx, p.ID, p.UserID, domain.RoleMember, p)
}

// save creates or updates a profile row. Creation is refused when the owning
// user's role does not match the profile kind, so a user never holds both.
func (r *gormRepository) save(ctx context.Context, id, userID uuid.UUID, kind domain.UserRole, model interface{}) error {
	if id != uuid.Nil {
		return r.db.WithContext(ctx).Save(model).Error
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role string
		res := tx.Table("users").Select("role").Where("id = ?", userID).Limit(1).Scan(&role)
		if res.Error != nil {
			return fmt.Errorf("look up user role: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("User not found.")
		}
		if domain.UserRole(role) != kind {
			return common.ErrForbidden.WithDetails(fmt.Sprintf("A %s profile cannot be created for a %s account.", kind, role))
		}
		return tx.Create(model).Error
	})
	if common.IsDuplicateKeyError(err) {
		return common.ErrConflict.WithDetails("Profile already exists for this user.")
	}
	return err
}

// FindMembersWithAnySkill returns member profiles listing at least one of skills.
// Skills are stored as a JSON array, so each skill is matched case-insensitively
// as a quoted element.
func (r *gormRepository) FindMembersWithAnySkill(ctx context.Context, skills []string, limit int) ([]MemberProfile, error) {
	if len(skills) == 0 {
		return nil, nil
	}
	cond := r.db.Where(skillMatchClause, skillPattern(skills[0]))
	for _, s := range skills[1:] {
		cond = cond.Or(skillMatchClause, skillPattern(s))
	}
	var out []MemberProfile
	err := r.db.WithContext(ctx).Model(&MemberProfile{}).
		Where(cond).Order("updated_at DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

const skillMatchClause = "LOWER(skills) LIKE ? ESCAPE '!'"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// skillPattern builds a LIKE pattern matching skill as one element of the
// stored JSON array.
func skillPattern(skill string) string {
	quoted, _ := json.Marshal(strings.ToLower(skill))
	return "%" + likeEscaper.Replace(string(quoted)) + "%"
}
