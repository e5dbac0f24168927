// File: internal/role/repository.go
package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
)

// mutableColumns are the columns a founder may change. applications_count is
// maintained only by the application workflow.
var mutableColumns = []string{"title", "experience_level", "salary_range", "employment_type", "skills", "description", "status", "updated_at"}

// Repository defines the interface for role data operations.
type Repository interface {
	Create(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)
	ListByStartup(ctx context.Context, startupID uuid.UUID, status Status) ([]Role, error)
	Update(ctx context.Context, role *Role) error
	DeleteWithApplications(ctx context.Context, id uuid.UUID) (int64, error)
	CountByStartup(ctx context.Context, startupID uuid.UUID, status Status) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM role repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, role *Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Role, error) {
	var role Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Role not found.")
		}
		return nil, err
	}
	return &role, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error) {
	var roles []Role
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

// ListByStartup returns a startup's roles, newest first. An empty status means all.
func (r *gormRepository) ListByStartup(ctx context.Context, startupID uuid.UUID, status Status) ([]Role, error) {
	var roles []Role
	query := r.db.WithContext(ctx).Where("startup_id = ?", startupID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("posted_date DESC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles for startup %s: %w", startupID, err)
	}
	return roles, nil
}

// Update writes the founder-editable columns only.
func (r *gormRepository) Update(ctx context.Context, role *Role) error {
	result := r.db.WithContext(ctx).Model(role).Select(mutableColumns).Updates(role)
	if result.Error != nil {
		return fmt.Errorf("failed to update role %s: %w", role.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Role not found.")
	}
	return nil
}

// DeleteWithApplications removes the role and every application to it in one
// transaction and returns how many applications were removed.
func (r *gormRepository) DeleteWithApplications(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM applications WHERE role_id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete applications for role %s: %w", id, res.Error)
		}
		removed = res.RowsAffected

		res = tx.Delete(&Role{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete role %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Role not found.")
		}
		return nil
	})
	return removed, err
}

func (r *gormRepository) CountByStartup(ctx context.Context, startupID uuid.UUID, status Status) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&Role{}).Where("startup_id = ?", startupID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
