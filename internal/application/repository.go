// File: internal/application/repository.go
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"startupteam_backend/internal/common"
)

const viewColumns = "applications.*, roles.title AS role_title, startups.name AS startup_name, users.name AS member_name, users.email AS member_email"

// Repository defines the interface for application data operations.
type Repository interface {
	Apply(ctx context.Context, app *Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*Application, error)
	Transition(ctx context.Context, id uuid.UUID, from, to Status, notes string, at time.Time) error
	Cancel(ctx context.Context, id, memberID uuid.UUID) error
	ListForMember(ctx context.Context, memberID uuid.UUID, status Status, page common.PaginationQuery) ([]View, int64, error)
	ListForStartup(ctx context.Context, startupID uuid.UUID, status Status, roleID *uuid.UUID, page common.PaginationQuery) ([]View, int64, error)
	AppliedRoleIDs(ctx context.Context, memberID, startupID uuid.UUID) ([]uuid.UUID, error)
	CountByStatusForStartup(ctx context.Context, startupID uuid.UUID) (map[Status]int64, error)
	CountByStatusForMember(ctx context.Context, memberID uuid.UUID) (map[Status]int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM application repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Apply bumps the role's applications_count and inserts app in one
// transaction. Only open roles accept applications.
func (r *gormRepository) Apply(ctx context.Context, app *Application) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("UPDATE roles SET applications_count = applications_count + 1 WHERE id = ? AND status = ?", app.RoleID, "open")
		if res.Error != nil {
			return fmt.Errorf("failed to reserve role %s: %w", app.RoleID, res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrRoleNotFound
		}

		var startupIDs []uuid.UUID
		if err := tx.Table("roles").Where("id = ?", app.RoleID).Pluck("startup_id", &startupIDs).Error; err != nil {
			return fmt.Errorf("failed to read role %s: %w", app.RoleID, err)
		}
		if len(startupIDs) == 0 {
			return common.ErrRoleNotFound
		}
		app.StartupID = startupIDs[0]

		if err := tx.Create(app).Error; err != nil {
			if common.IsDuplicateKeyError(err) {
				return common.ErrDuplicateApplication
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	var app Application
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Application not found.")
		}
		return nil, err
	}
	return &app, nil
}

// Transition moves the application from the observed status to the next one.
// If another writer changed the status first nothing is updated and
// ErrInvalidTransition is returned.
func (r *gormRepository) Transition(ctx context.Context, id uuid.UUID, from, to Status, notes string, at time.Time) error {
	updates := map[string]interface{}{
		"status":       to,
		"updated_date": at,
		"updated_at":   at,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.WithContext(ctx).Model(&Application{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update application %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrInvalidTransition.WithDetails(fmt.Sprintf("Application is no longer %s.", from))
	}
	return nil
}

// Cancel deletes a pending application owned by memberID and releases its
// slot on the role counter in one transaction.
func (r *gormRepository) Cancel(ctx context.Context, id, memberID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app Application
		if err := tx.First(&app, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrNotFound.WithDetails("Application not found.")
			}
			return err
		}
		if app.MemberID != memberID {
			return common.ErrForbidden.WithDetails("This application belongs to another member.")
		}

		res := tx.Where("id = ? AND member_id = ? AND status = ?", id, memberID, StatusPending).Delete(&Application{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete application %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrInvalidTransition.WithDetails("Only pending applications can be cancelled.")
		}

		res = tx.Exec("UPDATE roles SET applications_count = applications_count - 1 WHERE id = ? AND applications_count > 0", app.RoleID)
		if res.Error != nil {
			return fmt.Errorf("failed to release role %s: %w", app.RoleID, res.Error)
		}
		return nil
	})
}

func (r *gormRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("applications").
		Joins("LEFT JOIN roles ON roles.id = applications.role_id").
		Joins("LEFT JOIN startups ON startups.id = applications.startup_id").
		Joins("LEFT JOIN users ON users.id = applications.member_id")
}

func (r *gormRepository) listViews(dbQuery *gorm.DB, page common.PaginationQuery) ([]View, int64, error) {
	var total int64
	if err := dbQuery.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	views := []View{}
	err := dbQuery.Select(viewColumns).
		Order("applications.applied_date DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Scan(&views).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	return views, total, nil
}

// ListForMember returns the member's applications, newest first.
func (r *gormRepository) ListForMember(ctx context.Context, memberID uuid.UUID, status Status, page common.PaginationQuery) ([]View, int64, error) {
	dbQuery := r.viewQuery(ctx).Where("applications.member_id = ?", memberID)
	if status != "" {
		dbQuery = dbQuery.Where("applications.status = ?", status)
	}
	return r.listViews(dbQuery, page)
}

// ListForStartup returns applications to a startup's roles, newest first.
func (r *gormRepository) ListForStartup(ctx context.Context, startupID uuid.UUID, status Status, roleID *uuid.UUID, page common.PaginationQuery) ([]View, int64, error) {
	dbQuery := r.viewQuery(ctx).Where("applications.startup_id = ?", startupID)
	if status != "" {
		dbQuery = dbQuery.Where("applications.status = ?", status)
	}
	if roleID != nil {
		dbQuery = dbQuery.Where("applications.role_id = ?", *roleID)
	}
	return r.listViews(dbQuery, page)
}

func (r *gormRepository) AppliedRoleIDs(ctx context.Context, memberID, startupID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Application{}).
		Where("member_id = ? AND startup_id = ?", memberID, startupID).
		Pluck("role_id", &ids).Error
	return ids, err
}

type statusCount struct {
	Status Status
	Count  int64
}

func (r *gormRepository) countByStatus(ctx context.Context, column string, id uuid.UUID) (map[Status]int64, error) {
	var rows []statusCount
	err := r.db.WithContext(ctx).Model(&Application{}).
		Select("status, COUNT(*) AS count").
		Where(column+" = ?", id).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	counts := make(map[Status]int64, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *gormRepository) CountByStatusForStartup(ctx context.Context, startupID uuid.UUID) (map[Status]int64, error) {
	return r.countByStatus(ctx, "startup_id", startupID)
}

func (r *gormRepository) CountByStatusForMember(ctx context.Context, memberID uuid.UUID) (map[Status]int64, error) {
	return r.countByStatus(ctx, "member_id", memberID)
}
