// File: internal/startup/repository.go
package startup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"startupteam_backend/internal/common"
)

var mutableColumns = []string{
	"name", "industry", "website", "location", "stage", "team_size",
	"tagline", "description", "linkedin", "is_active", "logo", "logo_ref", "updated_at",
}

// Repository defines the interface for startup data operations.
type Repository interface {
	Create(ctx context.Context, s *Startup) error
	FindByID(ctx context.Context, id uuid.UUID) (*Startup, error)
	FindByFounderID(ctx context.Context, founderID uuid.UUID) (*Startup, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Startup, error)
	Update(ctx context.Context, s *Startup) error
	Explore(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]Startup, int64, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	Save(ctx context.Context, userID, startupID uuid.UUID, at time.Time) error
	Unsave(ctx context.Context, userID, startupID uuid.UUID) error
	IsSaved(ctx context.Context, userID, startupID uuid.UUID) (bool, error)
	ListSaved(ctx context.Context, userID uuid.UUID, page common.PaginationQuery) ([]Startup, int64, error)
	CountSaved(ctx context.Context, userID uuid.UUID) (int64, error)
	EachActive(ctx context.Context, batchSize int, fn func([]Startup) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM startup repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, s *Startup) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if common.IsDuplicateKeyError(err) {
		return common.ErrConflict.WithDetails("You already have a startup.")
	}
	if err != nil {
		return fmt.Errorf("failed to create startup: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Startup, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormRepository) FindByFounderID(ctx context.Context, founderID uuid.UUID) (*Startup, error) {
	return r.findOne(ctx, "founder_id = ?", founderID)
}

func (r *gormRepository) findOne(ctx context.Context, cond string, arg interface{}) (*Startup, error) {
	var s Startup
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Startup not found.")
		}
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Startup, error) {
	var startups []Startup
	if len(ids) == 0 {
		return startups, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&startups).Error
	return startups, err
}

func (r *gormRepository) Update(ctx context.Context, s *Startup) error {
	result := r.db.WithContext(ctx).Model(s).Select(mutableColumns).Updates(s)
	if result.Error != nil {
		return fmt.Errorf("failed to update startup %s: %w", s.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Startup not found.")
	}
	return nil
}

// Explore lists active startups matching q, newest first.
func (r *gormRepository) Explore(ctx context.Context, q ExploreQuery, page common.PaginationQuery) ([]Startup, int64, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Startup{}).Where("is_active = ?", true)

	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(tagline) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	if q.Industry != "" {
		dbQuery = dbQuery.Where("industry = ?", q.Industry)
	}
	if q.Stage != "" {
		dbQuery = dbQuery.Where("stage = ?", q.Stage)
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		dbQuery = dbQuery.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}

	var total int64
	if err := dbQuery.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count startups: %w", err)
	}

	var startups []Startup
	err := dbQuery.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit()).Find(&startups).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to explore startups: %w", err)
	}
	return startups, total, nil
}

func (r *gormRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Startup{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// Save bookmarks a startup. Saving twice is a no-op.
func (r *gormRepository) Save(ctx context.Context, userID, startupID uuid.UUID, at time.Time) error {
	saved := &SavedStartup{UserID: userID, StartupID: startupID, SavedDate: at}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "startup_id"}}, DoNothing: true}).
		Create(saved).Error
	if err != nil {
		return fmt.Errorf("failed to save startup: %w", err)
	}
	return nil
}

func (r *gormRepository) Unsave(ctx context.Context, userID, startupID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND startup_id = ?", userID, startupID).Delete(&SavedStartup{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsave startup: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Startup is not in your saved list.")
	}
	return nil
}

func (r *gormRepository) IsSaved(ctx context.Context, userID, startupID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SavedStartup{}).
		Where("user_id = ? AND startup_id = ?", userID, startupID).Count(&count).Error
	return count > 0, err
}

// ListSaved returns the member's saved startups, most recently saved first.
func (r *gormRepository) ListSaved(ctx context.Context, userID uuid.UUID, page common.PaginationQuery) ([]Startup, int64, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Startup{}).
		Joins("JOIN saved_startups ON saved_startups.startup_id = startups.id").
		Where("saved_startups.user_id = ?", userID)

	var total int64
	if err := dbQuery.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count saved startups: %w", err)
	}

	var startups []Startup
	err := dbQuery.Order("saved_startups.saved_date DESC").
		Offset(page.Offset()).Limit(page.Limit()).
		Find(&startups).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list saved startups: %w", err)
	}
	return startups, total, nil
}

func (r *gormRepository) CountSaved(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SavedStartup{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// EachActive walks every active startup in batches.
func (r *gormRepository) EachActive(ctx context.Context, batchSize int, fn func([]Startup) error) error {
	var batch []Startup
	result := r.db.WithContext(ctx).Where("is_active = ?", true).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		})
	return result.Error
}
