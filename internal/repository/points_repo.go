package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// PointsRepository persists the append-only points ledger and the reward
// category vocabulary.
type PointsRepository interface {
	GetCategory(ctx context.Context, id uint) (models.PointCategory, error)
	ListCategories(ctx context.Context) ([]models.PointCategory, error)
	CreateCategory(ctx context.Context, category *models.PointCategory) error
	UpdateCategory(ctx context.Context, id uint, updates map[string]interface{}) (models.PointCategory, error)
	CategoryNameExists(ctx context.Context, name string) (bool, error)

	// Apply inserts the transaction row and adjusts the student's cached
	// balances in a single database transaction. The point balance is
	// clamped at zero; the SOM balance only ever increases. The returned
	// profile reflects the new balances.
	Apply(ctx context.Context, entry *models.PointTransaction) (models.StudentProfile, error)

	ListTransactions(ctx context.Context, studentID uint, page, perPage int) ([]models.PointTransaction, int64, error)
}

type pointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository constructs a points repository.
func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) GetCategory(ctx context.Context, id uint) (models.PointCategory, error) {
	var category models.PointCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return models.PointCategory{}, err
	}

	return category, nil
}

// ListCategories returns active categories with penalties last,
// alphabetically within each group.
func (r *pointsRepository) ListCategories(ctx context.Context) ([]models.PointCategory, error) {
	var categories []models.PointCategory
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("is_penalty ASC").
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *pointsRepository) CreateCategory(ctx context.Context, category *models.PointCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *pointsRepository) UpdateCategory(ctx context.Context, id uint, updates map[string]interface{}) (models.PointCategory, error) {
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&models.PointCategory{}).Where("id = ?", id)
		if err := tx.Updates(updates).Error; err != nil {
			return models.PointCategory{}, err
		}
	}

	return r.GetCategory(ctx, id)
}

func (r *pointsRepository) CategoryNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PointCategory{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *pointsRepository) Apply(ctx context.Context, entry *models.PointTransaction) (models.StudentProfile, error) {
	var profile models.StudentProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		// Single guarded UPDATE so two concurrent grants cannot lose an
		// increment, and so the stored total stays the zero-floored
		// running sum.
		update := tx.Model(&models.StudentProfile{}).
			Where("id = ?", entry.StudentID).
			Updates(map[string]interface{}{
				"total_points": gorm.Expr(
					"CASE WHEN total_points + ? < 0 THEN 0 ELSE total_points + ? END",
					entry.Points, entry.Points,
				),
				"total_som": gorm.Expr("total_som + ?", entry.SomEarned),
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.First(&profile, entry.StudentID).Error
	})
	if err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *pointsRepository) ListTransactions(ctx context.Context, studentID uint, page, perPage int) ([]models.PointTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PointTransaction{}).
		Where("student_id = ?", studentID)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if perPage > 0 {
		query = query.Limit(perPage).Offset((page - 1) * perPage)
	}

	var transactions []models.PointTransaction
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}
