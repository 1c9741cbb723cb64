package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// UserRepository provides access to account records.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error
	CreateAdmin(ctx context.Context, user *models.User, profile *models.AdminProfile) error
	Deactivate(ctx context.Context, id uint) error

	GetOrCreateAdminProfile(ctx context.Context, userID uint) (models.AdminProfile, bool, error)
	UpdateAdminProfile(ctx context.Context, userID uint, updates map[string]interface{}) (models.AdminProfile, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

// CreateStudent inserts the account and its student profile atomically.
func (r *userRepository) CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

// CreateAdmin inserts the account and its admin profile atomically.
func (r *userRepository) CreateAdmin(ctx context.Context, user *models.User, profile *models.AdminProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

// GetOrCreateAdminProfile returns the admin profile for the user, creating
// an empty one when missing. The second return reports whether a profile
// was created.
func (r *userRepository) GetOrCreateAdminProfile(ctx context.Context, userID uint) (models.AdminProfile, bool, error) {
	var profile models.AdminProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AdminProfile{}, false, err
	}

	profile = models.AdminProfile{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return models.AdminProfile{}, false, err
	}

	return profile, true, nil
}

func (r *userRepository) UpdateAdminProfile(ctx context.Context, userID uint, updates map[string]interface{}) (models.AdminProfile, error) {
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&models.AdminProfile{}).Where("user_id = ?", userID)
		if err := tx.Updates(updates).Error; err != nil {
			return models.AdminProfile{}, err
		}
	}

	var profile models.AdminProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.AdminProfile{}, err
	}

	return profile, nil
}

func (r *userRepository) Deactivate(ctx context.Context, id uint) error {
	update := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Update("is_active", false)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
