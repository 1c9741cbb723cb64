package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// SkillSelection is one entry of a replace-all skills payload.
type SkillSelection struct {
	SkillID uint
	Level   int
}

// StudentFilter narrows the admin student listing.
type StudentFilter struct {
	Search  string
	Page    int
	PerPage int
}

// StudentRepository provides access to student profiles and their
// selection sets.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.StudentProfile, error)
	GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error)
	GetOrCreateByUserID(ctx context.Context, userID uint) (models.StudentProfile, bool, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.StudentProfile, error)
	List(ctx context.Context, filter StudentFilter) ([]models.StudentProfile, int64, error)

	ReplaceSkills(ctx context.Context, studentID uint, selections []SkillSelection) error
	ReplaceInterests(ctx context.Context, studentID uint, interestIDs []uint) error
	ReplaceRoles(ctx context.Context, studentID uint, roleIDs []uint) error

	GetSkills(ctx context.Context, studentID uint) ([]models.StudentSkill, error)
	GetInterests(ctx context.Context, studentID uint) ([]models.StudentInterest, error)
	GetRoles(ctx context.Context, studentID uint) ([]models.StudentRole, error)
	InterestIDs(ctx context.Context, studentID uint) ([]uint, error)
	RoleIDs(ctx context.Context, studentID uint) ([]uint, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return profile, nil
}

// GetOrCreateByUserID returns the profile for the user, creating an empty
// one when missing. The second return reports whether a profile was created.
func (r *studentRepository) GetOrCreateByUserID(ctx context.Context, userID uint) (models.StudentProfile, bool, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StudentProfile{}, false, err
	}

	profile = models.StudentProfile{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return models.StudentProfile{}, false, err
	}

	return profile, true, nil
}

func (r *studentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.StudentProfile, error) {
	if len(updates) > 0 {
		tx := r.db.WithContext(ctx).Model(&models.StudentProfile{}).Where("id = ?", id)
		if err := tx.Updates(updates).Error; err != nil {
			return models.StudentProfile{}, err
		}
	}

	return r.GetByID(ctx, id)
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.StudentProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StudentProfile{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(group_name) LIKE ?", like, like, like)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PerPage > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PerPage).Offset((page - 1) * filter.PerPage)
	}

	var profiles []models.StudentProfile
	if err := query.Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// ReplaceSkills atomically swaps the student's skill selections for the
// given set. A concurrent reader never observes the intermediate empty set.
func (r *studentRepository) ReplaceSkills(ctx context.Context, studentID uint, selections []SkillSelection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.StudentSkill{}).Error; err != nil {
			return err
		}

		for _, selection := range selections {
			row := models.StudentSkill{
				StudentID: studentID,
				SkillID:   selection.SkillID,
				Level:     selection.Level,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *studentRepository) ReplaceInterests(ctx context.Context, studentID uint, interestIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.StudentInterest{}).Error; err != nil {
			return err
		}

		for _, interestID := range interestIDs {
			row := models.StudentInterest{StudentID: studentID, InterestID: interestID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *studentRepository) ReplaceRoles(ctx context.Context, studentID uint, roleIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.StudentRole{}).Error; err != nil {
			return err
		}

		for _, roleID := range roleIDs {
			row := models.StudentRole{StudentID: studentID, RoleID: roleID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *studentRepository) GetSkills(ctx context.Context, studentID uint) ([]models.StudentSkill, error) {
	var skills []models.StudentSkill
	err := r.db.WithContext(ctx).
		Preload("Skill").Preload("Skill.Category").
		Where("student_id = ?", studentID).
		Find(&skills).Error
	return skills, err
}

func (r *studentRepository) GetInterests(ctx context.Context, studentID uint) ([]models.StudentInterest, error) {
	var interests []models.StudentInterest
	err := r.db.WithContext(ctx).
		Preload("Interest").
		Where("student_id = ?", studentID).
		Find(&interests).Error
	return interests, err
}

func (r *studentRepository) GetRoles(ctx context.Context, studentID uint) ([]models.StudentRole, error) {
	var roles []models.StudentRole
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("student_id = ?", studentID).
		Find(&roles).Error
	return roles, err
}

func (r *studentRepository) InterestIDs(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.StudentInterest{}).
		Where("student_id = ?", studentID).
		Pluck("interest_id", &ids).Error
	return ids, err
}

func (r *studentRepository) RoleIDs(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.StudentRole{}).
		Where("student_id = ?", studentID).
		Pluck("role_id", &ids).Error
	return ids, err
}
