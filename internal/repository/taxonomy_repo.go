package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// TaxonomyRepository manages the controlled vocabularies: skills with
// their categories, interests and team roles.
type TaxonomyRepository interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
	ListSkillCategories(ctx context.Context) ([]models.SkillCategory, error)
	ListInterests(ctx context.Context) ([]models.Interest, error)
	ListRoles(ctx context.Context) ([]models.Role, error)

	CreateSkill(ctx context.Context, skill *models.Skill) error
	CreateSkillCategory(ctx context.Context, category *models.SkillCategory) error
	CreateInterest(ctx context.Context, interest *models.Interest) error
	CreateRole(ctx context.Context, role *models.Role) error

	DeleteSkill(ctx context.Context, id uint) error
	DeleteSkillCategory(ctx context.Context, id uint) error
	DeleteInterest(ctx context.Context, id uint) error
	DeleteRole(ctx context.Context, id uint) error

	GetSkillCategory(ctx context.Context, id uint) (models.SkillCategory, error)
	CountSkillsInCategory(ctx context.Context, categoryID uint) (int64, error)
	CountSkillsByIDs(ctx context.Context, ids []uint) (int64, error)
	CountInterestsByIDs(ctx context.Context, ids []uint) (int64, error)
	CountRolesByIDs(ctx context.Context, ids []uint) (int64, error)
	SkillNameExists(ctx context.Context, name string) (bool, error)
	SkillCategoryNameExists(ctx context.Context, name string) (bool, error)
	InterestNameExists(ctx context.Context, name string) (bool, error)
	RoleCodeExists(ctx context.Context, code string) (bool, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository constructs a taxonomy repository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	err := r.db.WithContext(ctx).Preload("Category").Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *taxonomyRepository) ListSkillCategories(ctx context.Context) ([]models.SkillCategory, error) {
	var categories []models.SkillCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *taxonomyRepository) ListInterests(ctx context.Context) ([]models.Interest, error) {
	var interests []models.Interest
	err := r.db.WithContext(ctx).Order("name ASC").Find(&interests).Error
	return interests, err
}

func (r *taxonomyRepository) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *taxonomyRepository) CreateSkill(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *taxonomyRepository) CreateSkillCategory(ctx context.Context, category *models.SkillCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *taxonomyRepository) CreateInterest(ctx context.Context, interest *models.Interest) error {
	return r.db.WithContext(ctx).Create(interest).Error
}

func (r *taxonomyRepository) CreateRole(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *taxonomyRepository) DeleteSkill(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Skill{}, id)
}

func (r *taxonomyRepository) DeleteSkillCategory(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.SkillCategory{}, id)
}

func (r *taxonomyRepository) DeleteInterest(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Interest{}, id)
}

func (r *taxonomyRepository) DeleteRole(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.Role{}, id)
}

func deleteByID(db *gorm.DB, model interface{}, id uint) error {
	result := db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taxonomyRepository) GetSkillCategory(ctx context.Context, id uint) (models.SkillCategory, error) {
	var category models.SkillCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return models.SkillCategory{}, err
	}
	return category, nil
}

func (r *taxonomyRepository) CountSkillsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Skill{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *taxonomyRepository) CountSkillsByIDs(ctx context.Context, ids []uint) (int64, error) {
	return countByIDs(r.db.WithContext(ctx), &models.Skill{}, ids)
}

func (r *taxonomyRepository) CountInterestsByIDs(ctx context.Context, ids []uint) (int64, error) {
	return countByIDs(r.db.WithContext(ctx), &models.Interest{}, ids)
}

func (r *taxonomyRepository) CountRolesByIDs(ctx context.Context, ids []uint) (int64, error) {
	return countByIDs(r.db.WithContext(ctx), &models.Role{}, ids)
}

func countByIDs(db *gorm.DB, model interface{}, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := db.Model(model).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *taxonomyRepository) SkillNameExists(ctx context.Context, name string) (bool, error) {
	return nameExists(r.db.WithContext(ctx), &models.Skill{}, "name", name)
}

func (r *taxonomyRepository) SkillCategoryNameExists(ctx context.Context, name string) (bool, error) {
	return nameExists(r.db.WithContext(ctx), &models.SkillCategory{}, "name", name)
}

func (r *taxonomyRepository) InterestNameExists(ctx context.Context, name string) (bool, error) {
	return nameExists(r.db.WithContext(ctx), &models.Interest{}, "name", name)
}

func (r *taxonomyRepository) RoleCodeExists(ctx context.Context, code string) (bool, error) {
	return nameExists(r.db.WithContext(ctx), &models.Role{}, "code", code)
}

func nameExists(db *gorm.DB, model interface{}, column, value string) (bool, error) {
	var count int64
	err := db.Model(model).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}
