package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

// Taxonomy sentinels.
var (
	ErrVocabularyNotFound = errors.New("vocabulary entry not found")
	ErrCategoryNotEmpty   = errors.New("skill category still owns skills")
)

// TaxonomyService manages the controlled vocabularies. Listing is open to
// any authenticated user; mutations are admin-only and audited.
type TaxonomyService interface {
	ListSkills(ctx context.Context) ([]dto.SkillResponse, error)
	ListSkillCategories(ctx context.Context) ([]dto.SkillCategoryResponse, error)
	ListInterests(ctx context.Context) ([]dto.InterestResponse, error)
	ListRoles(ctx context.Context) ([]dto.RoleResponse, error)

	CreateSkill(ctx context.Context, payload dto.SkillCreateRequest, actor Actor) (dto.SkillResponse, error)
	CreateSkillCategory(ctx context.Context, payload dto.SkillCategoryCreateRequest, actor Actor) (dto.SkillCategoryResponse, error)
	CreateInterest(ctx context.Context, payload dto.InterestCreateRequest, actor Actor) (dto.InterestResponse, error)
	CreateRole(ctx context.Context, payload dto.RoleCreateRequest, actor Actor) (dto.RoleResponse, error)

	DeleteSkill(ctx context.Context, id uint, actor Actor) error
	// DeleteSkillCategory refuses to delete a category that still owns
	// skills.
	DeleteSkillCategory(ctx context.Context, id uint, actor Actor) error
	DeleteInterest(ctx context.Context, id uint, actor Actor) error
	DeleteRole(ctx context.Context, id uint, actor Actor) error
}

type taxonomyService struct {
	repo      repository.TaxonomyRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTaxonomyService constructs the taxonomy service.
func NewTaxonomyService(repo repository.TaxonomyRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) TaxonomyService {
	return &taxonomyService{
		repo:      repo,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "taxonomy_service").Logger(),
	}
}

func (s *taxonomyService) ListSkills(ctx context.Context) ([]dto.SkillResponse, error) {
	skills, err := s.repo.ListSkills(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SkillResponse, 0, len(skills))
	for _, skill := range skills {
		items = append(items, dto.NewSkillResponse(skill))
	}
	return items, nil
}

func (s *taxonomyService) ListSkillCategories(ctx context.Context) ([]dto.SkillCategoryResponse, error) {
	categories, err := s.repo.ListSkillCategories(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SkillCategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.SkillCategoryResponse{ID: category.ID, Name: category.Name})
	}
	return items, nil
}

func (s *taxonomyService) ListInterests(ctx context.Context) ([]dto.InterestResponse, error) {
	interests, err := s.repo.ListInterests(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.InterestResponse, 0, len(interests))
	for _, interest := range interests {
		items = append(items, dto.NewInterestResponse(interest))
	}
	return items, nil
}

func (s *taxonomyService) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewRoleResponseSlice(roles), nil
}

func (s *taxonomyService) CreateSkill(ctx context.Context, payload dto.SkillCreateRequest, actor Actor) (dto.SkillResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SkillResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	exists, err := s.repo.SkillNameExists(ctx, name)
	if err != nil {
		return dto.SkillResponse{}, err
	}
	if exists {
		return dto.SkillResponse{}, fmt.Errorf("%w: skill name already exists", ErrConflict)
	}

	category, err := s.repo.GetSkillCategory(ctx, payload.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SkillResponse{}, fmt.Errorf("%w: skill category not found", ErrInvalidInput)
		}
		return dto.SkillResponse{}, err
	}

	skill := models.Skill{Name: name, CategoryID: category.ID, Category: category}
	if err := s.repo.CreateSkill(ctx, &skill); err != nil {
		return dto.SkillResponse{}, err
	}

	s.audit(ctx, actor, "skill.created", "skill", skill.ID, map[string]interface{}{"name": name})
	return dto.NewSkillResponse(skill), nil
}

func (s *taxonomyService) CreateSkillCategory(ctx context.Context, payload dto.SkillCategoryCreateRequest, actor Actor) (dto.SkillCategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SkillCategoryResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	exists, err := s.repo.SkillCategoryNameExists(ctx, name)
	if err != nil {
		return dto.SkillCategoryResponse{}, err
	}
	if exists {
		return dto.SkillCategoryResponse{}, fmt.Errorf("%w: category name already exists", ErrConflict)
	}

	category := models.SkillCategory{Name: name}
	if err := s.repo.CreateSkillCategory(ctx, &category); err != nil {
		return dto.SkillCategoryResponse{}, err
	}

	s.audit(ctx, actor, "skill_category.created", "skill_category", category.ID, map[string]interface{}{"name": name})
	return dto.SkillCategoryResponse{ID: category.ID, Name: category.Name}, nil
}

func (s *taxonomyService) CreateInterest(ctx context.Context, payload dto.InterestCreateRequest, actor Actor) (dto.InterestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InterestResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	exists, err := s.repo.InterestNameExists(ctx, name)
	if err != nil {
		return dto.InterestResponse{}, err
	}
	if exists {
		return dto.InterestResponse{}, fmt.Errorf("%w: interest name already exists", ErrConflict)
	}

	interest := models.Interest{Name: name}
	if err := s.repo.CreateInterest(ctx, &interest); err != nil {
		return dto.InterestResponse{}, err
	}

	s.audit(ctx, actor, "interest.created", "interest", interest.ID, map[string]interface{}{"name": name})
	return dto.NewInterestResponse(interest), nil
}

func (s *taxonomyService) CreateRole(ctx context.Context, payload dto.RoleCreateRequest, actor Actor) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	code := strings.ToLower(strings.TrimSpace(payload.Code))
	exists, err := s.repo.RoleCodeExists(ctx, code)
	if err != nil {
		return dto.RoleResponse{}, err
	}
	if exists {
		return dto.RoleResponse{}, fmt.Errorf("%w: role code already exists", ErrConflict)
	}

	role := models.Role{Code: code, Name: strings.TrimSpace(payload.Name)}
	if err := s.repo.CreateRole(ctx, &role); err != nil {
		return dto.RoleResponse{}, err
	}

	s.audit(ctx, actor, "role.created", "role", role.ID, map[string]interface{}{"code": code})
	return dto.NewRoleResponse(role), nil
}

func (s *taxonomyService) DeleteSkill(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.DeleteSkill(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVocabularyNotFound
		}
		return err
	}

	s.audit(ctx, actor, "skill.deleted", "skill", id, nil)
	return nil
}

func (s *taxonomyService) DeleteSkillCategory(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.repo.GetSkillCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVocabularyNotFound
		}
		return err
	}

	count, err := s.repo.CountSkillsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}

	if err := s.repo.DeleteSkillCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVocabularyNotFound
		}
		return err
	}

	s.audit(ctx, actor, "skill_category.deleted", "skill_category", id, nil)
	return nil
}

func (s *taxonomyService) DeleteInterest(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.DeleteInterest(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVocabularyNotFound
		}
		return err
	}

	s.audit(ctx, actor, "interest.deleted", "interest", id, nil)
	return nil
}

func (s *taxonomyService) DeleteRole(ctx context.Context, id uint, actor Actor) error {
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVocabularyNotFound
		}
		return err
	}

	s.audit(ctx, actor, "role.deleted", "role", id, nil)
	return nil
}

func (s *taxonomyService) audit(ctx context.Context, actor Actor, action, entityType string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	id := entityID
	_ = s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Metadata:   metadata,
	})
}
