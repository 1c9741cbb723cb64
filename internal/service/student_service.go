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

// ErrUserNotFound indicates the account backing a request no longer exists.
var ErrUserNotFound = errors.New("user not found")

// StudentService manages student profiles and their selection sets.
type StudentService interface {
	// GetMe returns the student profile for the account, creating an
	// empty profile on first access.
	GetMe(ctx context.Context, userID uint) (dto.StudentProfileResponse, error)
	UpdateMe(ctx context.Context, userID uint, payload dto.StudentProfileUpdateRequest) (dto.StudentProfileResponse, error)
	GetSkillMap(ctx context.Context, userID uint) (dto.SkillMapResponse, error)

	// ReplaceSkills swaps the student's whole skill-selection set. Every
	// skill id must exist, every level must be in 1..5 and duplicate
	// skill ids are rejected.
	ReplaceSkills(ctx context.Context, userID uint, selections []dto.SkillSelectionRequest) error
	ReplaceInterests(ctx context.Context, userID uint, interestIDs []uint) error
	ReplaceRoles(ctx context.Context, userID uint, roleIDs []uint) error
}

type studentService struct {
	students  repository.StudentRepository
	users     repository.UserRepository
	taxonomy  repository.TaxonomyRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, users repository.UserRepository, taxonomy repository.TaxonomyRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		users:     users,
		taxonomy:  taxonomy,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) GetMe(ctx context.Context, userID uint) (dto.StudentProfileResponse, error) {
	user, profile, err := s.userWithProfile(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile, user), nil
}

func (s *studentService) UpdateMe(ctx context.Context, userID uint, payload dto.StudentProfileUpdateRequest) (dto.StudentProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentProfileResponse{}, err
	}

	user, profile, err := s.userWithProfile(ctx, userID)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*payload.FirstName)
	}
	if payload.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*payload.LastName)
	}
	if payload.GroupName != nil {
		updates["group_name"] = strings.TrimSpace(*payload.GroupName)
	}

	profile, err = s.students.Update(ctx, profile.ID, updates)
	if err != nil {
		return dto.StudentProfileResponse{}, err
	}

	return dto.NewStudentProfileResponse(profile, user), nil
}

func (s *studentService) GetSkillMap(ctx context.Context, userID uint) (dto.SkillMapResponse, error) {
	user, profile, err := s.userWithProfile(ctx, userID)
	if err != nil {
		return dto.SkillMapResponse{}, err
	}

	skills, err := s.students.GetSkills(ctx, profile.ID)
	if err != nil {
		return dto.SkillMapResponse{}, err
	}

	interests, err := s.students.GetInterests(ctx, profile.ID)
	if err != nil {
		return dto.SkillMapResponse{}, err
	}

	roles, err := s.students.GetRoles(ctx, profile.ID)
	if err != nil {
		return dto.SkillMapResponse{}, err
	}

	response := dto.SkillMapResponse{
		Profile:   dto.NewStudentProfileResponse(profile, user),
		Skills:    make([]dto.SkillSelectionResponse, 0, len(skills)),
		Interests: make([]dto.InterestResponse, 0, len(interests)),
		Roles:     make([]dto.RoleResponse, 0, len(roles)),
	}

	for _, selection := range skills {
		response.Skills = append(response.Skills, dto.SkillSelectionResponse{
			ID:    selection.Skill.ID,
			Name:  selection.Skill.Name,
			Level: selection.Level,
			Category: dto.SkillCategoryResponse{
				ID:   selection.Skill.Category.ID,
				Name: selection.Skill.Category.Name,
			},
		})
	}

	for _, selection := range interests {
		response.Interests = append(response.Interests, dto.NewInterestResponse(selection.Interest))
	}

	for _, selection := range roles {
		response.Roles = append(response.Roles, dto.NewRoleResponse(selection.Role))
	}

	return response, nil
}

func (s *studentService) ReplaceSkills(ctx context.Context, userID uint, selections []dto.SkillSelectionRequest) error {
	_, profile, err := s.userWithProfile(ctx, userID)
	if err != nil {
		return err
	}

	seen := make(map[uint]struct{}, len(selections))
	ids := make([]uint, 0, len(selections))
	rows := make([]repository.SkillSelection, 0, len(selections))

	for _, selection := range selections {
		if err := s.validator.Struct(selection); err != nil {
			return err
		}
		if _, dup := seen[selection.SkillID]; dup {
			return fmt.Errorf("%w: duplicate skill_id %d", ErrInvalidInput, selection.SkillID)
		}
		seen[selection.SkillID] = struct{}{}
		ids = append(ids, selection.SkillID)
		rows = append(rows, repository.SkillSelection{SkillID: selection.SkillID, Level: selection.Level})
	}

	if err := s.requireAllExist(ctx, ids, s.taxonomy.CountSkillsByIDs, "skill_id"); err != nil {
		return err
	}

	return s.students.ReplaceSkills(ctx, profile.ID, rows)
}

func (s *studentService) ReplaceInterests(ctx context.Context, userID uint, interestIDs []uint) error {
	_, profile, err := s.userWithProfile(ctx, userID)
	if err != nil {
		return err
	}

	ids, err := uniqueIDs(interestIDs, "interest_id")
	if err != nil {
		return err
	}

	if err := s.requireAllExist(ctx, ids, s.taxonomy.CountInterestsByIDs, "interest_id"); err != nil {
		return err
	}

	return s.students.ReplaceInterests(ctx, profile.ID, ids)
}

func (s *studentService) ReplaceRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	_, profile, err := s.userWithProfile(ctx, userID)
	if err != nil {
		return err
	}

	ids, err := uniqueIDs(roleIDs, "role_id")
	if err != nil {
		return err
	}

	if err := s.requireAllExist(ctx, ids, s.taxonomy.CountRolesByIDs, "role_id"); err != nil {
		return err
	}

	return s.students.ReplaceRoles(ctx, profile.ID, ids)
}

// userWithProfile loads the account and its student profile, creating the
// profile on first access.
func (s *studentService) userWithProfile(ctx context.Context, userID uint) (models.User, models.StudentProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, models.StudentProfile{}, ErrUserNotFound
		}
		return models.User{}, models.StudentProfile{}, err
	}

	if user.Role != models.RoleStudent {
		return models.User{}, models.StudentProfile{}, ErrForbidden
	}

	profile, created, err := s.students.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return models.User{}, models.StudentProfile{}, err
	}
	if created {
		s.logger.Info().Uint("user_id", userID).Msg("student profile lazily created")
	}

	return user, profile, nil
}

func (s *studentService) requireAllExist(ctx context.Context, ids []uint, count func(context.Context, []uint) (int64, error), field string) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := count(ctx, ids)
	if err != nil {
		return err
	}
	if found != int64(len(ids)) {
		return fmt.Errorf("%w: some %s not found", ErrInvalidInput, field)
	}

	return nil
}

func uniqueIDs(ids []uint, field string) ([]uint, error) {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate %s %d", ErrInvalidInput, field, id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
