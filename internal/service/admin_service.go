package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

// AdminService covers the admin's own profile and student management.
type AdminService interface {
	GetMe(ctx context.Context, actor Actor) (dto.AdminProfileResponse, error)
	UpdateMe(ctx context.Context, actor Actor, payload dto.AdminProfileUpdateRequest) (dto.AdminProfileResponse, error)
	ListStudents(ctx context.Context, request dto.AdminStudentListRequest) (dto.AdminStudentListResponse, error)
	DeactivateStudent(ctx context.Context, actor Actor, studentID uint) error
}

type adminService struct {
	users     repository.UserRepository
	students  repository.StudentRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(users repository.UserRepository, students repository.StudentRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		users:     users,
		students:  students,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) GetMe(ctx context.Context, actor Actor) (dto.AdminProfileResponse, error) {
	if !actor.IsAdmin() {
		return dto.AdminProfileResponse{}, ErrForbidden
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminProfileResponse{}, ErrUserNotFound
		}
		return dto.AdminProfileResponse{}, err
	}

	profile, created, err := s.users.GetOrCreateAdminProfile(ctx, actor.UserID)
	if err != nil {
		return dto.AdminProfileResponse{}, err
	}
	if created {
		s.logger.Info().Uint("user_id", actor.UserID).Msg("admin profile created lazily")
	}

	return dto.NewAdminProfileResponse(profile, user), nil
}

func (s *adminService) UpdateMe(ctx context.Context, actor Actor, payload dto.AdminProfileUpdateRequest) (dto.AdminProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AdminProfileResponse{}, err
	}

	if !actor.IsAdmin() {
		return dto.AdminProfileResponse{}, ErrForbidden
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AdminProfileResponse{}, ErrUserNotFound
		}
		return dto.AdminProfileResponse{}, err
	}

	if _, _, err := s.users.GetOrCreateAdminProfile(ctx, actor.UserID); err != nil {
		return dto.AdminProfileResponse{}, err
	}

	updates := map[string]interface{}{}
	if payload.FullName != nil {
		updates["full_name"] = *payload.FullName
	}
	if payload.Position != nil {
		updates["position"] = *payload.Position
	}

	profile, err := s.users.UpdateAdminProfile(ctx, actor.UserID, updates)
	if err != nil {
		return dto.AdminProfileResponse{}, err
	}

	return dto.NewAdminProfileResponse(profile, user), nil
}

func (s *adminService) ListStudents(ctx context.Context, request dto.AdminStudentListRequest) (dto.AdminStudentListResponse, error) {
	page, perPage := clampPagination(request.Page, request.PerPage, 20)

	profiles, total, err := s.students.List(ctx, repository.StudentFilter{
		Search:  request.Search,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return dto.AdminStudentListResponse{}, err
	}

	items := make([]dto.AdminStudentResponse, 0, len(profiles))
	for _, profile := range profiles {
		user, err := s.users.GetByID(ctx, profile.UserID)
		if err != nil {
			return dto.AdminStudentListResponse{}, err
		}

		items = append(items, dto.AdminStudentResponse{
			StudentProfileResponse: dto.NewStudentProfileResponse(profile, user),
			IsActive:               user.IsActive,
		})
	}

	return dto.AdminStudentListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, perPage, total),
	}, nil
}

// DeactivateStudent disables the account behind the given student profile.
// Deactivated students keep their data but can no longer authenticate and
// drop out of recommendation results.
func (s *adminService) DeactivateStudent(ctx context.Context, actor Actor, studentID uint) error {
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if err := s.users.Deactivate(ctx, profile.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("admin_id", actor.UserID).
		Msg("student deactivated")

	entityID := studentID
	if err := s.activity.Record(ctx, ActivityEntry{
		Actor:      actor,
		Action:     "student.deactivated",
		EntityType: "student",
		EntityID:   &entityID,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("audit entry not recorded")
	}

	return nil
}
