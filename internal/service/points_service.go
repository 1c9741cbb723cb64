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

// Points ledger sentinels.
var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrPointCategoryNotFound = errors.New("point category not found")
)

// Pagination sizes are server-clamped to this maximum everywhere.
const maxPerPage = 100

// somRate is the number of points that earn one unit of SOM.
const somRate = 5

// PointsService applies reward/penalty transactions and keeps the cached
// balances consistent with the ledger.
type PointsService interface {
	// ApplyTransaction validates fully, then inserts the ledger row and
	// updates the student's balances atomically. Nothing is written when
	// validation fails.
	ApplyTransaction(ctx context.Context, studentID uint, payload dto.PointTransactionCreateRequest, actor Actor) (dto.PointGrantResponse, error)
	ListTransactions(ctx context.Context, studentID uint, page, perPage int) (dto.LedgerResponse, error)
	ListCategories(ctx context.Context) ([]dto.PointCategoryResponse, error)
	CreateCategory(ctx context.Context, payload dto.PointCategoryCreateRequest, actor Actor) (dto.PointCategoryResponse, error)
	UpdateCategory(ctx context.Context, id uint, payload dto.PointCategoryUpdateRequest, actor Actor) (dto.PointCategoryResponse, error)
}

type pointsService struct {
	points    repository.PointsRepository
	students  repository.StudentRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPointsService constructs the points ledger service.
func NewPointsService(points repository.PointsRepository, students repository.StudentRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) PointsService {
	return &pointsService{
		points:    points,
		students:  students,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "points_service").Logger(),
	}
}

// somForPoints derives the SOM credit for a transaction. Only positive
// transactions earn SOM; penalties never claw back earned currency.
func somForPoints(points int) int {
	if points <= 0 {
		return 0
	}
	return points / somRate
}

func (s *pointsService) ApplyTransaction(ctx context.Context, studentID uint, payload dto.PointTransactionCreateRequest, actor Actor) (dto.PointGrantResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PointGrantResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PointGrantResponse{}, ErrStudentNotFound
		}
		return dto.PointGrantResponse{}, err
	}

	category, err := s.points.GetCategory(ctx, payload.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PointGrantResponse{}, ErrPointCategoryNotFound
		}
		return dto.PointGrantResponse{}, err
	}

	description := strings.TrimSpace(payload.Description)

	var delta int
	if category.IsCustom {
		if payload.Points == nil {
			return dto.PointGrantResponse{}, fmt.Errorf("%w: points are required for custom categories", ErrInvalidInput)
		}
		if description == "" {
			return dto.PointGrantResponse{}, fmt.Errorf("%w: description is required for custom categories", ErrInvalidInput)
		}
		delta = *payload.Points
	} else {
		delta = category.Points
		if description == "" {
			description = category.Name
		}
	}

	actorID := actor.UserID
	entry := models.PointTransaction{
		StudentID:   studentID,
		CategoryID:  category.ID,
		Points:      delta,
		SomEarned:   somForPoints(delta),
		Description: description,
		CreatedBy:   &actorID,
	}

	profile, err := s.points.Apply(ctx, &entry)
	if err != nil {
		return dto.PointGrantResponse{}, err
	}

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("category_id", category.ID).
		Int("points", delta).
		Int("som_earned", entry.SomEarned).
		Msg("point transaction applied")

	if s.activity != nil {
		entryID := entry.ID
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "points.granted",
			EntityType: "point_transaction",
			EntityID:   &entryID,
			Metadata: map[string]interface{}{
				"student_id": studentID,
				"points":     delta,
				"som_earned": entry.SomEarned,
			},
		})
	}

	return dto.PointGrantResponse{
		Transaction: dto.NewPointTransactionResponse(entry),
		Balance: dto.BalanceResponse{
			TotalPoints: profile.TotalPoints,
			TotalSom:    profile.TotalSom,
		},
	}, nil
}

func (s *pointsService) ListTransactions(ctx context.Context, studentID uint, page, perPage int) (dto.LedgerResponse, error) {
	profile, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LedgerResponse{}, ErrStudentNotFound
		}
		return dto.LedgerResponse{}, err
	}

	page, perPage = clampPagination(page, perPage, 20)

	transactions, total, err := s.points.ListTransactions(ctx, studentID, page, perPage)
	if err != nil {
		return dto.LedgerResponse{}, err
	}

	items := make([]dto.PointTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, dto.NewPointTransactionResponse(tx))
	}

	return dto.LedgerResponse{
		Transactions: items,
		Pagination:   dto.NewPaginationMeta(page, perPage, total),
		Balance: dto.BalanceResponse{
			TotalPoints: profile.TotalPoints,
			TotalSom:    profile.TotalSom,
		},
	}, nil
}

func (s *pointsService) ListCategories(ctx context.Context) ([]dto.PointCategoryResponse, error) {
	categories, err := s.points.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PointCategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.NewPointCategoryResponse(category))
	}

	return items, nil
}

func (s *pointsService) CreateCategory(ctx context.Context, payload dto.PointCategoryCreateRequest, actor Actor) (dto.PointCategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PointCategoryResponse{}, err
	}

	name := strings.TrimSpace(payload.Name)
	exists, err := s.points.CategoryNameExists(ctx, name)
	if err != nil {
		return dto.PointCategoryResponse{}, err
	}
	if exists {
		return dto.PointCategoryResponse{}, fmt.Errorf("%w: category name already exists", ErrConflict)
	}

	category := models.PointCategory{
		Name:      name,
		Points:    payload.Points,
		IsPenalty: payload.IsPenalty,
		IsCustom:  payload.IsCustom,
		IsActive:  true,
	}

	if err := s.points.CreateCategory(ctx, &category); err != nil {
		return dto.PointCategoryResponse{}, err
	}

	if s.activity != nil {
		categoryID := category.ID
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "point_category.created",
			EntityType: "point_category",
			EntityID:   &categoryID,
			Metadata:   map[string]interface{}{"name": name, "points": payload.Points},
		})
	}

	return dto.NewPointCategoryResponse(category), nil
}

func (s *pointsService) UpdateCategory(ctx context.Context, id uint, payload dto.PointCategoryUpdateRequest, actor Actor) (dto.PointCategoryResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PointCategoryResponse{}, err
	}

	if _, err := s.points.GetCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PointCategoryResponse{}, ErrPointCategoryNotFound
		}
		return dto.PointCategoryResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Points != nil {
		updates["points"] = *payload.Points
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}

	category, err := s.points.UpdateCategory(ctx, id, updates)
	if err != nil {
		return dto.PointCategoryResponse{}, err
	}

	if s.activity != nil {
		categoryID := category.ID
		_ = s.activity.Record(ctx, ActivityEntry{
			Actor:      actor,
			Action:     "point_category.updated",
			EntityType: "point_category",
			EntityID:   &categoryID,
			Metadata:   map[string]interface{}{"name": category.Name},
		})
	}

	return dto.NewPointCategoryResponse(category), nil
}

// clampPagination normalizes page/perPage, applying the server-side cap.
func clampPagination(page, perPage, defaultPerPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
