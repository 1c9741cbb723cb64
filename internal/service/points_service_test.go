package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

type stubPointsRepo struct {
	categories map[uint]models.PointCategory
	applied    []models.PointTransaction
	profile    models.StudentProfile
}

func (s *stubPointsRepo) GetCategory(ctx context.Context, id uint) (models.PointCategory, error) {
	category, ok := s.categories[id]
	if !ok {
		return models.PointCategory{}, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubPointsRepo) ListCategories(ctx context.Context) ([]models.PointCategory, error) {
	out := make([]models.PointCategory, 0, len(s.categories))
	for _, category := range s.categories {
		out = append(out, category)
	}
	return out, nil
}

func (s *stubPointsRepo) CreateCategory(ctx context.Context, category *models.PointCategory) error {
	category.ID = uint(len(s.categories) + 1)
	s.categories[category.ID] = *category
	return nil
}

func (s *stubPointsRepo) UpdateCategory(ctx context.Context, id uint, updates map[string]interface{}) (models.PointCategory, error) {
	category, ok := s.categories[id]
	if !ok {
		return models.PointCategory{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		category.Name = name
	}
	if points, ok := updates["points"].(int); ok {
		category.Points = points
	}
	if active, ok := updates["is_active"].(bool); ok {
		category.IsActive = active
	}
	s.categories[id] = category
	return category, nil
}

func (s *stubPointsRepo) CategoryNameExists(ctx context.Context, name string) (bool, error) {
	for _, category := range s.categories {
		if category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPointsRepo) Apply(ctx context.Context, entry *models.PointTransaction) (models.StudentProfile, error) {
	entry.ID = uint(len(s.applied) + 1)
	s.applied = append(s.applied, *entry)
	s.profile.TotalPoints += entry.Points
	if s.profile.TotalPoints < 0 {
		s.profile.TotalPoints = 0
	}
	s.profile.TotalSom += entry.SomEarned
	return s.profile, nil
}

func (s *stubPointsRepo) ListTransactions(ctx context.Context, studentID uint, page, perPage int) ([]models.PointTransaction, int64, error) {
	return s.applied, int64(len(s.applied)), nil
}

// stubStudentRepo serves only the profile lookups the points and admin
// services need. Everything else panics through the embedded interface.
type stubStudentRepo struct {
	repository.StudentRepository
	profiles map[uint]models.StudentProfile
}

func (s *stubStudentRepo) GetByID(ctx context.Context, id uint) (models.StudentProfile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return models.StudentProfile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func newPointsFixture() (*stubPointsRepo, *stubStudentRepo, PointsService) {
	points := &stubPointsRepo{
		categories: map[uint]models.PointCategory{
			1: {ID: 1, Name: "Победа в хакатоне", Points: 50, IsActive: true},
			2: {ID: 2, Name: "Прочее", IsCustom: true, IsActive: true},
		},
		profile: models.StudentProfile{ID: 7},
	}
	students := &stubStudentRepo{profiles: map[uint]models.StudentProfile{
		7: {ID: 7, UserID: 70},
	}}
	svc := NewPointsService(points, students, nil, newTestValidator(), zerolog.Nop())
	return points, students, svc
}

func TestPointsServiceFixedCategoryUsesCategoryPoints(t *testing.T) {
	points, _, svc := newPointsFixture()
	actor := Actor{UserID: 99, Role: models.RoleAdmin}

	response, err := svc.ApplyTransaction(context.Background(), 7, dto.PointTransactionCreateRequest{CategoryID: 1}, actor)
	require.NoError(t, err)
	require.Equal(t, 50, response.Transaction.Points)
	require.Equal(t, 10, response.Transaction.SomEarned)
	require.Equal(t, "Победа в хакатоне", response.Transaction.Description, "fixed categories default the description to their name")
	require.NotNil(t, response.Transaction.CreatedBy)
	require.Equal(t, uint(99), *response.Transaction.CreatedBy)
	require.Len(t, points.applied, 1)
}

func TestPointsServiceCustomCategoryRequiresPointsAndDescription(t *testing.T) {
	points, _, svc := newPointsFixture()
	actor := Actor{UserID: 99, Role: models.RoleAdmin}

	_, err := svc.ApplyTransaction(context.Background(), 7, dto.PointTransactionCreateRequest{
		CategoryID:  2,
		Description: "за инициативу",
	}, actor)
	require.ErrorIs(t, err, ErrInvalidInput)

	custom := 15
	_, err = svc.ApplyTransaction(context.Background(), 7, dto.PointTransactionCreateRequest{
		CategoryID: 2,
		Points:     &custom,
	}, actor)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, points.applied, "failed validation must not write a ledger row")

	response, err := svc.ApplyTransaction(context.Background(), 7, dto.PointTransactionCreateRequest{
		CategoryID:  2,
		Points:      &custom,
		Description: "за инициативу",
	}, actor)
	require.NoError(t, err)
	require.Equal(t, 15, response.Transaction.Points)
	require.Equal(t, 3, response.Transaction.SomEarned)
}

func TestPointsServicePenaltiesEarnNoSom(t *testing.T) {
	_, _, svc := newPointsFixture()
	actor := Actor{UserID: 99, Role: models.RoleAdmin}

	penalty := -20
	response, err := svc.ApplyTransaction(context.Background(), 7, dto.PointTransactionCreateRequest{
		CategoryID:  2,
		Points:      &penalty,
		Description: "пропуск дедлайна",
	}, actor)
	require.NoError(t, err)
	require.Equal(t, -20, response.Transaction.Points)
	require.Zero(t, response.Transaction.SomEarned)
}

func TestPointsServiceApplyUnknownTargets(t *testing.T) {
	_, _, svc := newPointsFixture()
	actor := Actor{UserID: 99, Role: models.RoleAdmin}

	_, err := svc.ApplyTransaction(context.Background(), 404, dto.PointTransactionCreateRequest{CategoryID: 1}, actor)
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = svc.ApplyTransaction(context.Background(), 7, dto.PointTransactionCreateRequest{CategoryID: 404}, actor)
	require.ErrorIs(t, err, ErrPointCategoryNotFound)
}

func TestPointsServiceCreateCategoryRejectsDuplicateName(t *testing.T) {
	_, _, svc := newPointsFixture()
	actor := Actor{UserID: 99, Role: models.RoleAdmin}

	_, err := svc.CreateCategory(context.Background(), dto.PointCategoryCreateRequest{
		Name:   "Победа в хакатоне",
		Points: 50,
	}, actor)
	require.ErrorIs(t, err, ErrConflict)

	created, err := svc.CreateCategory(context.Background(), dto.PointCategoryCreateRequest{
		Name:   "Победа в олимпиаде",
		Points: 40,
	}, actor)
	require.NoError(t, err)
	require.True(t, created.IsActive)
}

func TestSomForPoints(t *testing.T) {
	require.Equal(t, 0, somForPoints(-10))
	require.Equal(t, 0, somForPoints(0))
	require.Equal(t, 0, somForPoints(4))
	require.Equal(t, 1, somForPoints(5))
	require.Equal(t, 2, somForPoints(14))
}
