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

type stubVocabularyRepo struct {
	repository.TaxonomyRepository
	categories    map[uint]models.SkillCategory
	skillsPerCat  map[uint]int64
	interestNames map[string]bool
	deletedCats   []uint
}

func (s *stubVocabularyRepo) GetSkillCategory(ctx context.Context, id uint) (models.SkillCategory, error) {
	category, ok := s.categories[id]
	if !ok {
		return models.SkillCategory{}, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubVocabularyRepo) CountSkillsInCategory(ctx context.Context, categoryID uint) (int64, error) {
	return s.skillsPerCat[categoryID], nil
}

func (s *stubVocabularyRepo) DeleteSkillCategory(ctx context.Context, id uint) error {
	delete(s.categories, id)
	s.deletedCats = append(s.deletedCats, id)
	return nil
}

func (s *stubVocabularyRepo) SkillCategoryNameExists(ctx context.Context, name string) (bool, error) {
	for _, category := range s.categories {
		if category.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubVocabularyRepo) InterestNameExists(ctx context.Context, name string) (bool, error) {
	return s.interestNames[name], nil
}

func (s *stubVocabularyRepo) CreateInterest(ctx context.Context, interest *models.Interest) error {
	interest.ID = 1
	s.interestNames[interest.Name] = true
	return nil
}

type recordedActivity struct {
	entries []ActivityEntry
}

func (r *recordedActivity) Record(ctx context.Context, entry ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func newTaxonomyFixture() (*stubVocabularyRepo, *recordedActivity, TaxonomyService) {
	repo := &stubVocabularyRepo{
		categories: map[uint]models.SkillCategory{
			1: {ID: 1, Name: "Разработка"},
			2: {ID: 2, Name: "Дизайн"},
		},
		skillsPerCat:  map[uint]int64{1: 3},
		interestNames: map[string]bool{"Web3": true},
	}
	activity := &recordedActivity{}
	svc := NewTaxonomyService(repo, activity, newTestValidator(), zerolog.Nop())
	return repo, activity, svc
}

func TestTaxonomyServiceDeleteCategoryRefusesNonEmpty(t *testing.T) {
	repo, activity, svc := newTaxonomyFixture()
	actor := Actor{UserID: 1, Role: models.RoleAdmin}

	err := svc.DeleteSkillCategory(context.Background(), 1, actor)
	require.ErrorIs(t, err, ErrCategoryNotEmpty)
	require.Empty(t, repo.deletedCats)
	require.Empty(t, activity.entries, "refused deletes are not audited")

	err = svc.DeleteSkillCategory(context.Background(), 2, actor)
	require.NoError(t, err)
	require.Equal(t, []uint{2}, repo.deletedCats)
	require.Len(t, activity.entries, 1)
	require.Equal(t, "skill_category.deleted", activity.entries[0].Action)

	err = svc.DeleteSkillCategory(context.Background(), 404, actor)
	require.ErrorIs(t, err, ErrVocabularyNotFound)
}

func TestTaxonomyServiceCreateInterestRejectsDuplicateName(t *testing.T) {
	_, activity, svc := newTaxonomyFixture()
	actor := Actor{UserID: 1, Role: models.RoleAdmin}

	_, err := svc.CreateInterest(context.Background(), dto.InterestCreateRequest{Name: "Web3"}, actor)
	require.ErrorIs(t, err, ErrConflict)
	require.Empty(t, activity.entries)

	created, err := svc.CreateInterest(context.Background(), dto.InterestCreateRequest{Name: "Киберспорт"}, actor)
	require.NoError(t, err)
	require.Equal(t, "Киберспорт", created.Name)
	require.Len(t, activity.entries, 1)
	require.Equal(t, "interest.created", activity.entries[0].Action)
}
