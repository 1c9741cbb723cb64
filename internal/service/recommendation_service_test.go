package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

type stubMatchStudentRepo struct {
	repository.StudentRepository
	profile     models.StudentProfile
	interestIDs []uint
	roleIDs     []uint
}

func (s *stubMatchStudentRepo) GetOrCreateByUserID(ctx context.Context, userID uint) (models.StudentProfile, bool, error) {
	return s.profile, false, nil
}

func (s *stubMatchStudentRepo) InterestIDs(ctx context.Context, studentID uint) ([]uint, error) {
	return s.interestIDs, nil
}

func (s *stubMatchStudentRepo) RoleIDs(ctx context.Context, studentID uint) ([]uint, error) {
	return s.roleIDs, nil
}

type stubRecommendationRepo struct {
	repository.RecommendationRepository
	interestMatches []repository.MatchRow
	roleMatches     []repository.MatchRow
	candidates      map[uint]repository.CandidateInfo
	sharedNames     map[uint][]string
	roles           map[uint][]models.Role
}

func (s *stubRecommendationRepo) InterestMatches(ctx context.Context, studentID uint, interestIDs []uint, offset, limit int) ([]repository.MatchRow, int64, error) {
	return s.interestMatches, int64(len(s.interestMatches)), nil
}

func (s *stubRecommendationRepo) RoleMatches(ctx context.Context, studentID uint, roleIDs []uint, offset, limit int) ([]repository.MatchRow, int64, error) {
	return s.roleMatches, int64(len(s.roleMatches)), nil
}

func (s *stubRecommendationRepo) SharedInterestNames(ctx context.Context, candidateID uint, interestIDs []uint) ([]string, error) {
	return s.sharedNames[candidateID], nil
}

func (s *stubRecommendationRepo) RolesOf(ctx context.Context, studentID uint) ([]models.Role, error) {
	return s.roles[studentID], nil
}

func (s *stubRecommendationRepo) Candidates(ctx context.Context, studentIDs []uint) (map[uint]repository.CandidateInfo, error) {
	return s.candidates, nil
}

func TestRecommendationsEmptySelectionsShortCircuit(t *testing.T) {
	students := &stubMatchStudentRepo{profile: models.StudentProfile{ID: 1, UserID: 10}}
	recommendations := &stubRecommendationRepo{}
	svc := NewRecommendationService(recommendations, students, zerolog.Nop())

	response, err := svc.GetRecommendations(context.Background(), 10, dto.RecommendationsRequest{})
	require.NoError(t, err)
	require.Empty(t, response.ByInterests)
	require.Empty(t, response.ByRoles)
	require.NotNil(t, response.ByInterests, "empty lists serialize as [] not null")
	require.NotNil(t, response.ByRoles)
	require.Zero(t, response.ByInterestsPagination.Total)
	require.Zero(t, response.ByRolesPagination.Total)
}

func TestRecommendationsResolveCandidateDetails(t *testing.T) {
	students := &stubMatchStudentRepo{
		profile:     models.StudentProfile{ID: 1, UserID: 10},
		interestIDs: []uint{1, 2},
		roleIDs:     []uint{3},
	}
	recommendations := &stubRecommendationRepo{
		interestMatches: []repository.MatchRow{{StudentID: 2, Score: 2}, {StudentID: 3, Score: 1}},
		roleMatches:     []repository.MatchRow{{StudentID: 2, Score: 1}},
		candidates: map[uint]repository.CandidateInfo{
			2: {
				Profile: models.StudentProfile{ID: 2, UserID: 20, FirstName: "Айгерим", LastName: "Садыкова"},
				User:    models.User{ID: 20, Email: "aigerim@example.com"},
			},
			3: {
				Profile: models.StudentProfile{ID: 3, UserID: 30, FirstName: "Данияр"},
				User:    models.User{ID: 30, Email: "daniyar@example.com"},
			},
		},
		sharedNames: map[uint][]string{
			2: {"Web3", "Блокчейн"},
			3: {"Web3"},
		},
		roles: map[uint][]models.Role{
			2: {{Name: "Дизайнер", Code: "designer"}},
		},
	}
	svc := NewRecommendationService(recommendations, students, zerolog.Nop())

	response, err := svc.GetRecommendations(context.Background(), 10, dto.RecommendationsRequest{})
	require.NoError(t, err)

	require.Len(t, response.ByInterests, 2)
	first := response.ByInterests[0]
	require.Equal(t, uint(2), first.StudentID)
	require.Equal(t, uint(20), first.UserID)
	require.Equal(t, "aigerim@example.com", first.Email)
	require.Equal(t, 2, first.CommonInterestsCount)
	require.Equal(t, []string{"Web3", "Блокчейн"}, first.CommonInterests)
	require.Equal(t, "interests", first.MatchType)

	require.Len(t, response.ByRoles, 1)
	require.Equal(t, 1, response.ByRoles[0].RolesCount)
	require.Len(t, response.ByRoles[0].Roles, 1)
	require.Equal(t, "designer", response.ByRoles[0].Roles[0].Code)
	require.Equal(t, "roles", response.ByRoles[0].MatchType)
}
