package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nursultan-dev/campus-hub-api/internal/dto"
	"github.com/nursultan-dev/campus-hub-api/internal/repository"
)

// RecommendationService computes the two ranked peer lists for a student:
// peers sharing interests and peers offering complementary team roles.
type RecommendationService interface {
	// GetRecommendations is read-only apart from the lazy creation of the
	// requesting student's profile. Both lists paginate independently.
	GetRecommendations(ctx context.Context, userID uint, req dto.RecommendationsRequest) (dto.RecommendationsResponse, error)
}

type recommendationService struct {
	recommendations repository.RecommendationRepository
	students        repository.StudentRepository
	logger          zerolog.Logger
	tracer          trace.Tracer
}

// NewRecommendationService constructs the recommendation service.
func NewRecommendationService(recommendations repository.RecommendationRepository, students repository.StudentRepository, logger zerolog.Logger) RecommendationService {
	return &recommendationService{
		recommendations: recommendations,
		students:        students,
		logger:          logger.With().Str("component", "recommendation_service").Logger(),
		tracer:          otel.Tracer("github.com/nursultan-dev/campus-hub-api/internal/service/recommendation"),
	}
}

func (s *recommendationService) GetRecommendations(ctx context.Context, userID uint, req dto.RecommendationsRequest) (dto.RecommendationsResponse, error) {
	profile, created, err := s.students.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return dto.RecommendationsResponse{}, err
	}
	if created {
		s.logger.Info().Uint("user_id", userID).Msg("student profile lazily created")
	}

	interestsPage, interestsPerPage := clampPagination(req.InterestsPage, req.InterestsPerPage, 20)
	rolesPage, rolesPerPage := clampPagination(req.RolesPage, req.RolesPerPage, 20)

	spanCtx, span := s.tracer.Start(ctx, "recommendations.compute", trace.WithAttributes(
		attribute.Int("student.id", int(profile.ID)),
	))
	defer span.End()

	byInterests, interestsMeta, err := s.byInterests(spanCtx, profile.ID, interestsPage, interestsPerPage)
	if err != nil {
		span.RecordError(err)
		return dto.RecommendationsResponse{}, err
	}

	byRoles, rolesMeta, err := s.byRoles(spanCtx, profile.ID, rolesPage, rolesPerPage)
	if err != nil {
		span.RecordError(err)
		return dto.RecommendationsResponse{}, err
	}

	span.SetAttributes(
		attribute.Int("recommendations.by_interests", len(byInterests)),
		attribute.Int("recommendations.by_roles", len(byRoles)),
	)

	return dto.RecommendationsResponse{
		ByInterests:           byInterests,
		ByInterestsPagination: interestsMeta,
		ByRoles:               byRoles,
		ByRolesPagination:     rolesMeta,
	}, nil
}

// byInterests ranks other active students by the size of the interest-set
// intersection with the requester. An empty interest set short-circuits to
// an empty envelope.
func (s *recommendationService) byInterests(ctx context.Context, studentID uint, page, perPage int) ([]dto.InterestRecommendation, dto.PaginationMeta, error) {
	interestIDs, err := s.students.InterestIDs(ctx, studentID)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	empty := make([]dto.InterestRecommendation, 0)
	if len(interestIDs) == 0 {
		return empty, dto.NewPaginationMeta(page, perPage, 0), nil
	}

	offset := (page - 1) * perPage
	matches, total, err := s.recommendations.InterestMatches(ctx, studentID, interestIDs, offset, perPage)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	candidates, err := s.candidateInfo(ctx, matches)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	items := empty
	for _, match := range matches {
		info, ok := candidates[match.StudentID]
		if !ok {
			continue
		}

		shared, err := s.recommendations.SharedInterestNames(ctx, match.StudentID, interestIDs)
		if err != nil {
			return nil, dto.PaginationMeta{}, err
		}

		items = append(items, dto.InterestRecommendation{
			StudentID:            info.Profile.ID,
			UserID:               info.User.ID,
			Email:                info.User.Email,
			FirstName:            info.Profile.FirstName,
			LastName:             info.Profile.LastName,
			GroupName:            info.Profile.GroupName,
			CommonInterestsCount: match.Score,
			CommonInterests:      shared,
			MatchType:            "interests",
		})
	}

	return items, dto.NewPaginationMeta(page, perPage, total), nil
}

// byRoles ranks other active students by how many roles they offer that
// the requester lacks. Candidates whose whole role set is covered by the
// requester score zero and never appear.
func (s *recommendationService) byRoles(ctx context.Context, studentID uint, page, perPage int) ([]dto.RoleRecommendation, dto.PaginationMeta, error) {
	roleIDs, err := s.students.RoleIDs(ctx, studentID)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	empty := make([]dto.RoleRecommendation, 0)
	if len(roleIDs) == 0 {
		return empty, dto.NewPaginationMeta(page, perPage, 0), nil
	}

	offset := (page - 1) * perPage
	matches, total, err := s.recommendations.RoleMatches(ctx, studentID, roleIDs, offset, perPage)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	candidates, err := s.candidateInfo(ctx, matches)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	items := empty
	for _, match := range matches {
		info, ok := candidates[match.StudentID]
		if !ok {
			continue
		}

		roles, err := s.recommendations.RolesOf(ctx, match.StudentID)
		if err != nil {
			return nil, dto.PaginationMeta{}, err
		}

		items = append(items, dto.RoleRecommendation{
			StudentID:  info.Profile.ID,
			UserID:     info.User.ID,
			Email:      info.User.Email,
			FirstName:  info.Profile.FirstName,
			LastName:   info.Profile.LastName,
			GroupName:  info.Profile.GroupName,
			RolesCount: match.Score,
			Roles:      dto.NewRoleResponseSlice(roles),
			MatchType:  "roles",
		})
	}

	return items, dto.NewPaginationMeta(page, perPage, total), nil
}

func (s *recommendationService) candidateInfo(ctx context.Context, matches []repository.MatchRow) (map[uint]repository.CandidateInfo, error) {
	ids := make([]uint, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.StudentID)
	}

	return s.recommendations.Candidates(ctx, ids)
}
