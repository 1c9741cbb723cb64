package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// MatchRow is a ranked candidate produced by a recommendation query.
type MatchRow struct {
	StudentID uint `gorm:"column:student_id"`
	Score     int  `gorm:"column:score"`
}

// CandidateInfo joins a candidate profile with its owning account.
type CandidateInfo struct {
	Profile models.StudentProfile
	User    models.User
}

// RecommendationRepository runs the set-intersection and set-complement
// ranking queries behind student recommendations.
type RecommendationRepository interface {
	// InterestMatches ranks other active students by how many of the given
	// interest ids they share. Ties break on ascending student id so the
	// ordering is reproducible.
	InterestMatches(ctx context.Context, studentID uint, interestIDs []uint, offset, limit int) ([]MatchRow, int64, error)

	// RoleMatches ranks other active students by how many roles they hold
	// outside the given set. Candidates whose whole role set falls inside
	// the requester's set score zero and are excluded entirely.
	RoleMatches(ctx context.Context, studentID uint, roleIDs []uint, offset, limit int) ([]MatchRow, int64, error)

	// SharedInterestNames resolves the names of the interests a candidate
	// shares with the given set.
	SharedInterestNames(ctx context.Context, candidateID uint, interestIDs []uint) ([]string, error)

	// RolesOf returns every role a candidate holds.
	RolesOf(ctx context.Context, candidateID uint) ([]models.Role, error)

	// Candidates resolves profile and account data for the given students.
	Candidates(ctx context.Context, studentIDs []uint) (map[uint]CandidateInfo, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

// NewRecommendationRepository constructs a recommendation repository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) InterestMatches(ctx context.Context, studentID uint, interestIDs []uint, offset, limit int) ([]MatchRow, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Table("student_interests AS si").
			Select("si.student_id AS student_id, COUNT(si.interest_id) AS score").
			Joins("JOIN student_profiles sp ON sp.id = si.student_id").
			Joins("JOIN users u ON u.id = sp.user_id").
			Where("si.student_id <> ?", studentID).
			Where("si.interest_id IN ?", interestIDs).
			Where("u.is_active = ?", true).
			Group("si.student_id")
	}

	return r.rankMatches(ctx, base, "si.student_id", offset, limit)
}

func (r *recommendationRepository) RoleMatches(ctx context.Context, studentID uint, roleIDs []uint, offset, limit int) ([]MatchRow, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Table("student_roles AS sr").
			Select("sr.student_id AS student_id, COUNT(sr.role_id) AS score").
			Joins("JOIN student_profiles sp ON sp.id = sr.student_id").
			Joins("JOIN users u ON u.id = sp.user_id").
			Where("sr.student_id <> ?", studentID).
			Where("sr.role_id NOT IN ?", roleIDs).
			Where("u.is_active = ?", true).
			Group("sr.student_id")
	}

	return r.rankMatches(ctx, base, "sr.student_id", offset, limit)
}

func (r *recommendationRepository) rankMatches(ctx context.Context, base func() *gorm.DB, idColumn string, offset, limit int) ([]MatchRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Table("(?) AS matches", base()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base().
		Order("score DESC").
		Order(idColumn + " ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var rows []MatchRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *recommendationRepository) SharedInterestNames(ctx context.Context, candidateID uint, interestIDs []uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("interests AS i").
		Joins("JOIN student_interests si ON si.interest_id = i.id").
		Where("si.student_id = ?", candidateID).
		Where("si.interest_id IN ?", interestIDs).
		Order("i.name ASC").
		Pluck("i.name", &names).Error
	return names, err
}

func (r *recommendationRepository) RolesOf(ctx context.Context, candidateID uint) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN student_roles sr ON sr.role_id = roles.id").
		Where("sr.student_id = ?", candidateID).
		Order("roles.name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *recommendationRepository) Candidates(ctx context.Context, studentIDs []uint) (map[uint]CandidateInfo, error) {
	result := make(map[uint]CandidateInfo, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}

	var profiles []models.StudentProfile
	if err := r.db.WithContext(ctx).Where("id IN ?", studentIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}

	userIDs := make([]uint, 0, len(profiles))
	for _, profile := range profiles {
		userIDs = append(userIDs, profile.UserID)
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	usersByID := make(map[uint]models.User, len(users))
	for _, user := range users {
		usersByID[user.ID] = user
	}

	for _, profile := range profiles {
		result[profile.ID] = CandidateInfo{Profile: profile, User: usersByID[profile.UserID]}
	}

	return result, nil
}
