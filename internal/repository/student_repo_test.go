package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

func TestStudentRepositoryGetOrCreateByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	user := models.User{Email: "lazy@example.com", PasswordHash: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	profile, created, err := repo.GetOrCreateByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, user.ID, profile.UserID)
	require.Zero(t, profile.TotalPoints)

	again, created, err := repo.GetOrCreateByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, profile.ID, again.ID)
}

func TestStudentRepositoryReplaceSkillsSwapsWholeSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	student := createStudent(t, db, "skills@example.com")

	category := models.SkillCategory{Name: "Разработка"}
	require.NoError(t, db.Create(&category).Error)

	var skills []models.Skill
	for _, name := range []string{"Go", "Python", "Rust"} {
		skill := models.Skill{Name: name, CategoryID: category.ID}
		require.NoError(t, db.Create(&skill).Error)
		skills = append(skills, skill)
	}

	require.NoError(t, repo.ReplaceSkills(context.Background(), student.ID, []SkillSelection{
		{SkillID: skills[0].ID, Level: 4},
		{SkillID: skills[1].ID, Level: 2},
	}))

	stored, err := repo.GetSkills(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	// Replace drops the old set wholesale; no merge semantics.
	require.NoError(t, repo.ReplaceSkills(context.Background(), student.ID, []SkillSelection{
		{SkillID: skills[2].ID, Level: 5},
	}))

	stored, err = repo.GetSkills(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "Rust", stored[0].Skill.Name)
	require.Equal(t, 5, stored[0].Level)

	// An empty payload clears every selection.
	require.NoError(t, repo.ReplaceSkills(context.Background(), student.ID, nil))
	stored, err = repo.GetSkills(context.Background(), student.ID)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestStudentRepositoryReplaceInterestsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	student := createStudent(t, db, "interests@example.com")
	interests := seedInterests(t, db, "DevOps", "Web3")

	ids := []uint{interests[0].ID, interests[1].ID}
	require.NoError(t, repo.ReplaceInterests(context.Background(), student.ID, ids))
	require.NoError(t, repo.ReplaceInterests(context.Background(), student.ID, ids))

	stored, err := repo.InterestIDs(context.Background(), student.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, ids, stored)
}

func TestStudentRepositoryListSearchesNamesAndGroup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	first := createStudent(t, db, "ivan@example.com")
	second := createStudent(t, db, "maria@example.com")

	require.NoError(t, db.Model(&models.StudentProfile{}).Where("id = ?", first.ID).
		Updates(map[string]interface{}{"first_name": "Ivan", "last_name": "Petrov", "group_name": "SE-2301"}).Error)
	require.NoError(t, db.Model(&models.StudentProfile{}).Where("id = ?", second.ID).
		Updates(map[string]interface{}{"first_name": "Maria", "last_name": "Ivanova", "group_name": "SE-2302"}).Error)

	profiles, total, err := repo.List(context.Background(), StudentFilter{Search: "ivan", PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total, "search matches first and last names case-insensitively")
	require.Len(t, profiles, 2)
	require.Equal(t, first.ID, profiles[0].ID, "listing orders by id ascending")

	profiles, total, err = repo.List(context.Background(), StudentFilter{Search: "se-2302", PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, second.ID, profiles[0].ID)
}
