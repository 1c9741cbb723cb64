package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

func TestTaxonomyRepositoryCountByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaxonomyRepository(db)

	interests := seedInterests(t, db, "DevOps", "Web3")

	count, err := repo.CountInterestsByIDs(context.Background(), []uint{interests[0].ID, interests[1].ID})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = repo.CountInterestsByIDs(context.Background(), []uint{interests[0].ID, 999})
	require.NoError(t, err)
	require.Equal(t, int64(1), count, "unknown ids are simply not counted")
}

func TestTaxonomyRepositoryCountSkillsInCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaxonomyRepository(db)

	category := models.SkillCategory{Name: "Разработка"}
	require.NoError(t, db.Create(&category).Error)
	require.NoError(t, db.Create(&models.Skill{Name: "Go", CategoryID: category.ID}).Error)

	count, err := repo.CountSkillsInCategory(context.Background(), category.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	exists, err := repo.SkillNameExists(context.Background(), "Go")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.RoleCodeExists(context.Background(), "backend")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSkillCategoryResolvesOwnedSkills(t *testing.T) {
	db := setupTestDB(t)

	category := models.SkillCategory{Name: "Разработка"}
	require.NoError(t, db.Create(&category).Error)
	require.NoError(t, db.Create(&models.Skill{Name: "Go", CategoryID: category.ID}).Error)
	require.NoError(t, db.Create(&models.Skill{Name: "Rust", CategoryID: category.ID}).Error)

	var loaded models.SkillCategory
	require.NoError(t, db.Preload("Skills").First(&loaded, category.ID).Error)
	require.Len(t, loaded.Skills, 2)
}
