package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

func TestPointsRepositoryApplyUpdatesBalances(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPointsRepository(db)

	student := createStudent(t, db, "points@example.com")
	category := models.PointCategory{Name: "Участие в проекте", Points: 10, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	entry := models.PointTransaction{
		StudentID:  student.ID,
		CategoryID: category.ID,
		Points:     50,
		SomEarned:  10,
	}
	profile, err := repo.Apply(context.Background(), &entry)
	require.NoError(t, err)
	require.Equal(t, 50, profile.TotalPoints)
	require.Equal(t, 10, profile.TotalSom)

	second := models.PointTransaction{StudentID: student.ID, CategoryID: category.ID, Points: 10, SomEarned: 2}
	profile, err = repo.Apply(context.Background(), &second)
	require.NoError(t, err)
	require.Equal(t, 60, profile.TotalPoints)
	require.Equal(t, 12, profile.TotalSom)

	var count int64
	require.NoError(t, db.Model(&models.PointTransaction{}).Where("student_id = ?", student.ID).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestPointsRepositoryApplyClampsBalanceAtZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPointsRepository(db)

	student := createStudent(t, db, "penalty@example.com")
	category := models.PointCategory{Name: "Нарушение правил сообщества", Points: -15, IsPenalty: true, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	grant := models.PointTransaction{StudentID: student.ID, CategoryID: category.ID, Points: 5, SomEarned: 1}
	_, err := repo.Apply(context.Background(), &grant)
	require.NoError(t, err)

	penalty := models.PointTransaction{StudentID: student.ID, CategoryID: category.ID, Points: -15}
	profile, err := repo.Apply(context.Background(), &penalty)
	require.NoError(t, err)
	require.Equal(t, 0, profile.TotalPoints, "balance clamps at zero instead of going negative")
	require.Equal(t, 1, profile.TotalSom, "penalties do not claw back som")

	// The ledger keeps the full penalty even when the balance was clamped.
	var stored models.PointTransaction
	require.NoError(t, db.First(&stored, penalty.ID).Error)
	require.Equal(t, -15, stored.Points)
}

func TestPointsRepositoryApplyUnknownStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPointsRepository(db)

	category := models.PointCategory{Name: "Прочее", IsCustom: true, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	entry := models.PointTransaction{StudentID: 999, CategoryID: category.ID, Points: 5}
	_, err := repo.Apply(context.Background(), &entry)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.PointTransaction{}).Count(&count).Error)
	require.Equal(t, int64(0), count, "failed apply leaves no ledger row behind")
}

func TestPointsRepositoryListTransactionsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPointsRepository(db)

	student := createStudent(t, db, "history@example.com")
	category := models.PointCategory{Name: "Активность в сообществе", Points: 5, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	for i := 0; i < 3; i++ {
		entry := models.PointTransaction{StudentID: student.ID, CategoryID: category.ID, Points: 5, SomEarned: 1}
		_, err := repo.Apply(context.Background(), &entry)
		require.NoError(t, err)
	}

	transactions, total, err := repo.ListTransactions(context.Background(), student.ID, 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, transactions, 2)
	require.Greater(t, transactions[0].ID, transactions[1].ID, "newest entries come first")

	rest, _, err := repo.ListTransactions(context.Background(), student.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

func TestPointsRepositoryListCategoriesActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPointsRepository(db)

	require.NoError(t, db.Create(&models.PointCategory{Name: "Победа в хакатоне", Points: 50, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.PointCategory{Name: "Архив", Points: 5, IsActive: false}).Error)
	require.NoError(t, db.Create(&models.PointCategory{Name: "Нарушение", Points: -15, IsPenalty: true, IsActive: true}).Error)

	var archived models.PointCategory
	require.NoError(t, db.Where("name = ?", "Архив").First(&archived).Error)
	require.False(t, archived.IsActive, "an explicit false must survive the insert")

	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.False(t, categories[0].IsPenalty, "rewards sort before penalties")
	require.True(t, categories[1].IsPenalty)
}
