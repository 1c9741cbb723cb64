package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nursultan-dev/campus-hub-api/internal/database"
	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// setupTestDB runs the full startup migration so schema registration of
// every model, relations included, is exercised by each test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// createStudent inserts an active account with its student profile and
// returns the profile.
func createStudent(t *testing.T, db *gorm.DB, email string) models.StudentProfile {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "x", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	profile := models.StudentProfile{UserID: user.ID}
	require.NoError(t, db.Create(&profile).Error)

	return profile
}

func TestUserRepositoryCreateStudentIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := models.User{Email: "student@example.com", PasswordHash: "hash", Role: models.RoleStudent, IsActive: true}
	profile := models.StudentProfile{}
	require.NoError(t, repo.CreateStudent(context.Background(), &user, &profile))
	require.Equal(t, user.ID, profile.UserID)

	found, err := repo.GetByEmail(context.Background(), "Student@Example.COM")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	taken, err := repo.EmailTaken(context.Background(), "student@example.com")
	require.NoError(t, err)
	require.True(t, taken)
}

func TestUserRepositoryDeactivateIsIdempotentGuarded(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	profile := createStudent(t, db, "a@example.com")

	require.NoError(t, repo.Deactivate(context.Background(), profile.UserID))

	err := repo.Deactivate(context.Background(), profile.UserID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "second deactivation finds no active row")
}

func TestUserRepositoryAdminProfileLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := models.User{Email: "admin@example.com", PasswordHash: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	profile, created, err := repo.GetOrCreateAdminProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := repo.GetOrCreateAdminProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, profile.ID, again.ID)

	updated, err := repo.UpdateAdminProfile(context.Background(), user.ID, map[string]interface{}{"full_name": "Dana Lee"})
	require.NoError(t, err)
	require.Equal(t, "Dana Lee", updated.FullName)
}
