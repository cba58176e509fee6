package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
)

// setupTestDB creates a new in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() { database.Close(db) })

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Name: "Test User", EmailID: email, Password: "digest"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
