package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
)

func TestOpenSQLite_MigratesSchema(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Stock{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "EmailID"))
}

func TestPing(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	assert.NoError(t, database.Ping(context.Background(), db))

	require.NoError(t, database.Close(db))
	assert.Error(t, database.Ping(context.Background(), db))
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, database.Close(nil))
}
