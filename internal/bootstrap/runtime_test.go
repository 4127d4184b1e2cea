package bootstrap

import (
	"context"
	"testing"

	"feedgraph/internal/config"
	"feedgraph/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBSchemaMode: "auto",
		Env:          "test",
	}
}

func closeDB(t *testing.T, db *gorm.DB) {
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
}

func TestInitRuntimeWithoutSeed(t *testing.T) {
	db, rdb, err := InitRuntime(testConfig(), Options{})
	require.NoError(t, err)
	closeDB(t, db)
	assert.Nil(t, rdb)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestInitRuntimeSeedsEmptyDatabaseOnce(t *testing.T) {
	cfg := testConfig()
	db, _, err := InitRuntime(cfg, Options{SeedPreset: "minimal"})
	require.NoError(t, err)
	closeDB(t, db)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(5), users)

	require.NoError(t, seedIfEmpty(context.Background(), cfg, db, "minimal"))
	var again int64
	require.NoError(t, db.Model(&models.User{}).Count(&again).Error)
	assert.Equal(t, users, again)
}

func TestInitRuntimeUnknownPreset(t *testing.T) {
	_, _, err := InitRuntime(testConfig(), Options{SeedPreset: "galactic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}
