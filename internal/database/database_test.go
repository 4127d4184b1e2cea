package database

import (
	"context"
	"testing"

	"feedgraph/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool_SQLiteUsesSingleConnection(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{DBMaxOpenConns: 10, DBMaxIdleConns: 5, DBConnMaxLifetimeMinutes: 15}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty defaults to shared memory", "", "file::memory:?cache=shared&_foreign_keys=on"},
		{"plain path", "feedgraph.db", "feedgraph.db?_foreign_keys=on"},
		{"uri with query", "file:test?mode=memory", "file:test?mode=memory&_foreign_keys=on"},
		{"already set", "file:x?_foreign_keys=off", "file:x?_foreign_keys=off"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQLiteDSN(tt.in))
		})
	}
}

func TestConnectWithOptions_SQLiteAppliesSchema(t *testing.T) {
	cfg := &config.Config{
		DBDriver:     "sqlite",
		DBSQLitePath: "file:connect_test?mode=memory&cache=shared",
		DBSchemaMode: SchemaModeHybrid,
		Env:          "test",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, table := range []string{"users", "user_follows", "messages", "message_likes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"hybrid development", config.Config{DBDriver: "postgres", Env: "development"}, true, true, false},
		{"hybrid production", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"sql only", config.Config{DBDriver: "postgres", Env: "development", DBSchemaMode: "sql"}, true, false, false},
		{"auto development", config.Config{DBDriver: "postgres", Env: "development", DBSchemaMode: "auto"}, false, true, false},
		{"auto production refused", config.Config{DBDriver: "postgres", Env: "production", DBSchemaMode: "auto"}, false, false, true},
		{"auto production allowed", config.Config{DBDriver: "postgres", Env: "staging", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"sqlite ignores sql mode", config.Config{DBDriver: "sqlite", Env: "test", DBSchemaMode: "sql"}, false, true, false},
		{"unknown mode", config.Config{DBDriver: "postgres", DBSchemaMode: "yolo"}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}
