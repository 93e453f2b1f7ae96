package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestColumnReport_MissingTables(t *testing.T) {
	db := openTestDB(t)

	reports, err := ColumnReport(db)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	for _, r := range reports {
		assert.False(t, r.Exists, r.Table)
		assert.Zero(t, r.Mismatches())
	}
	assert.Equal(t, "posts", reports[0].Table)
	assert.Equal(t, "tags", reports[1].Table)
	assert.Equal(t, "post_tags", reports[2].Table)
}

func TestColumnReport_InSync(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(All()...))

	reports, err := ColumnReport(db)
	require.NoError(t, err)
	for _, r := range reports {
		assert.True(t, r.Exists, r.Table)
		assert.Empty(t, r.ExtraColumns, r.Table)
		assert.Empty(t, r.MissingColumns, r.Table)
	}
}

func TestColumnReport_Drift(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(All()...))
	require.NoError(t, db.Exec("ALTER TABLE tags ADD COLUMN color TEXT").Error)
	require.NoError(t, db.Migrator().DropColumn(&Post{}, "external_url"))

	reports, err := ColumnReport(db)
	require.NoError(t, err)

	byTable := map[string]TableReport{}
	for _, r := range reports {
		byTable[r.Table] = r
	}
	assert.Equal(t, []string{"color"}, byTable["tags"].ExtraColumns)
	assert.Equal(t, []string{"external_url"}, byTable["posts"].MissingColumns)
	assert.Equal(t, 1, byTable["posts"].Mismatches())
	assert.Zero(t, byTable["post_tags"].Mismatches())
}
