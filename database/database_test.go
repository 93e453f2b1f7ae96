package database

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stepClock advances one second on every call
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestDB(t *testing.T) Database {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{
		Driver:   DriverSQLite,
		URL:      ":memory:",
		LogLevel: "silent",
	}, WithClock(newStepClock().Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = NewMigrator(db.DB()).Migrate(ctx)
	require.NoError(t, err)
	return db
}

func countPosts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	return count
}

func countPostTags(t *testing.T, db *gorm.DB, postID int64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.PostTag{}).Where("post_id = ?", postID).Count(&count).Error)
	return count
}

func samplePost(slug string) models.PostFields {
	image := "https://example.com/cover.png"
	return models.PostFields{
		Category:    models.CategoryBlog,
		Title:       "Hello " + slug,
		Slug:        slug,
		Content:     "# Hello\n\nworld",
		Description: "a first post",
		ImageURL:    &image,
		Published:   false,
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_Ping(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"blog.db?_pragma=busy_timeout(5000)", "blog.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"},
		{"blog.db?_pragma=foreign_keys(0)", "blog.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, withForeignKeys(tt.dsn))
		})
	}
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{Driver: DriverSQLite, URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	defer db.Close()

	migrator := NewMigrator(db.DB())

	statuses, err := migrator.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Applied)

	ran, err := migrator.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ran)

	ran, err = migrator.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, ran)

	statuses, err = migrator.Status(ctx)
	require.NoError(t, err)
	assert.True(t, statuses[0].Applied)
	assert.NotNil(t, statuses[0].AppliedAt)

	for _, table := range []string{"posts", "tags", "post_tags"} {
		assert.True(t, db.DB().Migrator().HasTable(table), table)
	}

	rolledBack, err := migrator.Rollback(ctx)
	require.NoError(t, err)
	require.NotNil(t, rolledBack)
	assert.Equal(t, 1, rolledBack.Version)
	for _, table := range []string{"posts", "tags", "post_tags"} {
		assert.False(t, db.DB().Migrator().HasTable(table), table)
	}

	rolledBack, err = migrator.Rollback(ctx)
	require.NoError(t, err)
	assert.Nil(t, rolledBack)

	// the schema can be rebuilt after a full rollback
	ran, err = migrator.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ran)
	assert.True(t, db.DB().Migrator().HasTable("post_tags"))
}

func TestMigrator_RollbackWithData(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	post, err := db.PostRepo().Create(ctx, samplePost("linked"))
	require.NoError(t, err)
	tag, err := db.TagRepo().Create(ctx, "go")
	require.NoError(t, err)
	require.NoError(t, db.TagRepo().AddToPost(ctx, post.ID, tag.ID))

	rolledBack, err := NewMigrator(db.DB()).Rollback(ctx)
	require.NoError(t, err)
	require.NotNil(t, rolledBack)

	for _, table := range []string{"posts", "tags", "post_tags"} {
		assert.False(t, db.DB().Migrator().HasTable(table), table)
	}

	statuses, err := NewMigrator(db.DB()).Status(ctx)
	require.NoError(t, err)
	assert.False(t, statuses[0].Applied)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{Driver: DriverSQLite, URL: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	defer db.Close()

	migrator := newMigrator(db.DB(), []Migration{{
		Version:     7,
		Description: "broken",
		Up: func(tx *gorm.DB) error {
			return tx.Exec("CREATE TABLE broken (").Error
		},
		Down: func(tx *gorm.DB) error { return nil },
	}})

	_, err = migrator.Migrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 7 (broken)")

	statuses, err := migrator.Status(ctx)
	require.NoError(t, err)
	assert.False(t, statuses[0].Applied)
}
